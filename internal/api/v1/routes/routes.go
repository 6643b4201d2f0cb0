package routes

import (
	"github.com/gin-gonic/gin"

	"voicescribe/internal/api/middleware"
	"voicescribe/internal/api/v1/handlers"
	"voicescribe/internal/api/v1/services"
)

// RegisterRoutes registers the API routes on router, normally the /api
// group. Uploads are capped at maxUploadBytes.
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer, maxUploadBytes int64) {
	transcriptionHandler := handlers.NewTranscriptionHandler(container.TranscriptionService)
	router.POST("/transcribe", middleware.UploadLimit(maxUploadBytes), transcriptionHandler.Transcribe)

	historyHandler := handlers.NewHistoryHandler(container.HistoryService)
	history := router.Group("/history")
	{
		history.GET("", historyHandler.List)

		if container.ExportService != nil {
			exportHandler := handlers.NewExportHandler(container.ExportService)
			history.GET("/export", exportHandler.Export)
		}
	}
}

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	TranscriptionService services.TranscriptionService
	HistoryService       services.HistoryService
	ExportService        services.ExportService
}
