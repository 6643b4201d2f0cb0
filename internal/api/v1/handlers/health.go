package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voicescribe/internal/api/errors"
	"voicescribe/internal/api/middleware"
	"voicescribe/internal/api/v1/dto"
	"voicescribe/internal/api/v1/services"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports whether the history store is reachable
type HealthHandler struct {
	history services.HistoryService
}

func NewHealthHandler(history services.HistoryService) *HealthHandler {
	return &HealthHandler{history: history}
}

// Check handles GET /health
//
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} errors.APIError "History store unreachable"
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.history.Ping(ctx); err != nil {
		_ = c.Error(err)
		middleware.HandleError(c, errors.NewServiceUnavailableError("History store unavailable"))
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "healthy",
		Store:     "ok",
		Timestamp: time.Now().Unix(),
	})
}
