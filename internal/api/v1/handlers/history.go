package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voicescribe/internal/api/middleware"
	"voicescribe/internal/api/v1/dto"
	"voicescribe/internal/api/v1/services"
)

// HistoryHandler serves saved transcripts
type HistoryHandler struct {
	service services.HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service services.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		service: service,
	}
}

// List handles GET /api/history
//
// @Summary List saved transcripts
// @Description Returns saved transcripts newest first. Without limit the server default applies, which is unbounded unless configured.
// @Tags history
// @Produce json
// @Param limit query int false "Maximum number of transcripts" minimum(1) maximum(1000)
// @Success 200 {array} dto.TranscriptResponse "Transcripts, newest first"
// @Failure 400 {object} errors.APIError "Invalid query parameters"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Header 200 {string} X-Total-Count "Number of transcripts returned"
// @Router /history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var query dto.HistoryQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.List(c.Request.Context(), query.Limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(len(response)))
	c.JSON(http.StatusOK, response)
}
