package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voicescribe/internal/api/errors"
	"voicescribe/internal/api/middleware"
	"voicescribe/internal/api/v1/dto"
	"voicescribe/internal/api/v1/services"
	"voicescribe/internal/app/converter/export"
)

// ExportHandler handles export-related HTTP requests
type ExportHandler struct {
	service services.ExportService
	now     func() time.Time
}

// NewExportHandler creates a new export handler
func NewExportHandler(service services.ExportService) *ExportHandler {
	return &ExportHandler{
		service: service,
		now:     time.Now,
	}
}

// Export handles GET /api/history/export
//
// @Summary Download transcript history
// @Description Exports saved transcripts newest first as CSV, JSON or an Excel workbook.
// @Tags history
// @Produce text/csv
// @Produce application/json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "Export format" default(csv) Enums(csv,json,xlsx)
// @Param limit query int false "Maximum number of transcripts" minimum(1) maximum(1000)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} errors.APIError "Invalid query parameters"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /history/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}
	if query.Format == "" {
		query.Format = string(export.FormatCSV)
	}

	format, err := export.ParseFormat(query.Format)
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError(err.Error()))
		return
	}

	// Buffered so a failed export can still answer with an error status.
	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), format, query.Limit, &buf); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(h.now())))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
