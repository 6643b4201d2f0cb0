package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voicescribe/internal/api/errors"
	"voicescribe/internal/api/middleware"
	"voicescribe/internal/api/v1/services"
	"voicescribe/internal/app/pipeline"
)

// AudioField is the multipart field carrying the recording.
const AudioField = "audio"

// TranscriptionHandler handles transcription-related API endpoints
type TranscriptionHandler struct {
	service services.TranscriptionService
}

// NewTranscriptionHandler creates a new transcription handler
func NewTranscriptionHandler(service services.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{
		service: service,
	}
}

// Transcribe handles POST /api/transcribe
//
// @Summary Transcribe an audio recording
// @Description Uploads one audio file, transcribes it with the configured provider and saves the transcript to history. A transcript that could not be saved is still returned.
// @Tags transcriptions
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio recording (audio/* or video/webm)"
// @Success 200 {object} dto.TranscribeResponse "Transcript text, empty for silence"
// @Failure 400 {object} errors.APIError "No file, more than one file, or not audio"
// @Failure 413 {object} errors.APIError "Upload exceeds the size limit"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Failure 502 {object} errors.APIError "Transcription provider failed"
// @Router /transcribe [post]
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			middleware.HandleError(c, err)
			return
		}
		middleware.HandleError(c, errors.NewBadRequestError("Expected a multipart form with an audio file"))
		return
	}

	uploads := form.File[AudioField]
	switch len(uploads) {
	case 0:
		middleware.HandleError(c, errors.NewBadRequestError("No audio file uploaded"))
		return
	case 1:
	default:
		middleware.HandleError(c, errors.NewBadRequestError("Exactly one audio file is allowed"))
		return
	}

	header := uploads[0]
	file, err := header.Open()
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Failed to read uploaded file"))
		return
	}
	defer file.Close()

	response, err := h.service.Transcribe(c.Request.Context(), pipeline.Upload{
		Body:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		RequestID:   middleware.GetRequestID(c),
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
