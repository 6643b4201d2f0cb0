package dto

import (
	"time"

	"github.com/samber/lo"

	"voicescribe/internal/app/model"
)

// TranscribeResponse is the body of a successful POST /api/transcribe.
type TranscribeResponse struct {
	Text string `json:"text" example:"hello world"`
}

// TranscriptResponse is one history entry.
type TranscriptResponse struct {
	ID        int64     `json:"id" example:"42"`
	Text      string    `json:"text" example:"hello world"`
	CreatedAt time.Time `json:"createdAt" example:"2025-03-01T10:00:00Z"`
}

// HistoryQuery holds GET /api/history query parameters. A zero Limit means
// the server default.
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// NewTranscriptResponse converts a stored transcript.
func NewTranscriptResponse(t model.Transcript) TranscriptResponse {
	return TranscriptResponse{
		ID:        t.ID,
		Text:      t.Text,
		CreatedAt: t.CreatedAt,
	}
}

// NewTranscriptResponses converts records keeping their order. The result is
// never nil so an empty history encodes as [].
func NewTranscriptResponses(records []model.Transcript) []TranscriptResponse {
	if len(records) == 0 {
		return []TranscriptResponse{}
	}
	return lo.Map(records, func(t model.Transcript, _ int) TranscriptResponse {
		return NewTranscriptResponse(t)
	})
}
