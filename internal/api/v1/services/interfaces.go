package services

import (
	"context"
	"io"

	"voicescribe/internal/api/v1/dto"
	"voicescribe/internal/app/converter/export"
	"voicescribe/internal/app/pipeline"
)

// TranscriptionService defines the interface for transcription operations
type TranscriptionService interface {
	Transcribe(ctx context.Context, upload pipeline.Upload) (*dto.TranscribeResponse, error)
}

// HistoryService defines the interface for history operations
type HistoryService interface {
	// List returns up to limit transcripts newest first. A limit of zero
	// selects the configured default.
	List(ctx context.Context, limit int) ([]dto.TranscriptResponse, error)
	Ping(ctx context.Context) error
}

// ExportService defines the interface for export operations
type ExportService interface {
	Export(ctx context.Context, format export.Format, limit int, w io.Writer) error
}

// PipelineRunner runs one upload through the transcribe pipeline.
type PipelineRunner interface {
	Run(ctx context.Context, up pipeline.Upload) (*pipeline.Result, error)
}
