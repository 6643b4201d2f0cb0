package services

import (
	"context"

	"voicescribe/internal/api/v1/dto"
	"voicescribe/internal/app/pipeline"
)

// TranscriptionServiceImpl implements the TranscriptionService interface
type TranscriptionServiceImpl struct {
	runner PipelineRunner
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(runner PipelineRunner) TranscriptionService {
	return &TranscriptionServiceImpl{
		runner: runner,
	}
}

// Transcribe runs the upload through the pipeline. A transcript that could
// not be saved is still returned.
func (s *TranscriptionServiceImpl) Transcribe(ctx context.Context, upload pipeline.Upload) (*dto.TranscribeResponse, error) {
	res, err := s.runner.Run(ctx, upload)
	if err != nil {
		return nil, err
	}
	return &dto.TranscribeResponse{Text: res.Text}, nil
}
