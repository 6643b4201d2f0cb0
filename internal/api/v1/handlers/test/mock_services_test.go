package test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	"voicescribe/internal/api/v1/dto"
	"voicescribe/internal/app/converter/export"
	"voicescribe/internal/app/pipeline"
)

// MockServices bundles mocks for every v1 service.
type MockServices struct {
	TranscriptionService *MockTranscriptionService
	HistoryService       *MockHistoryService
	ExportService        *MockExportService
}

// NewMockServices creates mocks that assert their expectations when t ends.
func NewMockServices(t *testing.T) *MockServices {
	return &MockServices{
		TranscriptionService: NewMockTranscriptionService(t),
		HistoryService:       NewMockHistoryService(t),
		ExportService:        NewMockExportService(t),
	}
}

type MockTranscriptionService struct {
	mock.Mock
}

func NewMockTranscriptionService(t *testing.T) *MockTranscriptionService {
	m := &MockTranscriptionService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Transcribe drains the upload before recording the call so expectations can
// match on the payload.
func (m *MockTranscriptionService) Transcribe(ctx context.Context, upload pipeline.Upload) (*dto.TranscribeResponse, error) {
	payload, err := io.ReadAll(upload.Body)
	if err != nil {
		return nil, err
	}
	args := m.Called(ctx, upload.Filename, upload.ContentType, string(payload))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TranscribeResponse), args.Error(1)
}

type MockHistoryService struct {
	mock.Mock
}

func NewMockHistoryService(t *testing.T) *MockHistoryService {
	m := &MockHistoryService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockHistoryService) List(ctx context.Context, limit int) ([]dto.TranscriptResponse, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.TranscriptResponse), args.Error(1)
}

func (m *MockHistoryService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockExportService struct {
	mock.Mock
}

func NewMockExportService(t *testing.T) *MockExportService {
	m := &MockExportService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Export writes the mocked body, a string in position 0, to w.
func (m *MockExportService) Export(ctx context.Context, format export.Format, limit int, w io.Writer) error {
	args := m.Called(ctx, format, limit)
	if body, ok := args.Get(0).(string); ok {
		if _, err := io.WriteString(w, body); err != nil {
			return err
		}
	}
	return args.Error(1)
}
