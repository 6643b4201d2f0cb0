package services

import (
	"context"
	"fmt"
	"io"

	"voicescribe/internal/app/converter/export"
	"voicescribe/internal/app/repository"
)

// ExportServiceImpl implements the ExportService interface
type ExportServiceImpl struct {
	store repository.HistoryStore
}

// NewExportService creates a new export service
func NewExportService(store repository.HistoryStore) ExportService {
	return &ExportServiceImpl{
		store: store,
	}
}

// Export writes up to limit transcripts, newest first, to w. Zero exports
// everything.
func (s *ExportServiceImpl) Export(ctx context.Context, format export.Format, limit int, w io.Writer) error {
	records, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to fetch transcripts: %w", err)
	}
	return export.Write(w, format, records)
}
