package services

import (
	"context"
	"fmt"

	"voicescribe/internal/api/v1/dto"
	"voicescribe/internal/app/metrics"
	"voicescribe/internal/app/repository"
)

// HistoryServiceImpl implements the HistoryService interface
type HistoryServiceImpl struct {
	store        repository.HistoryStore
	defaultLimit int
	metrics      *metrics.Metrics
}

// NewHistoryService creates a new history service. defaultLimit applies when
// a caller passes no limit; zero means unbounded.
func NewHistoryService(store repository.HistoryStore, defaultLimit int, m *metrics.Metrics) HistoryService {
	return &HistoryServiceImpl{
		store:        store,
		defaultLimit: defaultLimit,
		metrics:      m,
	}
}

func (s *HistoryServiceImpl) List(ctx context.Context, limit int) ([]dto.TranscriptResponse, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	records, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	s.metrics.HistoryListed(len(records))
	return dto.NewTranscriptResponses(records), nil
}

func (s *HistoryServiceImpl) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
