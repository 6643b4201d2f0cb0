// Package memory is a process-local HistoryStore for tests and ephemeral
// deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	apperrors "voicescribe/internal/app/errors"
	"voicescribe/internal/app/model"
	"voicescribe/internal/app/repository"
)

type History struct {
	mu      sync.RWMutex
	records []model.Transcript
	nextID  int64
	clock   *repository.Clock
	closed  bool
}

func New() *History {
	return &History{nextID: 1, clock: repository.NewClock(nil)}
}

// WithClock swaps the timestamp source.
func (h *History) WithClock(c *repository.Clock) *History {
	h.clock = c
	return h
}

func (h *History) Append(ctx context.Context, text string) (*model.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, apperrors.ErrStoreClosed
	}

	rec := model.Transcript{ID: h.nextID, Text: text, CreatedAt: h.clock.Next()}
	h.nextID++
	h.records = append(h.records, rec)
	return &rec, nil
}

func (h *History) ListRecent(ctx context.Context, limit int) ([]model.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, apperrors.ErrStoreClosed
	}

	n := len(h.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.Transcript, 0, n)
	for i := len(h.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, h.records[i])
	}
	return out, nil
}

// Import merges records and keeps the slice sorted oldest first.
func (h *History) Import(ctx context.Context, records []model.Transcript) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return apperrors.ErrStoreClosed
	}

	h.records = append(h.records, records...)
	sort.SliceStable(h.records, func(i, j int) bool {
		a, b := h.records[i], h.records[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	for _, rec := range records {
		if rec.ID >= h.nextID {
			h.nextID = rec.ID + 1
		}
	}
	return nil
}

func (h *History) Ping(ctx context.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return apperrors.ErrStoreClosed
	}
	return nil
}

func (h *History) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return nil
}
