package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"voicescribe/internal/app/model"
)

// MockHistoryStore is a testify mock for repository.HistoryStore.
type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) Append(ctx context.Context, text string) (*model.Transcript, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transcript), args.Error(1)
}

func (m *MockHistoryStore) ListRecent(ctx context.Context, limit int) ([]model.Transcript, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transcript), args.Error(1)
}

func (m *MockHistoryStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHistoryStore) Close() error {
	return m.Called().Error(0)
}
