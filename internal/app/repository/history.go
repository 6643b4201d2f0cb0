package repository

import (
	"context"

	"voicescribe/internal/app/model"
)

// HistoryStore is the append-only transcript history.
//
// ListRecent returns records ordered by CreatedAt descending, ties broken by
// insertion order (later first). A limit <= 0 returns every record.
type HistoryStore interface {
	Append(ctx context.Context, text string) (*model.Transcript, error)
	ListRecent(ctx context.Context, limit int) ([]model.Transcript, error)
	Ping(ctx context.Context) error
	Close() error
}

// Importer writes records that already carry an ID and CreatedAt, such as
// rows copied from another store.
type Importer interface {
	Import(ctx context.Context, records []model.Transcript) error
}
