// Package migrate copies transcript history between backends, for example
// from a local SQLite file into PostgreSQL.
package migrate

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"voicescribe/internal/app/repository"
)

const DefaultBatchSize = 1000

// Copy moves every record of src into dst, oldest first, preserving ids and
// timestamps. It returns the number of records written.
func Copy(ctx context.Context, src repository.HistoryStore, dst repository.Importer, batchSize int, logger *zap.Logger) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	records, err := src.ListRecent(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to read source history: %w", err)
	}
	records = lo.Reverse(records)

	copied := 0
	for i, batch := range lo.Chunk(records, batchSize) {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		if err := dst.Import(ctx, batch); err != nil {
			return copied, fmt.Errorf("batch %d (ids %d..%d): %w", i, batch[0].ID, batch[len(batch)-1].ID, err)
		}
		copied += len(batch)
		logger.Info("copied batch",
			zap.Int("batch", i),
			zap.Int("records", len(batch)),
			zap.Int("total", copied),
		)
	}

	return copied, nil
}
