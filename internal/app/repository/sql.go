package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"voicescribe/internal/app/model"
)

// PlaceholderFunc renders the n-th (1-based) bind parameter for a dialect.
type PlaceholderFunc func(n int) string

func questionPlaceholder(int) string { return "?" }
func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

// SQLHistory is the HistoryStore shared by the SQLite and PostgreSQL
// backends. created_at is stored as unix nanoseconds in both dialects so
// ordering never depends on driver timestamp handling.
type SQLHistory struct {
	db          *sql.DB
	driverName  string
	placeholder PlaceholderFunc
	clock       *Clock
}

// NewSQLHistory wraps an open database. driverName selects the dialect:
// "postgres" uses $n placeholders, anything else uses ?.
func NewSQLHistory(db *sql.DB, driverName string) *SQLHistory {
	ph := questionPlaceholder
	if driverName == "postgres" {
		ph = dollarPlaceholder
	}
	return &SQLHistory{
		db:          db,
		driverName:  driverName,
		placeholder: ph,
		clock:       NewClock(nil),
	}
}

// WithClock swaps the timestamp source. Used by tests.
func (h *SQLHistory) WithClock(c *Clock) *SQLHistory {
	h.clock = c
	return h
}

// DB exposes the underlying handle.
func (h *SQLHistory) DB() *sql.DB {
	return h.db
}

func (h *SQLHistory) schema() []string {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if h.driverName == "postgres" {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transcripts (
			id %s,
			text TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`, idColumn),
		`CREATE INDEX IF NOT EXISTS idx_transcripts_created_at ON transcripts (created_at DESC, id DESC)`,
	}
}

// Migrate creates the transcripts table if it does not exist.
func (h *SQLHistory) Migrate(ctx context.Context) error {
	for _, stmt := range h.schema() {
		if _, err := h.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate transcripts schema: %w", err)
		}
	}
	return nil
}

// Append inserts a transcript stamped with the current time.
func (h *SQLHistory) Append(ctx context.Context, text string) (*model.Transcript, error) {
	createdAt := h.clock.Next()

	query := fmt.Sprintf(
		"INSERT INTO transcripts (text, created_at) VALUES (%s, %s) RETURNING id",
		h.placeholder(1), h.placeholder(2),
	)

	var id int64
	if err := h.db.QueryRowContext(ctx, query, text, createdAt.UnixNano()).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to insert transcript: %w", err)
	}

	return &model.Transcript{ID: id, Text: text, CreatedAt: createdAt}, nil
}

// ListRecent returns up to limit transcripts, newest first.
func (h *SQLHistory) ListRecent(ctx context.Context, limit int) ([]model.Transcript, error) {
	query := "SELECT id, text, created_at FROM transcripts ORDER BY created_at DESC, id DESC"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT " + h.placeholder(1)
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}
	defer rows.Close()

	records := make([]model.Transcript, 0)
	for rows.Next() {
		var (
			rec   model.Transcript
			nanos int64
		)
		if err := rows.Scan(&rec.ID, &rec.Text, &nanos); err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		rec.CreatedAt = time.Unix(0, nanos).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transcripts: %w", err)
	}
	return records, nil
}

// Import inserts records verbatim, keeping their IDs and timestamps.
func (h *SQLHistory) Import(ctx context.Context, records []model.Transcript) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(
		"INSERT INTO transcripts (id, text, created_at) VALUES (%s, %s, %s)",
		h.placeholder(1), h.placeholder(2), h.placeholder(3),
	)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare import: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Text, rec.CreatedAt.UnixNano()); err != nil {
			return fmt.Errorf("failed to import transcript %d: %w", rec.ID, err)
		}
	}

	if h.driverName == "postgres" {
		// Keep BIGSERIAL ahead of imported ids.
		if _, err := tx.ExecContext(ctx,
			"SELECT setval(pg_get_serial_sequence('transcripts', 'id'), COALESCE((SELECT MAX(id) FROM transcripts), 1))",
		); err != nil {
			return fmt.Errorf("failed to reset id sequence: %w", err)
		}
	}

	return tx.Commit()
}

// Ping checks the database connection.
func (h *SQLHistory) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

// Close closes the database.
func (h *SQLHistory) Close() error {
	return h.db.Close()
}
