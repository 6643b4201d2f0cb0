package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"voicescribe/internal/app/repository"
)

// DriverName is the database/sql driver registered by lib/pq.
const DriverName = "postgres"

// Open connects to PostgreSQL, verifies the connection and ensures the
// schema exists.
func Open(ctx context.Context, connStr string) (*repository.SQLHistory, error) {
	db, err := sql.Open(DriverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	history := repository.NewSQLHistory(db, DriverName)
	if err := history.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return history, nil
}
