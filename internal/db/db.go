// Package db stores the client's own history: the recently viewed
// components and the task transitions the watcher reacted to.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DefaultMaxRecent bounds the recently viewed list when no limit is set.
const DefaultMaxRecent = 20

// Timestamps are stored as fixed-width UTC text so that they sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// DB wraps the SQLite connection.
type DB struct {
	*sql.DB
	maxRecent int
}

// OpenPath opens (creating if needed) the database at dbPath and migrates it.
// ":memory:" is accepted for tests.
func OpenPath(ctx context.Context, dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared.
	conn.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &DB{DB: conn, maxRecent: DefaultMaxRecent}, nil
}

// SetMaxRecent changes how many recently viewed components are kept.
// Non-positive values restore the default.
func (db *DB) SetMaxRecent(n int) {
	if n <= 0 {
		n = DefaultMaxRecent
	}
	db.maxRecent = n
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
