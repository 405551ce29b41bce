// Package journal provides SQLite-backed persistence for dispatched
// operations. The journal is observability only: it records what ran and
// how it ended, never session state, and a journal failure never fails the
// dispatch that produced it.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/framefold/resolvebridge/internal/bridge/journal/migrations"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	sqlitemigrate "github.com/framefold/resolvebridge/internal/platform/storage/sqlitemigrate"
)

// DefaultRecent is how many entries Recent returns when the caller does not
// say. MaxRecent caps the window.
const (
	DefaultRecent = 20
	MaxRecent     = 200
)

// Entry is one journaled dispatch.
type Entry struct {
	ID         int64
	Operation  string
	Kind       string
	Detail     string
	DurationMS int64
	CreatedAt  time.Time
}

// Journal provides SQLite-backed operation records.
type Journal struct {
	sqlDB  *sql.DB
	logger *log.Logger
}

// Open opens a journal at the provided path.
func Open(path string, logger *log.Logger) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Journal{sqlDB: sqlDB, logger: logger}, nil
}

// Close closes the underlying SQLite database.
func (j *Journal) Close() error {
	if j == nil || j.sqlDB == nil {
		return nil
	}
	return j.sqlDB.Close()
}

// Record appends one dispatch record. Write failures are logged and
// swallowed so the dispatch outcome is unaffected.
func (j *Journal) Record(ctx context.Context, op string, kind outcome.Kind, detail string, elapsed time.Duration) {
	if j == nil || j.sqlDB == nil {
		return
	}
	_, err := j.sqlDB.ExecContext(ctx,
		`INSERT INTO operations (name, outcome, detail, duration_ms, created_at) VALUES (?, ?, ?, ?, ?)`,
		op, string(kind), detail, elapsed.Milliseconds(), time.Now().UTC().UnixMilli(),
	)
	if err != nil && j.logger != nil {
		j.logger.Printf("journal: record %s: %v", op, err)
	}
}

// Recent returns the newest n entries, newest first. n outside [1, MaxRecent]
// is clamped.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	if j == nil || j.sqlDB == nil {
		return nil, fmt.Errorf("journal is not open")
	}
	if n <= 0 {
		n = DefaultRecent
	}
	if n > MaxRecent {
		n = MaxRecent
	}
	rows, err := j.sqlDB.QueryContext(ctx,
		`SELECT id, name, outcome, detail, duration_ms, created_at FROM operations ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.Operation, &e.Kind, &e.Detail, &e.DurationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan operation row: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operation rows: %w", err)
	}
	return entries, nil
}
