// Package sqlite provides a store.Store backed by SQLite through
// github.com/mattn/go-sqlite3, registered as "sqlite".
//
// The data source name is a file path or any go-sqlite3 DSN, for example
// "file:ink.db?_journal_mode=WAL". ":memory:" keeps everything in a single
// in-memory connection.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/store"
)

func init() {
	store.Register("sqlite", func(dsn string) (store.Store, error) {
		return Open(dsn)
	})
}

// migrations are applied in order and recorded in schema_migrations.
var migrations = []struct {
	version string
	sql     string
}{
	{"001_events", `
		CREATE TABLE events (
			seq          INTEGER PRIMARY KEY AUTOINCREMENT,
			signature_id TEXT    NOT NULL,
			timestamp    INTEGER NOT NULL,
			action       INTEGER NOT NULL,
			x            REAL    NOT NULL,
			y            REAL    NOT NULL
		);
		CREATE INDEX events_signature ON events (signature_id, seq);
	`},
}

// Store is a SQLite event store. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	closed atomic.Bool
}

// Open opens the database at dsn and applies pending migrations.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writers anyway; one connection also keeps a
	// ":memory:" database alive for the lifetime of the store.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.version).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", m.version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %s: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		ink.Logger().Debug("sqlite: applied migration", "version", m.version)
	}
	return nil
}

// Append implements store.Store. All events are written in one
// transaction.
func (s *Store) Append(ctx context.Context, id string, events ...ink.RawEvent) error {
	if s.closed.Load() {
		return store.ErrClosed
	}
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO events (signature_id, timestamp, action, x, y) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare append: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, id, ev.Timestamp, int32(ev.Action), float64(ev.X), float64(ev.Y)); err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}
	}
	return tx.Commit()
}

// Events implements store.Store.
func (s *Store) Events(ctx context.Context, id string) ([]ink.RawEvent, error) {
	if s.closed.Load() {
		return nil, store.ErrClosed
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT timestamp, action, x, y FROM events WHERE signature_id = ? ORDER BY seq", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []ink.RawEvent
	for rows.Next() {
		var (
			ev     ink.RawEvent
			action int32
			x, y   float64
		)
		if err := rows.Scan(&ev.Timestamp, &action, &x, &y); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Action = ink.Action(action)
		ev.X, ev.Y = float32(x), float32(y)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// IDs implements store.Store.
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	if s.closed.Load() {
		return nil, store.ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT signature_id FROM events ORDER BY signature_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s.closed.Load() {
		return store.ErrClosed
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE signature_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return errors.New("sqlite: store already closed")
	}
	return s.db.Close()
}
