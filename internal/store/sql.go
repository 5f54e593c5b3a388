package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/sbp/internal/db"
	"github.com/atinyakov/sbp/internal/models"
)

type queries struct {
	get   string
	set   string
	clear string
}

var dialectQueries = map[db.Dialect]queries{
	db.Postgres: {
		get: `SELECT value FROM slots WHERE device = $1 AND slot = $2`,
		set: `INSERT INTO slots (device, slot, value, updated_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (device, slot) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		clear: `DELETE FROM slots WHERE device = $1 AND slot = $2`,
	},
	db.SQLite: {
		get: `SELECT value FROM slots WHERE device = ? AND slot = ?`,
		set: `INSERT INTO slots (device, slot, value, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (device, slot) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		clear: `DELETE FROM slots WHERE device = ? AND slot = ?`,
	},
}

// SQLStore keeps slots in the slots table of a PostgreSQL or SQLite database.
type SQLStore struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
	q  queries
	// now stamps updated_at; replaced in tests.
	now func() time.Time
}

// NewSQLStore creates a SQLStore over db using the placeholder syntax of dialect.
// The slots table must already exist (see db.InitPostgres and db.InitSQLite).
func NewSQLStore(conn *sql.DB, dialect db.Dialect) *SQLStore {
	return &SQLStore{DB: conn, q: dialectQueries[dialect], now: time.Now}
}

// Get returns the value of slot for device.
func (s *SQLStore) Get(ctx context.Context, device string, slot models.Slot) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, s.q.get, device, string(slot)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get slot %s: %w", slot, err)
	}
	return value, true, nil
}

// Set upserts value under slot for device.
func (s *SQLStore) Set(ctx context.Context, device string, slot models.Slot, value string) error {
	_, err := s.DB.ExecContext(ctx, s.q.set, device, string(slot), value, s.now().Unix())
	if err != nil {
		return fmt.Errorf("set slot %s: %w", slot, err)
	}
	return nil
}

// Clear deletes slot for device.
func (s *SQLStore) Clear(ctx context.Context, device string, slot models.Slot) error {
	_, err := s.DB.ExecContext(ctx, s.q.clear, device, string(slot))
	if err != nil {
		return fmt.Errorf("clear slot %s: %w", slot, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.DB.Close()
}
