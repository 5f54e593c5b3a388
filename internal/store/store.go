// Package store provides string-only key-value slot storage, namespaced by
// device, with in-memory, JSON file, SQLite and PostgreSQL backends.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/sbp/internal/db"
	"github.com/atinyakov/sbp/internal/models"
)

// Store is a persistent key-value store holding text values.
// A missing slot is reported with ok == false, never as an error.
type Store interface {
	// Get returns the raw value of slot for device.
	Get(ctx context.Context, device string, slot models.Slot) (value string, ok bool, err error)
	// Set replaces the raw value of slot for device.
	Set(ctx context.Context, device string, slot models.Slot, value string) error
	// Clear removes slot for device. Clearing a missing slot is not an error.
	Clear(ctx context.Context, device string, slot models.Slot) error
	// Close releases the backend.
	Close() error
}

// ErrUnknownBackend is returned by Open for DSNs it cannot route.
var ErrUnknownBackend = errors.New("unknown store backend")

// Backend is the result of Open. DB is non-nil for SQL backends so that
// callers can attach maintenance jobs to the same connection.
type Backend struct {
	Store   Store
	DB      *sql.DB
	Dialect db.Dialect
}

// Open selects a backend from dsn:
//
//	memory:              in-process map
//	file:<path>          JSON document on disk
//	sqlite:<path>        SQLite database (modernc.org/sqlite)
//	postgres://...       PostgreSQL (lib/pq), also postgresql://
func Open(dsn string) (*Backend, error) {
	switch {
	case dsn == "memory:" || dsn == "memory":
		return &Backend{Store: NewMemoryStore()}, nil
	case strings.HasPrefix(dsn, "file:"):
		fs, err := OpenFileStore(strings.TrimPrefix(dsn, "file:"))
		if err != nil {
			return nil, err
		}
		return &Backend{Store: fs}, nil
	case strings.HasPrefix(dsn, "sqlite:"):
		path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite:"), "//")
		conn, err := db.InitSQLite(path)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: NewSQLStore(conn, db.SQLite), DB: conn, Dialect: db.SQLite}, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		conn, err := db.InitPostgres(dsn)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: NewSQLStore(conn, db.Postgres), DB: conn, Dialect: db.Postgres}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, dsn)
	}
}
