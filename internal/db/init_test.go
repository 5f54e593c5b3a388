package db_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/atinyakov/sbp/internal/db"
)

func TestInitPostgres_ErrorPaths(t *testing.T) {
	cases := []struct {
		name       string
		dsn        string
		wantSubstr string
	}{
		{"invalid DSN", "some=random", "ping postgres"},
		{"empty DSN", "", "ping postgres"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.InitPostgres(tc.dsn)
			if err == nil {
				t.Fatalf("InitPostgres(%q) did not return error", tc.dsn)
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Errorf("InitPostgres(%q) error = %q; want substring %q", tc.dsn, err.Error(), tc.wantSubstr)
			}
		})
	}
}

func TestInitSQLite_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sbp.db")

	conn, err := db.InitSQLite(path)
	if err != nil {
		t.Fatalf("InitSQLite: %v", err)
	}
	defer conn.Close()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM slots`).Scan(&n); err != nil {
		t.Fatalf("slots table missing: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty table, got %d rows", n)
	}

	// Opening twice must not fail on the existing schema.
	again, err := db.InitSQLite(path)
	if err != nil {
		t.Fatalf("second InitSQLite: %v", err)
	}
	again.Close()
}

func TestDialect_String(t *testing.T) {
	if got := db.Postgres.String(); got != "postgres" {
		t.Errorf("Postgres.String() = %q", got)
	}
	if got := db.SQLite.String(); got != "sqlite" {
		t.Errorf("SQLite.String() = %q", got)
	}
}
