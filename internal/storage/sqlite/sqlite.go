// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface on the pure Go driver. It backs local
// development and the test suite; production runs on Postgres.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	sqlitelib "modernc.org/sqlite"

	"github.com/savetogether/backend/internal/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and runs pending
// migrations.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows one writer at a time. A single pooled connection
	// queues concurrent transactions instead of surfacing SQLITE_BUSY,
	// and makes the pragma below hold for every query.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("goose up: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() {
	s.db.Close()
}

// SQLite extended result codes for unique and primary key constraint
// violations.
const (
	codeConstraintPrimaryKey = 1555
	codeConstraintUnique     = 2067
)

func isUniqueViolation(err error) bool {
	var liteErr *sqlitelib.Error
	if !errors.As(err, &liteErr) {
		return false
	}
	return liteErr.Code() == codeConstraintUnique || liteErr.Code() == codeConstraintPrimaryKey
}

// Timestamps are stored as unix seconds.

func fromUnix(v int64) time.Time {
	return time.Unix(v, 0).UTC()
}

func fromUnixPtr(v *int64) *time.Time {
	if v == nil {
		return nil
	}
	t := fromUnix(*v)
	return &t
}

func toUnixPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.Unix()
	return &v
}

// nullable maps "" to SQL NULL so unique indexes on optional columns
// behave.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
