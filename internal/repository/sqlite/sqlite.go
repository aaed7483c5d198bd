// Package sqlite is the SQLite implementation of the account, task and
// token blacklist stores. It backs the local environment and the tests.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/adanyl0v/go-task-manager/internal/clock"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

//go:embed schema.sql
var schemaSQL string

const (
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
	dateLayout      = time.DateOnly
)

const memoryPath = ":memory:"

// Config holds the parameters for Open. Path is required.
type Config struct {
	// Path is the database file. ":memory:" opens a private in-memory
	// database limited to one connection.
	Path string

	Logger zerolog.Logger

	// Clock decides when blacklist entries expire. Defaults to clock.Real().
	Clock clock.Clock
}

type Store struct {
	logger zerolog.Logger
	clock  clock.Clock
	db     *sql.DB
}

// Open opens the database and applies the schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	path := cfg.Path
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if path == memoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	_, err = db.ExecContext(ctx, schemaSQL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	cfg.Logger.Debug().
		Str("path", path).
		Msg("applied sqlite schema")
	return &Store{logger: cfg.Logger, clock: clk, db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return t, nil
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(dateLayout)
}

func parseDate(value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date %q: %w", value.String, err)
	}
	return &t, nil
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}

// uniqueViolation maps a UNIQUE constraint failure on users to the matching
// repository error. Other errors are returned unchanged.
func uniqueViolation(err error) error {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return err
	}

	msg := sqliteErr.Error()
	switch {
	case strings.Contains(msg, "users.username"):
		return repository.ErrUsernameTaken
	case strings.Contains(msg, "users.email"):
		return repository.ErrEmailTaken
	}
	return err
}
