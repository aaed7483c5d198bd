// Package postgres is the PostgreSQL implementation of the account, task
// and token blacklist stores.
package postgres

import (
	"context"
	_ "embed"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/clock"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

//go:embed schema.sql
var schemaSQL string

const (
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

type Store struct {
	logger zerolog.Logger
	clock  clock.Clock
	pool   *pgxpool.Pool
}

// New wraps an established pool. A nil clk means clock.Real().
func New(pool *pgxpool.Pool, logger zerolog.Logger, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.Real()
	}
	return &Store{
		logger: logger,
		clock:  clk,
		pool:   pool,
	}
}

// Migrate creates the tables if they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schemaSQL)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to apply postgres schema")
		return err
	}
	s.logger.Debug().Msg("applied postgres schema")
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case usernameConstraint:
		return repository.ErrUsernameTaken
	case emailConstraint:
		return repository.ErrEmailTaken
	}
	return err
}
