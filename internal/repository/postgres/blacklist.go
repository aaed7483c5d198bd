package postgres

import (
	"context"
	"time"

	"github.com/adanyl0v/go-task-manager/internal/repository"
)

func (s *Store) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	const selectQuery = `SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE token_id = $1)`

	var blacklisted bool
	err := s.pool.QueryRow(ctx, selectQuery, tokenID).Scan(&blacklisted)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("token_id", tokenID).
			Msg("failed to check token blacklist")
		return false, err
	}
	return blacklisted, nil
}

// Blacklist records tokenID until expiresAt. It returns
// repository.ErrAlreadyRevoked if the token is already on the list.
func (s *Store) Blacklist(ctx context.Context, tokenID string, expiresAt time.Time) error {
	now := s.clock.Now()

	const deleteExpiredQuery = `DELETE FROM token_blacklist WHERE expires_at <= $1`
	tag, err := s.pool.Exec(ctx, deleteExpiredQuery, now)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to delete expired blacklist entries")
		return err
	}
	if purged := tag.RowsAffected(); purged > 0 {
		s.logger.Debug().
			Int64("purged", purged).
			Msg("deleted expired blacklist entries")
	}

	const insertQuery = `
INSERT INTO token_blacklist (token_id, expires_at, blacklisted_at)
VALUES ($1, $2, $3)
ON CONFLICT (token_id) DO NOTHING
`
	tag, err = s.pool.Exec(ctx, insertQuery, tokenID, expiresAt, now)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("token_id", tokenID).
			Msg("failed to insert blacklist entry")
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrAlreadyRevoked
	}

	s.logger.Debug().
		Str("token_id", tokenID).
		Time("expires_at", expiresAt).
		Msg("blacklisted token")
	return nil
}
