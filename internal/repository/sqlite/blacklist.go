package sqlite

import (
	"context"
	"time"

	"github.com/adanyl0v/go-task-manager/internal/repository"
)

func (s *Store) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	const selectQuery = `SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE token_id = ?)`

	var blacklisted bool
	err := s.db.QueryRowContext(ctx, selectQuery, tokenID).Scan(&blacklisted)
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
// Entries whose token has expired are purged on the way.
func (s *Store) Blacklist(ctx context.Context, tokenID string, expiresAt time.Time) error {
	now := s.clock.Now()

	const deleteExpiredQuery = `DELETE FROM token_blacklist WHERE expires_at <= ?`
	res, err := s.db.ExecContext(ctx, deleteExpiredQuery, formatTimestamp(now))
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to delete expired blacklist entries")
		return err
	}
	if purged, _ := res.RowsAffected(); purged > 0 {
		s.logger.Debug().
			Int64("purged", purged).
			Msg("deleted expired blacklist entries")
	}

	const insertQuery = `
INSERT INTO token_blacklist (token_id, expires_at, blacklisted_at)
VALUES (?, ?, ?)
ON CONFLICT (token_id) DO NOTHING
`
	res, err = s.db.ExecContext(
		ctx,
		insertQuery,
		tokenID,
		formatTimestamp(expiresAt),
		formatTimestamp(now),
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("token_id", tokenID).
			Msg("failed to insert blacklist entry")
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.ErrAlreadyRevoked
	}

	s.logger.Debug().
		Str("token_id", tokenID).
		Time("expires_at", expiresAt).
		Msg("blacklisted token")
	return nil
}
