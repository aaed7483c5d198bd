// Package redis keeps the token blacklist in Redis, letting entries expire
// together with the tokens they revoke.
package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/clock"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

const keyPrefix = "token_blacklist:"

type Blacklist struct {
	logger zerolog.Logger
	clock  clock.Clock
	client goredis.UniversalClient
}

// NewBlacklist wraps client. A nil clk means clock.Real().
func NewBlacklist(client goredis.UniversalClient, logger zerolog.Logger, clk clock.Clock) *Blacklist {
	if clk == nil {
		clk = clock.Real()
	}
	return &Blacklist{
		logger: logger,
		clock:  clk,
		client: client,
	}
}

func (b *Blacklist) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		b.logger.Error().
			Err(err).
			Str("token_id", tokenID).
			Msg("failed to check token blacklist")
		return false, err
	}
	return n > 0, nil
}

// Blacklist stores tokenID with a TTL reaching expiresAt. It returns
// repository.ErrAlreadyRevoked when the key already exists.
func (b *Blacklist) Blacklist(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.clock.Now())
	if ttl < time.Second {
		ttl = time.Second
	}

	ok, err := b.client.SetNX(ctx, keyPrefix+tokenID, expiresAt.Unix(), ttl).Result()
	if err != nil {
		b.logger.Error().
			Err(err).
			Str("token_id", tokenID).
			Msg("failed to set blacklist key")
		return err
	}
	if !ok {
		return repository.ErrAlreadyRevoked
	}

	b.logger.Debug().
		Str("token_id", tokenID).
		Dur("ttl", ttl).
		Msg("blacklisted token")
	return nil
}

func (b *Blacklist) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
