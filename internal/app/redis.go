package app

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/adanyl0v/go-task-manager/internal/config"
	"github.com/adanyl0v/go-task-manager/internal/repository/redis"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

var (
	globalRedisClient    *goredis.Client
	globalRedisBlacklist *redis.Blacklist
	globalBlacklist      services.TokenBlacklist
)

// MustConnectRedis moves the token blacklist to Redis when REDIS_ADDR is
// set. Otherwise the blacklist stays in the SQL storage.
func MustConnectRedis() {
	cfg := config.Global().Redis
	if cfg.Addr == "" {
		globalBlacklist = globalStorage
		globalLogger.Info().Msg("using sql token blacklist")
		return
	}

	globalRedisClient = goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err := globalRedisClient.Ping(ctx).Err()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("addr", cfg.Addr).
			Msg("failed to ping redis")
		panic(err)
	}
	globalLogger.Info().
		Str("addr", cfg.Addr).
		Msg("connected to redis")

	globalRedisBlacklist = redis.NewBlacklist(globalRedisClient, globalLogger, globalClock)
	globalBlacklist = globalRedisBlacklist
}

func DisconnectRedis() {
	if globalRedisClient == nil {
		return
	}
	err := globalRedisClient.Close()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close redis client")
		return
	}
	globalLogger.Info().Msg("disconnected from redis")
}
