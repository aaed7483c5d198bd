package app

import (
	"context"

	"github.com/adanyl0v/go-task-manager/internal/config"
	"github.com/adanyl0v/go-task-manager/internal/repository/sqlite"
)

var globalSQLiteStore *sqlite.Store

func mustOpenSQLite() *sqlite.Store {
	cfg := config.Global().SQLite

	var err error
	globalSQLiteStore, err = sqlite.Open(context.Background(), sqlite.Config{
		Path:   cfg.Path,
		Logger: globalLogger,
		Clock:  globalClock,
	})
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", cfg.Path).
			Msg("failed to open sqlite")
		panic(err)
	}
	globalLogger.Info().
		Str("path", cfg.Path).
		Msg("opened sqlite")
	return globalSQLiteStore
}

func closeSQLite() {
	err := globalSQLiteStore.Close()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close sqlite")
		return
	}
	globalLogger.Info().Msg("closed sqlite")
}
