package app

import (
	"context"
	"fmt"

	"github.com/adanyl0v/go-task-manager/internal/clock"
	"github.com/adanyl0v/go-task-manager/internal/config"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

// storage is implemented by every SQL backend.
type storage interface {
	services.AccountRepository
	services.TaskRepository
	services.TokenBlacklist
	Ping(ctx context.Context) error
}

var (
	globalClock   = clock.Real()
	globalStorage storage
)

func MustOpenStorage() {
	driver := config.Global().Storage.Driver
	switch driver {
	case config.StorageDriverPostgres:
		globalStorage = mustConnectPostgres()
	case config.StorageDriverSQLite:
		globalStorage = mustOpenSQLite()
	default:
		globalLogger.Error().
			Str("driver", driver).
			Msg("unknown storage driver")
		panic(fmt.Errorf("unknown storage driver: %s", driver))
	}
}

func CloseStorage() {
	switch config.Global().Storage.Driver {
	case config.StorageDriverPostgres:
		disconnectPostgres()
	case config.StorageDriverSQLite:
		closeSQLite()
	}
}
