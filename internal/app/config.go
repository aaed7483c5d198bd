package app

import (
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-task-manager/internal/config"
)

var globalLocation *time.Location

// MustReadConfig reads the config file at path, or only the environment
// when path is empty.
func MustReadConfig(path string) {
	var reader config.Reader = config.NewEnvReader()
	if path != "" {
		reader = config.NewFileReader(path)
	}

	cfg, err := reader.Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", path).
			Msg("failed to read config")
		panic(err)
	}

	globalLocation, err = time.LoadLocation(cfg.TimeZone)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("time_zone", cfg.TimeZone).
			Msg("failed to load time zone")
		panic(err)
	}

	globalLogger.Info().
		Str("env", cfg.Env).
		Str("storage", cfg.Storage.Driver).
		Str("time_zone", globalLocation.String()).
		Msg("read config")

	config.SetGlobal(cfg)
}
