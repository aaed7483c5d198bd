package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/config"
	"github.com/adanyl0v/go-task-manager/internal/delivery/http/v1"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	v1.RegisterRoutes(router, mustNewHandler())

	server := &http.Server{
		Addr:              net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:           router,
		ReadHeaderTimeout: httpCfg.ReadHeaderTimeout,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func mustNewHandler() v1.Handler {
	cfg := config.Global()

	hasher, err := services.NewPasswordHasher(cfg.Password.Hasher)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("hasher", cfg.Password.Hasher).
			Msg("failed to create password hasher")
		panic(err)
	}

	authService := services.NewAuthService(
		globalLogger,
		globalClock,
		globalStorage,
		globalBlacklist,
		hasher,
		services.PasswordPolicy{MinLength: cfg.Password.MinLength},
		services.TokenConfig{
			Issuer:          cfg.JWT.Issuer,
			SigningKey:      []byte(cfg.JWT.SigningKey),
			AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
			RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
		},
	)
	guard := services.NewGuard(globalLogger, authService, globalStorage)
	taskService := services.NewTaskService(globalLogger, globalClock, globalLocation, guard, globalStorage)
	profileService := services.NewProfileService(globalLogger, globalClock, guard, globalStorage)

	pingers := []v1.Pinger{globalStorage}
	if globalRedisBlacklist != nil {
		pingers = append(pingers, globalRedisBlacklist)
	}

	return v1.New(
		globalLogger,
		authService,
		guard,
		taskService,
		profileService,
		pingers...,
	)
}
