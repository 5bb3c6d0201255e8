package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/openroom/openroom-server/internal/auth"
	"github.com/openroom/openroom-server/internal/config"
	"github.com/openroom/openroom-server/internal/core"
	"github.com/openroom/openroom-server/internal/session"
	"github.com/openroom/openroom-server/internal/store"
	"github.com/openroom/openroom-server/internal/store/sqlite"
	transporthttp "github.com/openroom/openroom-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	sessions        session.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration. Failure to
// reach either store is fatal: the service cannot run degraded from birth.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}

	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	sessions, err := session.NewRedis(session.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	logger.Info().Str("redis_addr", cfg.RedisAddr).Msg("session store connected")

	jwtConfig := &auth.JWTConfig{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.SessionTTL,
	}
	authService := auth.NewService(st, sessions, jwtConfig, cfg.SessionTTL)

	registry := core.NewRegistry()
	engine := core.NewEngine(registry, sessions, st, cfg.HistoryLimit, logger)

	server := transporthttp.NewServer(engine, authService, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		sessions:        sessions,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup releases the session-store connection and the database handle.
func (a *App) cleanup() {
	if a.sessions != nil {
		if err := a.sessions.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close session store")
		} else {
			a.log.Info().Msg("session store closed")
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
