package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cinefavs/catalog-api/internal/api"
	"github.com/cinefavs/catalog-api/internal/api/handler"
	"github.com/cinefavs/catalog-api/internal/api/metrics"
	"github.com/cinefavs/catalog-api/internal/core/ports"
	"github.com/cinefavs/catalog-api/internal/core/service"
	"github.com/cinefavs/catalog-api/internal/infrastructure/config"
	"github.com/cinefavs/catalog-api/internal/infrastructure/db"
	rediscache "github.com/cinefavs/catalog-api/internal/infrastructure/db/redis"
	"github.com/cinefavs/catalog-api/internal/infrastructure/queue"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg.Store, log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	log.Info().Str("driver", store.Driver()).Msg("store ready")

	health := map[string]handler.PingFunc{"store": store.Ping}

	// A nil *ResponseCache must not reach the service as a non-nil interface.
	var cache ports.ResponseCache
	var closeRedis func() error
	if cfg.Redis.Enabled() {
		rdb, err := rediscache.Connect(ctx, cfg.Redis)
		if err != nil {
			_ = store.Close(context.Background())
			return err
		}
		cache = rediscache.NewResponseCache(rdb)
		closeRedis = rdb.Close
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("movie cache enabled")
	}

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	authSvc := service.NewAuthService(store.Users, store.Favorites, hasher, tokens, log)
	favoriteSvc := service.NewFavoriteService(store.Favorites, log)
	movieSvc := service.NewMovieService(store.Movies, cache, cfg.Redis.CacheTTL, log)
	auditSvc := service.NewAuditService(store.Audit, log)

	// Workers outlive the signal context so Stop can drain them.
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditSvc, metrics.AuditDropped, log)
	dispatcher.Start(context.Background())

	e := api.NewRouter(api.Deps{
		Config:    cfg,
		Log:       log,
		Auth:      authSvc,
		Favorites: favoriteSvc,
		Movies:    movieSvc,
		Audit:     dispatcher,
		Health:    health,
	})
	e.Server.ReadTimeout = readTimeout
	e.Server.WriteTimeout = writeTimeout

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", addr).
			Str("env", cfg.Env).
			Bool("tls", cfg.TLS.Enabled()).
			Msg("server starting")
		if cfg.TLS.Enabled() {
			errCh <- e.StartTLS(addr, cfg.TLS.CertFile, cfg.TLS.KeyFile)
			return
		}
		errCh <- e.Start(addr)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	shutdown(shutdownCtx, log, e.Shutdown, dispatcher, store, closeRedis)

	return serveErr
}

// shutdown stops accepting requests first, then drains the audit queue
// before the store it writes to is closed.
func shutdown(ctx context.Context, log zerolog.Logger, stopServer func(context.Context) error, dispatcher *queue.Dispatcher, store *db.Store, closeRedis func() error) {
	if err := stopServer(ctx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	dispatcher.Stop()
	if err := store.Close(ctx); err != nil {
		log.Error().Err(err).Msg("close store")
	}
	if closeRedis != nil {
		if err := closeRedis(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}
	log.Info().Msg("server stopped")
}
