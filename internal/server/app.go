// Package server initializes and runs the application server: it opens the
// storage backends, runs schema migrations, wires the services behind the
// HTTP API and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/habbababbai/entertainment-tracker/internal/logging"
	"github.com/habbababbai/entertainment-tracker/internal/omdb"
	"github.com/habbababbai/entertainment-tracker/internal/server/auth"
	"github.com/habbababbai/entertainment-tracker/internal/server/config"
	"github.com/habbababbai/entertainment-tracker/internal/server/httpapi"
	"github.com/habbababbai/entertainment-tracker/internal/server/repositories/repomanager"
	"github.com/habbababbai/entertainment-tracker/internal/server/resettokens"
	"github.com/habbababbai/entertainment-tracker/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger

	db    *sql.DB
	redis *redis.Client
	api   *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	tokens, err := auth.NewTokenAuthority(
		[]byte(cfg.AccessSecret), []byte(cfg.RefreshSecret),
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration,
	)
	if err != nil {
		return nil, fmt.Errorf("token authority init error: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	resetStore := resettokens.NewStore(redisClient, "reset")

	userService := services.NewUserService(rm.Users(db), tokens, resetStore, cfg.ResetTokenValidityDuration, logger)
	mediaService := services.NewMediaService(omdb.NewClient(cfg.OMDbBaseURL, cfg.OMDbAPIKey), logger)
	watchlistService := services.NewWatchlistService(rm.Watchlist(db), logger)

	api := httpapi.NewServer(userService, mediaService, watchlistService, logger)

	return &App{config: cfg, logger: logger, db: db, redis: redisClient, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the HTTP API until the context is canceled or a termination
// signal arrives, then drains in-flight requests and closes the backends.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		app.closeBackends(ctx)
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	app.closeBackends(shutdownCtx)
	return err
}

func (app *App) closeBackends(ctx context.Context) {
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	if err := app.redis.Close(); err != nil {
		app.logger.Error(ctx, "redis close error", "error", err)
	}
}
