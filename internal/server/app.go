// Package server initializes and runs the auth server: it wires the chain
// client, session store, challenge issuer, and HTTP layer together and
// handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hivegate/hivegate/internal/hive/chain"
	"github.com/hivegate/hivegate/internal/logging"
	"github.com/hivegate/hivegate/internal/server/auth"
	"github.com/hivegate/hivegate/internal/server/challenge"
	"github.com/hivegate/hivegate/internal/server/config"
	"github.com/hivegate/hivegate/internal/server/httpapi"
	"github.com/hivegate/hivegate/internal/server/metrics"
	"github.com/hivegate/hivegate/internal/server/services"
	"github.com/hivegate/hivegate/internal/server/session"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	api    *httpapi.Server

	chainOnce sync.Once
	chain     *chain.Client
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app := &App{config: cfg, logger: logger}

	verifier := auth.NewVerifier(app.chainClient(), logger)
	svc := services.NewAuthService(verifier, cfg, logger)
	sessions := session.NewStore(cfg.SessionSecret, cfg.SessionTTL, cfg.Production())
	challenges := challenge.NewIssuer(cfg.Production())

	app.api = httpapi.NewServer(svc, sessions, challenges, metrics.New(), logger)
	return app, nil
}

// chainClient returns the shared condenser-API client, creating it on first
// use. Every consumer sees the same connection pool.
func (app *App) chainClient() *chain.Client {
	app.chainOnce.Do(func() {
		app.chain = chain.NewClientWithTimeout(app.config.ChainAPIURL, app.config.UpstreamTimeout)
	})
	return app.chain
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting auth server", "addr", app.config.EndpointAddr, "env", app.config.Env)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.api.Router(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "http server failed", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err)
	}
}
