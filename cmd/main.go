package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/insightify/internal/adapters/artifact"
	"github.com/okian/insightify/internal/adapters/http/api"
	"github.com/okian/insightify/internal/adapters/http/swagger"
	"github.com/okian/insightify/internal/adapters/repository"
	app "github.com/okian/insightify/internal/app"
	"github.com/okian/insightify/internal/config"
	"github.com/okian/insightify/pkg/logger"
	"github.com/okian/insightify/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "insightify exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// A missing or malformed artifact is fatal.
	bundle, err := artifact.Load(ctx, cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	summary := bundle.Summary()
	log.Info(ctx, "model loaded",
		logger.String("path", summary.Path),
		logger.String("version", summary.Version),
		logger.String("family", summary.Family),
		logger.Int("clusters", len(summary.Clusters)))

	client, err := repository.Connect(ctx, cfg.MongoURI, cfg.ConnectTimeout())
	if err != nil {
		return fmt.Errorf("connect datastore: %w", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn(ctx, "datastore disconnect failed", logger.Error(err))
		}
	}()

	store := repository.NewMongoStore(client.Database(cfg.MongoDatabase),
		repository.WithQueryTimeout(cfg.QueryTimeout()),
		repository.WithLogger(log.Named("mongo")))
	guarded := repository.NewBreakerStore(store, repository.BreakerConfig{
		Name:             "mongo",
		FailureThreshold: uint32(cfg.BreakerFailureThreshold),
		Timeout:          cfg.BreakerTimeout(),
	}, log.Named("breaker"))

	svc := app.New(
		app.WithLogger(log),
		app.WithStore(guarded),
		app.WithBundle(bundle),
		app.WithInferenceTimeout(cfg.InferenceTimeout()),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newRouter mounts the API and the docs routes.
func newRouter(ctx context.Context, cfg *config.Config, svc *app.Service) chi.Router {
	apiServer := api.NewServer(svc, svc,
		api.WithInferenceTimeout(cfg.InferenceTimeout()),
		api.WithRateLimit(cfg.RateLimitPerMinute),
		api.WithCORSOrigins(cfg.CORSOrigins),
		api.WithLogger(logger.Named("http")),
	)
	r := apiServer.Router(ctx)
	if err := swagger.Register(ctx, r); err != nil {
		logger.Get().Warn(ctx, "api docs not registered", logger.Error(err))
	}
	return r
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
