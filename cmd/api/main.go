package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"testapi/internal/server"
	"testapi/internal/store"
	"testapi/internal/tests"
	"testapi/pkg/config"
	"testapi/pkg/logger"
	"testapi/pkg/metrics"
	"testapi/pkg/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{Service: "api"}).Error(context.Background(), "load config", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Service: "api",
		Env:     cfg.App.Env,
		Level:   logger.ParseLevel(cfg.App.LogLevel),
	})
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "api stopped", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(db); err != nil {
			log.Error(ctx, "close database", err)
		}
	}()

	limiterStore, closeStore, err := newLimiterStore(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := server.New(server.Deps{
		BaseURL:     cfg.HTTP.BaseURL,
		CORSOrigins: cfg.CORS.AllowedOrigins,
		Logger:      log,
		Limiter:     ratelimit.New(limiterStore, cfg.RateLimit.Window, cfg.RateLimit.Max),
		Metrics:     metrics.NewHTTP(reg),
		Tests:       tests.NewHandler(tests.NewRepository(db)),
		DB:          server.PingFunc(func(ctx context.Context) error { return store.Ping(ctx, db) }),
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(log.WithFields(ctx, map[string]any{"addr": cfg.HTTP.Addr, "base_url": cfg.HTTP.BaseURL}), "http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	log.Info(shutdownCtx, "shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newLimiterStore(ctx context.Context, cfg config.RedisConfig) (ratelimit.Store, func(), error) {
	if !cfg.Enabled() {
		return ratelimit.NewMemoryStore(), func() {}, nil
	}
	client, err := ratelimit.NewRedisClient(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	return ratelimit.NewRedisStore(client), func() { _ = client.Close() }, nil
}
