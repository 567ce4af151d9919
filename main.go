package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink-be/internal/cache"
	"shortlink-be/internal/config"
	"shortlink-be/internal/database"
	"shortlink-be/internal/fraud"
	"shortlink-be/internal/logger"
	"shortlink-be/internal/metrics"
	"shortlink-be/internal/repository"
	"shortlink-be/internal/router"
	"shortlink-be/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewForEnvironment(cfg.Env, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db     *sql.DB
		links  repository.LinkRepository
		clicks repository.ClickRepository
		health service.Pinger
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		zapLogger.Warn("using in-memory stores, data is lost on restart")
		links = repository.NewMemoryLinkRepository()
		clicks = repository.NewMemoryClickRepository()
	default:
		var err error
		db, err = database.NewConnection(ctx, cfg.DatabaseURL, database.Options{
			MaxOpenConns: cfg.DBMaxOpenConns,
			MaxIdleConns: cfg.DBMaxIdleConns,
			MaxRetries:   cfg.DBMaxRetries,
			RetryDelay:   cfg.DBRetryDelay,
		}, zapLogger)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.RunMigrations(db); err != nil {
			return err
		}
		zapLogger.Info("database migrations completed")

		links = repository.NewLinkRepository(db)
		clicks = repository.NewClickRepository(db)
		health = db
	}

	// Redis is optional; continue without cache when unavailable
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		c, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			zapLogger.Warn("redis unavailable, continuing without cache", zap.Error(err))
		} else {
			cacheClient = c
			defer cacheClient.Close()
			links = repository.NewCachedLinkRepository(links, cacheClient, cfg.CacheTTL, zapLogger.Named("cache"))
			zapLogger.Info("connected to redis cache")
		}
	}

	m := metrics.New()
	validator := fraud.NewSimulator(
		fraud.WithDelay(cfg.FraudDelay),
		fraud.WithProbability(cfg.FraudPassProbability),
	)
	linkService := service.NewLinkService(links, clicks, validator, cfg.BaseURL,
		service.WithLogger(zapLogger.Named("links")),
		service.WithMetrics(m),
		service.WithMaxAttempts(cfg.ShortCodeMaxAttempts),
	)
	healthService := service.NewHealthService(health, cacheClient, zapLogger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.New(router.Dependencies{
		LinkService:   linkService,
		HealthService: healthService,
		BaseURL:       cfg.BaseURL,
		Logger:        zapLogger,
		Metrics:       m,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	serveErr := make(chan error, 1)
	go func() {
		zapLogger.Info("server starting", zap.String("addr", srv.Addr), zap.String("base_url", cfg.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
