package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fuelbot/internal/cache"
	"fuelbot/internal/config"
	"fuelbot/internal/convo"
	"fuelbot/internal/metrics"
	"fuelbot/internal/ogra"
	"fuelbot/internal/server"
	"fuelbot/internal/session"
	"fuelbot/internal/store"
	"fuelbot/internal/wa"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	metricSet := metrics.New(cfg.MetricsNamespace, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var redisCache *cache.Redis
	if cfg.RedisAddr != "" {
		redisCache, err = cache.New(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Error("redis connect failed", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
	}

	var sessions session.Store
	if redisCache != nil {
		sessions = session.NewRedisStore(redisCache, cfg.SessionTTL)
	} else {
		sessions = session.NewMemoryStore()
	}

	messages, err := newMessageStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("message store init failed", "error", err)
		os.Exit(1)
	}
	if messages != nil {
		defer messages.Close()
	}

	priceClient := ogra.NewClient(ogra.Config{
		BaseURL:  cfg.OGRAAPIBase,
		Timeout:  cfg.OGRATimeout,
		PriceTTL: cfg.PriceCacheTTL,
	}, logger, metricSet, redisCache)

	scraper := ogra.NewScraper(ogra.ScraperConfig{
		Timeout: cfg.ScrapeTimeout,
	}, logger, metricSet)

	gateway := wa.New(wa.Config{
		BaseURL:       cfg.GraphAPIBase,
		Token:         cfg.WhatsAppToken,
		PhoneNumberID: cfg.PhoneNumberID,
	}, logger, metricSet)

	engine := convo.New(sessions, priceClient, scraper, gateway, messages, metricSet, logger)

	srv := server.New(server.Config{
		ListenAddr:  cfg.HTTPListenAddr,
		VerifyToken: cfg.VerifyToken,
	}, engine, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func newMessageStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.MessageStore, error) {
	if cfg.DatabaseURL != "" {
		return store.NewPostgres(ctx, cfg.DatabaseURL)
	}
	if cfg.SQLitePath != "" {
		return store.NewSQLite(ctx, cfg.SQLitePath)
	}
	logger.Warn("message logging disabled: no DATABASE_URL or SQLITE_PATH")
	return nil, nil
}
