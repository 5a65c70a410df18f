package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"animeshow/database"
	"animeshow/internal/config"
	"animeshow/internal/ingestion/anilist"
	"animeshow/internal/metrics"
	"animeshow/internal/microservices/http-api/handler"
	"animeshow/internal/microservices/http-api/repository"
	"animeshow/internal/microservices/http-api/server"
	"animeshow/internal/microservices/http-api/service"
	"animeshow/internal/notify"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Setup structured logging
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var logger *slog.Logger
	if cfg.LogFormat == "text" {
		logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	var m *metrics.Metrics
	if cfg.PrometheusEnabled {
		m = metrics.New()
	}

	client, err := anilist.NewClient(anilist.ClientConfig{
		APIURL:    cfg.AniListAPIURL,
		Timeout:   cfg.AniListTimeout,
		PerPage:   cfg.AniListPerPage,
		RateLimit: cfg.AniListRatePerSec,
		RateBurst: cfg.AniListRateBurst,
		Metrics:   m,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("anilist_client_init_failed", "error", err)
		os.Exit(1)
	}

	// Save notifications are optional
	var notifier service.SaveNotifier
	if cfg.RedisURL != "" {
		rdb, err := notify.Dial(context.Background(), cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			logger.Warn("redis_unavailable_notifications_disabled", "error", err)
		} else {
			defer rdb.Close()
			notifier = notify.NewRedisNotifier(rdb, cfg.SaveEventsChannel)
			logger.Info("save_notifications_enabled", "channel", cfg.SaveEventsChannel)
		}
	}

	search := service.NewCharacterSearchService(client, client.PerPage())
	save := service.NewCharacterSaveService(repository.NewCharacterRepository(db), notifier, m)

	router := server.NewRouter(server.RouterConfig{
		Characters:  handler.NewCharacterHandler(search, save, cfg.RequestTimeout, cfg.ExposeErrorDetail),
		Ping:        func(ctx context.Context) error { return database.Ping(ctx, db) },
		Metrics:     m,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting_http_server",
		"addr", srv.Addr,
		"env", cfg.GoEnv,
		"anilist_url", cfg.AniListAPIURL,
		"metrics", cfg.PrometheusEnabled,
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server_shutdown_failed", "error", err)
		}
		logger.Info("server_stopped_gracefully")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
		database.Close(db)
		os.Exit(1)
	}
}
