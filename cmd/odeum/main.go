package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthurmond/odeum/internal/api"
	"github.com/pthurmond/odeum/internal/config"
	"github.com/pthurmond/odeum/internal/database"
	"github.com/pthurmond/odeum/internal/logging"
	"github.com/pthurmond/odeum/internal/metrics"
	"github.com/pthurmond/odeum/internal/playlist"
	"github.com/pthurmond/odeum/internal/source"
	"github.com/pthurmond/odeum/internal/source/innertube"
	"github.com/pthurmond/odeum/internal/source/invidious"
	"github.com/pthurmond/odeum/internal/source/piped"
	"github.com/pthurmond/odeum/internal/source/watchpage"
	"github.com/pthurmond/odeum/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("OD_CONFIG_PATH")
	if configPath == "" {
		configPath = "/data/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logManager, logger := logging.New(logging.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.FilePath,
	})
	defer logManager.Close() //nolint:errcheck
	slog.SetDefault(logger)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database", "error", err)
		}
	}()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("database ready", slog.String("path", cfg.Database.Path))

	playlistService := playlist.NewService(db)

	// Source registry in fallback priority order. Registration order does
	// not matter; the registry iterates by fixed priority.
	limiters := source.NewRateLimiterMap()
	registry := source.NewRegistry()
	registry.Register(innertube.New(innertube.Config{
		ClientName:    cfg.Browse.ClientName,
		ClientVersion: cfg.Browse.ClientVersion,
		VisitorData:   cfg.Browse.VisitorData,
		UserAgent:     cfg.Browse.UserAgent,
		HL:            cfg.Browse.HL,
		GL:            cfg.Browse.GL,
		FetchTimeout:  cfg.Resolver.FetchTimeout,
		QuickTimeout:  cfg.Resolver.QuickTimeout,
	}, limiters, logger))
	registry.Register(piped.New(cfg.Resolver.FetchTimeout, limiters, logger))
	registry.Register(invidious.New(cfg.Resolver.FetchTimeout, limiters, logger))
	registry.Register(watchpage.New(cfg.Resolver.FetchTimeout, cfg.Browse.UserAgent, limiters, logger))

	recorder := metrics.NewRecorder()
	orchestrator := source.NewOrchestrator(registry, cfg.Resolver.MaxItems, logger)
	orchestrator.SetMetrics(recorder)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Log level follows the config file without a restart.
	watcher := config.NewWatcher(configPath, func(fresh *config.Config) {
		if logging.ValidLevel(fresh.Logging.Level) {
			logManager.SetLevel(fresh.Logging.Level)
			logger.Info("log level updated", slog.String("level", fresh.Logging.Level))
		}
	}, logger)
	go watcher.Start(ctx)

	router := api.NewRouter(api.RouterDeps{
		Orchestrator: orchestrator,
		Playlists:    playlistService,
		Metrics:      recorder,
		Logger:       logger,
		BasePath:     cfg.Server.BasePath,
	})

	logger.Info("starting odeum",
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("base_path", cfg.Server.BasePath))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
