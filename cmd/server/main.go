package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/emre-yildiz-dev/ohs-backend/internal/config"
	"github.com/emre-yildiz-dev/ohs-backend/internal/connection"
	"github.com/emre-yildiz-dev/ohs-backend/internal/database"
	"github.com/emre-yildiz-dev/ohs-backend/internal/httpapi"
	"github.com/emre-yildiz-dev/ohs-backend/internal/i18n"
	"github.com/emre-yildiz-dev/ohs-backend/internal/repository"
	"github.com/emre-yildiz-dev/ohs-backend/internal/session"
	"github.com/emre-yildiz-dev/ohs-backend/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/server.local.yaml", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "config", *configPath, "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger, err := newLogger(cfg.Logging, os.Stdout)
	if err != nil {
		slog.Error("invalid logging config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	info := version.Get()
	logger.Info("starting ohs backend",
		"version", info.Version,
		"commit", info.Commit,
		"environment", cfg.App.Environment,
		"config", *configPath,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
		"url_configured", cfg.Database.URL != "",
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		logger.Info("database schema applied")
	}

	// Create relay hub
	lagPolicy, err := session.ParseLagPolicy(cfg.Relay.LagPolicy)
	if err != nil {
		logger.Error("invalid relay config", "error", err)
		os.Exit(1)
	}

	hub, err := session.NewHub(session.HubConfig{
		Capacity:     cfg.Relay.Capacity,
		LagPolicy:    lagPolicy,
		InboundRate:  cfg.Relay.InboundRate,
		InboundBurst: cfg.Relay.InboundBurst,
	}, logger)
	if err != nil {
		logger.Error("failed to create relay hub", "error", err)
		os.Exit(1)
	}

	// Localisation
	defaultLang, err := i18n.Parse(cfg.I18n.DefaultLanguage)
	if err != nil {
		logger.Error("invalid i18n config", "error", err)
		os.Exit(1)
	}
	localizer, err := i18n.NewLocalizer(defaultLang)
	if err != nil {
		logger.Error("failed to load translations", "error", err)
		os.Exit(1)
	}

	acceptor := connection.NewAcceptor(connection.Config{
		WriteTimeout:    cfg.WebSocket.WriteTimeout,
		PingInterval:    cfg.WebSocket.PingInterval,
		PongTimeout:     cfg.WebSocket.PongTimeout,
		ReadLimit:       cfg.WebSocket.ReadLimit,
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
	}, logger)

	api, err := httpapi.New(httpapi.Deps{
		Hub:       hub,
		Acceptor:  acceptor,
		Localizer: localizer,
		Users:     repository.NewUsers(pool, nil),
		DB:        pool,
		StaticDir: cfg.App.StaticDir,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to create http api", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	go func() {
		logger.Info("starting http server", "addr", server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	logger.Info("ohs backend running",
		"addr", server.Addr,
		"relay_capacity", cfg.Relay.Capacity,
		"lag_policy", lagPolicy,
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Stop accepting requests first; hijacked WebSocket connections are
	// not tracked by the server and are closed by the hub.
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown", "error", err)
	}
	if err := hub.Stop(shutdownCtx); err != nil {
		logger.Warn("relay hub shutdown", "error", err)
	}

	logger.Info("ohs backend stopped")
}
