package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"homehub/internal/calendar"
	"homehub/internal/config"
	"homehub/internal/content"
	"homehub/internal/history"
	"homehub/internal/logging"
	"homehub/internal/mcpserver"
)

func main() {
	// stdout carries the protocol, so logs go to stderr
	logger := logging.New(os.Getenv("LOG_LEVEL"), os.Stderr)
	logging.SetDefault(logger)

	if p, err := config.LoadDotEnv(config.EnvCandidates()); err != nil {
		logger.Warn("failed to load .env", "error", err)
	} else if p == "" {
		logger.Warn("no .env file found, using process environment")
	}

	cfg, err := config.New()
	if err != nil {
		logger.Error("❌ failed to load config", "error", err)
		os.Exit(1)
	}
	logger = logging.New(cfg.LogLevel, os.Stderr)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.With(ctx, logger)

	catalog := content.DefaultCatalog()
	if cfg.PromptsPath != "" {
		if c, err := content.LoadCatalog(cfg.PromptsPath); err == nil {
			catalog = c
		} else {
			logger.Warn("prompt catalog unreadable, using defaults", "error", err)
		}
	}

	store, closer, err := history.Open(string(cfg.HistoryBackend), cfg.HistoryFile)
	if err != nil {
		logger.Error("❌ failed to open history", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	server := &mcpserver.Server{
		OutputDir:  cfg.OutputDir,
		Kinds:      catalog.Names(),
		Store:      store,
		Tracker:    history.NewTracker(cfg.HistoryExamples),
		WindowDays: cfg.HistoryDays,
	}

	// the calendar tool is only offered when a cached token already exists;
	// there is no terminal for the consent flow here
	if _, err := os.Stat(cfg.CalendarTokenPath); err == nil {
		cal, err := calendar.Connect(ctx, cfg.CalendarCredentialsPath, cfg.CalendarTokenPath, cfg.CalendarID, nil, nil)
		if err != nil {
			logger.Warn("calendar tool disabled", "error", err)
		} else {
			server.Calendar = cal
		}
	}

	logger.Info("🚀 starting dashboard MCP server", "output", cfg.OutputDir, "kinds", len(server.Kinds))
	if err := server.Run(ctx); err != nil {
		logger.Error("❌ dashboard MCP server failed", "error", err)
		os.Exit(1)
	}
}
