package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/abheda24/F1-TelemetryHub/internal/config"
	"github.com/abheda24/F1-TelemetryHub/internal/server"
)

func main() {
	cfg := config.Load()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	deps, err := server.InitDeps(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize dependencies", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(cfg, deps)
	if err := srv.Start(); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
