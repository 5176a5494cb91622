package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mistvale/storefront/internal/app"
	"github.com/mistvale/storefront/internal/config"
	"github.com/mistvale/storefront/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("storefront", cfg.LogLevel)
	log.Info("starting storefront service",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
	)

	if err := run(cfg, log); err != nil {
		log.Error("storefront service exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("storefront service stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	application, err := app.NewApp(cfg, log)
	if err != nil {
		return err
	}

	// Shut down cleanly on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return application.Run(ctx)
}
