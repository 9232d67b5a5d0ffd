package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"coursepilot/internal/app"
	"coursepilot/internal/cli"
	"coursepilot/internal/config"
	"coursepilot/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCmd(func() (*app.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		// CLI output is the JSON on stdout; keep logs to warnings unless asked.
		if os.Getenv("COURSEPILOT_LOG_LEVEL") == "" {
			cfg.Log.Level = "warn"
		}
		zl, err := logger.New(cfg.Log)
		if err != nil {
			return nil, err
		}
		return app.New(cfg, zl)
	})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
