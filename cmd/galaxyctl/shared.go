package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stellarforge/empirecore/internal/bootstrap"
	"github.com/stellarforge/empirecore/internal/config"
	"github.com/stellarforge/empirecore/internal/logging"
)

// loadConfig loads cfg from path (optional) plus environment overrides,
// refusing to proceed on a parse/validation failure (§6).
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("galaxyctl: loading config: %w", err)
	}
	return cfg, nil
}

// connect dials Mongo per cfg and returns a ready App; callers defer
// app.Close(ctx).
func connect(ctx context.Context, cfg config.Config) (*bootstrap.App, error) {
	return bootstrap.Connect(ctx, cfg)
}

func newLogger(cfg config.Config) zerolog.Logger {
	return logging.New(cfg.Environment == "development", zerolog.InfoLevel)
}
