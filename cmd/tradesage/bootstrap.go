package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"tradesage/internal/interfaces"
	"tradesage/internal/llm/gemini"
	"tradesage/internal/llm/noop"
	"tradesage/internal/logger"
	"tradesage/internal/store"
	"tradesage/internal/trace"
)

// initializeSystem loads the environment and sets up logger and tracer.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration.
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeNarrator returns the narrative generator for the configured
// provider, falling back to the noop narrator.
func initializeNarrator(ctx context.Context, cfg *store.Config) interfaces.Narrator {
	switch cfg.LLM.Provider {
	case "GEMINI":
		return gemini.New(cfg)
	default:
		logger.Warn(ctx, "No narrative provider configured - analysis will be unavailable")
		return noop.New()
	}
}
