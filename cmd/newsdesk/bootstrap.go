package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"llm-news-desk/internal/analysis"
	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/llm"
	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/store"
	"llm-news-desk/internal/trace"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// initializeSystem loads .env and sets up logging. Tracing waits for the
// config, see initializeTracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func traceConfig(cfg *store.Config) trace.Config {
	return trace.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceVersion: version,
	}
}

func initializeTracing(cfg *store.Config) {
	if err := trace.Init(traceConfig(cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
}

func shutdownSystem(ctx context.Context) {
	if err := trace.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shut down tracer: %v\n", err)
	}
}

func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	initializeTracing(cfg)
	return cfg, nil
}

func analyzerOptions(role store.RoleLLM) []analysis.Option {
	return []analysis.Option{
		analysis.WithMaxTokens(role.MaxTokens),
		analysis.WithTemperature(role.Temperature),
	}
}

// initializeSynthesizer builds both analyzers on shared backend clients.
func initializeSynthesizer(ctx context.Context, cfg *store.Config, registry *llm.Registry) (*analysis.Synthesizer, error) {
	optimistBackend, err := registry.For(ctx, string(analysis.RoleOptimist), cfg.LLM.Optimist)
	if err != nil {
		return nil, err
	}
	skepticBackend, err := registry.For(ctx, string(analysis.RoleSkeptic), cfg.LLM.Skeptic)
	if err != nil {
		return nil, err
	}

	optimist := analysis.NewOptimist(optimistBackend, cfg.Language, analyzerOptions(cfg.LLM.Optimist)...)
	skeptic := analysis.NewSkeptic(skepticBackend, cfg.Language, analyzerOptions(cfg.LLM.Skeptic)...)
	return analysis.NewSynthesizer(optimist, skeptic), nil
}

func initializeEditor(ctx context.Context, cfg *store.Config, registry *llm.Registry) (interfaces.Backend, error) {
	return registry.For(ctx, "editor", cfg.LLM.Editor)
}
