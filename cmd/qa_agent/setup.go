package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/qa-agent/internal/config"
	"github.com/jonathan/qa-agent/internal/design"
	"github.com/jonathan/qa-agent/internal/llm"
	"github.com/jonathan/qa-agent/internal/pipeline"
	"github.com/jonathan/qa-agent/internal/stages"
	"github.com/jonathan/qa-agent/internal/store"
)

// stageTimeout bounds each individual stage run.
const stageTimeout = 5 * time.Minute

// loadMergedConfig loads the optional config file and fills credential
// fields from the environment. This is the single place the process
// reads GEMINI_API_KEY and FIGMA_ACCESS_TOKEN.
func loadMergedConfig(configPath string, verbose bool) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
		if verbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", configPath)
		}
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		APIKey:     os.Getenv("GEMINI_API_KEY"),
		FigmaToken: os.Getenv("FIGMA_ACCESS_TOKEN"),
	})
	return cfg, nil
}

// buildOrchestrator resolves the capability from the merged credentials
// and assembles the matching transform set. The returned cleanup closes
// the LLM client in live mode.
func buildOrchestrator(ctx context.Context, cfg config.Config, verbose bool) (*pipeline.Orchestrator, *store.Store, func(), error) {
	st := store.New(cfg.Output)
	cleanup := func() {}

	capability := pipeline.ResolveCapability(cfg.APIKey, cfg.FigmaToken)
	if verbose {
		fmt.Fprintf(os.Stdout, "Capability: %s\n", capability)
	}

	deps := stages.Deps{}
	if capability == pipeline.CapabilityLive {
		client, err := llm.NewClient(ctx, nil, cfg.APIKey)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		cleanup = func() { _ = client.Close() }
		deps.LLM = client
		deps.Figma = design.NewFigmaClient(cfg.FigmaToken)
	}

	transforms, err := stages.ForCapability(capability, deps)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	orch, err := pipeline.NewOrchestrator(st, transforms, pipeline.WithStageTimeout(stageTimeout))
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return orch, st, cleanup, nil
}

// applyStringFlag copies a flag value into the config field only when
// the flag was explicitly set, so config file values survive.
func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}
