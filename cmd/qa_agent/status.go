package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/qa-agent/internal/config"
	"github.com/jonathan/qa-agent/internal/observability"
)

var statusCommand = &cobra.Command{
	Use:   "status",
	Short: "Show a session's per-stage progress",
	RunE:  statusSessionCmd,
}

var (
	statusConfigPath string
	statusSessionID  string
	statusOutput     string
)

func init() {
	statusCommand.Flags().StringVar(&statusConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	statusCommand.Flags().StringVarP(&statusSessionID, "session", "s", "", "Session to inspect (required)")
	statusCommand.Flags().StringVarP(&statusOutput, "output", "o", "", "Root directory for session artifacts")

	_ = statusCommand.MarkFlagRequired("session")

	rootCmd.AddCommand(statusCommand)
}

func statusSessionCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadMergedConfig(statusConfigPath, false)
	if err != nil {
		return err
	}
	applyStringFlag(cmd, "output", &cfg.Output, statusOutput)
	if cfg.Output == "" {
		cfg.Output = config.DefaultOutputDir
	}

	// Status never runs a stage, so the demo transform set is enough
	// regardless of which credentials are configured.
	orch, _, cleanup, err := buildOrchestrator(context.Background(), config.Config{Output: cfg.Output}, false)
	if err != nil {
		return err
	}
	defer cleanup()

	status, err := orch.Status(statusSessionID)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintStatus(status)
	return nil
}
