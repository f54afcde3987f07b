package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/qa-agent/internal/config"
)

var advanceCommand = &cobra.Command{
	Use:   "advance",
	Short: "Run the next pending stage of a supervised session",
	Long: `Advances a supervised session by exactly one stage, then stops for review.
The next stage is derived from which artifacts already exist, so advancing
works across process restarts. Advancing a finished session is a no-op.`,
	RunE: advanceSessionCmd,
}

var (
	advanceConfigPath string
	advanceSessionID  string
	advanceOutput     string
	advanceAPIKey     string
	advanceFigmaToken string
	advanceVerbose    bool
)

func init() {
	advanceCommand.Flags().StringVar(&advanceConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	advanceCommand.Flags().StringVarP(&advanceSessionID, "session", "s", "", "Session to advance (required)")
	advanceCommand.Flags().StringVarP(&advanceOutput, "output", "o", "", "Root directory for session artifacts")
	advanceCommand.Flags().BoolVarP(&advanceVerbose, "verbose", "v", false, "Print detailed debug information")
	advanceCommand.Flags().StringVar(&advanceAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	advanceCommand.Flags().StringVar(&advanceFigmaToken, "figma-token", "", "Figma access token (optional, defaults to FIGMA_ACCESS_TOKEN env var)")

	_ = advanceCommand.MarkFlagRequired("session")

	rootCmd.AddCommand(advanceCommand)
}

func advanceSessionCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(advanceConfigPath, advanceVerbose)
	if err != nil {
		return err
	}
	applyStringFlag(cmd, "output", &cfg.Output, advanceOutput)
	applyStringFlag(cmd, "api-key", &cfg.APIKey, advanceAPIKey)
	applyStringFlag(cmd, "figma-token", &cfg.FigmaToken, advanceFigmaToken)
	if cfg.Output == "" {
		cfg.Output = config.DefaultOutputDir
	}

	orch, st, cleanup, err := buildOrchestrator(ctx, cfg, advanceVerbose)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := orch.Advance(ctx, advanceSessionID)
	if err != nil {
		return err
	}

	if res.Stage == "" && res.Done {
		fmt.Fprintf(os.Stdout, "Session %s already complete. Artifacts: %s\n", advanceSessionID, st.SessionDir(advanceSessionID))
		return nil
	}

	fmt.Fprintf(os.Stdout, "Completed %s (%s)\n", res.Stage, joinArtifacts(res.Artifacts))
	if res.Done {
		fmt.Fprintf(os.Stdout, "Session %s complete. Artifacts: %s\n", advanceSessionID, st.SessionDir(advanceSessionID))
	} else if advanceVerbose {
		fmt.Fprintln(os.Stdout, "Run 'qa_agent advance' again to continue.")
	}
	return nil
}
