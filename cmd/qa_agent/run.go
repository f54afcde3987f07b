package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/qa-agent/internal/config"
	"github.com/jonathan/qa-agent/internal/observability"
	"github.com/jonathan/qa-agent/internal/session"
	"github.com/jonathan/qa-agent/internal/store"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run a trust session to completion",
	Long: `Executes every remaining stage of a trust session:
context extraction -> design summarization -> plan generation -> detailed test generation -> rendering.

With --prd instead of --session, a new trust session is created and run in one step.
Configuration can be loaded from a JSON file using --config. Command-line arguments
override config file values.`,
	RunE: runSessionCmd,
}

var (
	runConfigPath   string
	runSessionID    string
	runPRD          string
	runFigmaURL     string
	runMaxTestCases int
	runOutput       string
	runAPIKey       string
	runFigmaToken   string
	runVerbose      bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	runCommand.Flags().StringVarP(&runSessionID, "session", "s", "", "Session to run (mutually exclusive with --prd)")
	runCommand.Flags().StringVarP(&runPRD, "prd", "p", "", "Create and run a new trust session for this PRD")
	runCommand.Flags().StringVar(&runFigmaURL, "figma-url", "", "Figma file or design URL (only with --prd)")
	runCommand.Flags().IntVar(&runMaxTestCases, "max-test-cases", 0, "Cap on detailed test case generation (0 = unlimited)")
	runCommand.Flags().StringVarP(&runOutput, "output", "o", "", "Root directory for session artifacts")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// Credentials can be passed as flags, or read from env vars
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	runCommand.Flags().StringVar(&runFigmaToken, "figma-token", "", "Figma access token (optional, defaults to FIGMA_ACCESS_TOKEN env var)")

	rootCmd.AddCommand(runCommand)
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(runConfigPath, runVerbose)
	if err != nil {
		return err
	}

	applyStringFlag(cmd, "prd", &cfg.PRD, runPRD)
	applyStringFlag(cmd, "figma-url", &cfg.FigmaURL, runFigmaURL)
	applyStringFlag(cmd, "output", &cfg.Output, runOutput)
	applyStringFlag(cmd, "api-key", &cfg.APIKey, runAPIKey)
	applyStringFlag(cmd, "figma-token", &cfg.FigmaToken, runFigmaToken)
	applyIntFlag(cmd, "max-test-cases", &cfg.MaxTestCases, runMaxTestCases)
	if cfg.Output == "" {
		cfg.Output = config.DefaultOutputDir
	}

	if runSessionID != "" && cmd.Flags().Changed("prd") {
		return fmt.Errorf("--session and --prd are mutually exclusive; provide only one")
	}

	sessionID := runSessionID
	if sessionID == "" {
		if cfg.PRD == "" {
			return fmt.Errorf("either --session or --prd must be provided (via flag or config)")
		}
		st := store.New(cfg.Output)
		manifest := session.New(cfg.PRD, cfg.FigmaURL, session.PolicyTrust)
		manifest.MaxTestCases = cfg.MaxTestCases
		if err := manifest.Save(st); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		sessionID = manifest.ID
		fmt.Fprintf(os.Stdout, "Created session %s (policy: %s)\n", sessionID, session.PolicyTrust)
	}

	orch, st, cleanup, err := buildOrchestrator(ctx, cfg, runVerbose)
	if err != nil {
		return err
	}
	defer cleanup()

	results, runErr := orch.RunToCompletion(ctx, sessionID)
	for _, res := range results {
		fmt.Fprintf(os.Stdout, "Completed %s (%s)\n", res.Stage, joinArtifacts(res.Artifacts))
	}
	if runErr != nil {
		return fmt.Errorf("pipeline stopped: %w", runErr)
	}

	if runVerbose {
		printSessionSummary(st, sessionID)
	}
	fmt.Fprintf(os.Stdout, "Session %s complete. Artifacts: %s\n", sessionID, st.SessionDir(sessionID))
	return nil
}

func joinArtifacts(kinds []string) string {
	out := ""
	for i, kind := range kinds {
		if i > 0 {
			out += ", "
		}
		out += kind
	}
	return out
}

// printSessionSummary renders the generated documents in verbose mode.
func printSessionSummary(st *store.Store, sessionID string) {
	printer := observability.NewPrinter(os.Stdout)

	if content, err := st.Get(sessionID, string(session.StageContextExtraction), session.KindPRDContext); err == nil {
		if extracted := decodePRDContext(content); extracted != nil {
			printer.PrintPRDContext(extracted)
		}
	}
	if content, err := st.Get(sessionID, string(session.StagePlanGeneration), session.KindTestPlan); err == nil {
		if plan := decodeTestPlan(content); plan != nil {
			printer.PrintTestPlan(plan)
		}
	}
	if content, err := st.Get(sessionID, string(session.StageDetailedTestGeneration), session.KindTestSuite); err == nil {
		if suite := decodeTestSuite(content); suite != nil {
			printer.PrintTestSuite(suite)
		}
	}
}
