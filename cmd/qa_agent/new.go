package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/qa-agent/internal/config"
	"github.com/jonathan/qa-agent/internal/session"
	"github.com/jonathan/qa-agent/internal/store"
)

var newCommand = &cobra.Command{
	Use:   "new",
	Short: "Create a new QA session",
	Long: `Creates a session for a PRD document and an optional Figma design URL.
The execution policy is fixed at creation: trust sessions run unattended with
'run'; supervised sessions advance one stage at a time with 'advance'.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: newSessionCmd,
}

var (
	newConfigPath   string
	newPRD          string
	newFigmaURL     string
	newPolicy       string
	newMaxTestCases int
	newOutput       string
	newVerbose      bool
)

func init() {
	newCommand.Flags().StringVar(&newConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	newCommand.Flags().StringVarP(&newPRD, "prd", "p", "", "Path to the PRD document (.txt or .md)")
	newCommand.Flags().StringVar(&newFigmaURL, "figma-url", "", "Figma file or design URL (optional)")
	newCommand.Flags().StringVar(&newPolicy, "policy", string(session.PolicyTrust), "Execution policy: trust or supervised")
	newCommand.Flags().IntVar(&newMaxTestCases, "max-test-cases", 0, "Cap on detailed test case generation (0 = unlimited)")
	newCommand.Flags().StringVarP(&newOutput, "output", "o", "", "Root directory for session artifacts")
	newCommand.Flags().BoolVarP(&newVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(newCommand)
}

func newSessionCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadMergedConfig(newConfigPath, newVerbose)
	if err != nil {
		return err
	}

	applyStringFlag(cmd, "prd", &cfg.PRD, newPRD)
	applyStringFlag(cmd, "figma-url", &cfg.FigmaURL, newFigmaURL)
	applyStringFlag(cmd, "policy", &cfg.Policy, newPolicy)
	applyStringFlag(cmd, "output", &cfg.Output, newOutput)
	applyIntFlag(cmd, "max-test-cases", &cfg.MaxTestCases, newMaxTestCases)
	if cfg.Policy == "" {
		cfg.Policy = newPolicy
	}
	if cfg.Output == "" {
		cfg.Output = config.DefaultOutputDir
	}

	if cfg.PRD == "" {
		return fmt.Errorf("--prd is required (via flag or config)")
	}
	if _, err := os.Stat(cfg.PRD); err != nil {
		return fmt.Errorf("PRD file not found: %s", cfg.PRD)
	}
	policy, err := session.ParsePolicy(cfg.Policy)
	if err != nil {
		return err
	}

	st := store.New(cfg.Output)
	manifest := session.New(cfg.PRD, cfg.FigmaURL, policy)
	manifest.MaxTestCases = cfg.MaxTestCases
	if err := manifest.Save(st); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Created session %s (policy: %s)\n", manifest.ID, policy)
	fmt.Fprintf(os.Stdout, "Artifacts: %s\n", st.SessionDir(manifest.ID))
	return nil
}
