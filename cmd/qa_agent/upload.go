package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/qa-agent/internal/config"
	"github.com/jonathan/qa-agent/internal/store"
	"github.com/jonathan/qa-agent/internal/testrail"
)

var uploadCommand = &cobra.Command{
	Use:   "upload",
	Short: "Upload a session's test suite to TestRail",
	Long: `Mirrors the generated test suite into TestRail: one section per
sub-feature, one case per detailed test case. Requires the session to have
completed detailed test generation.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: uploadSessionCmd,
}

var (
	uploadConfigPath   string
	uploadSessionID    string
	uploadOutput       string
	uploadTestRailURL  string
	uploadTestRailUser string
	uploadTestRailKey  string
	uploadProjectID    int
	uploadSuiteID      int
)

func init() {
	uploadCommand.Flags().StringVar(&uploadConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	uploadCommand.Flags().StringVarP(&uploadSessionID, "session", "s", "", "Session whose suite to upload (required)")
	uploadCommand.Flags().StringVarP(&uploadOutput, "output", "o", "", "Root directory for session artifacts")
	uploadCommand.Flags().StringVar(&uploadTestRailURL, "testrail-url", "", "TestRail instance base URL")
	uploadCommand.Flags().StringVar(&uploadTestRailUser, "testrail-user", "", "TestRail account email")
	uploadCommand.Flags().StringVar(&uploadTestRailKey, "testrail-key", "", "TestRail API key")
	uploadCommand.Flags().IntVar(&uploadProjectID, "project-id", 0, "TestRail project ID")
	uploadCommand.Flags().IntVar(&uploadSuiteID, "suite-id", 0, "TestRail suite ID")

	_ = uploadCommand.MarkFlagRequired("session")

	rootCmd.AddCommand(uploadCommand)
}

func uploadSessionCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadMergedConfig(uploadConfigPath, false)
	if err != nil {
		return err
	}
	applyStringFlag(cmd, "output", &cfg.Output, uploadOutput)
	applyStringFlag(cmd, "testrail-url", &cfg.TestRailURL, uploadTestRailURL)
	applyStringFlag(cmd, "testrail-user", &cfg.TestRailUser, uploadTestRailUser)
	applyStringFlag(cmd, "testrail-key", &cfg.TestRailKey, uploadTestRailKey)
	applyIntFlag(cmd, "project-id", &cfg.ProjectID, uploadProjectID)
	applyIntFlag(cmd, "suite-id", &cfg.SuiteID, uploadSuiteID)
	if cfg.Output == "" {
		cfg.Output = config.DefaultOutputDir
	}

	if cfg.TestRailURL == "" || cfg.TestRailUser == "" || cfg.TestRailKey == "" {
		return fmt.Errorf("--testrail-url, --testrail-user, and --testrail-key are required (via flags or config)")
	}
	if cfg.ProjectID <= 0 || cfg.SuiteID <= 0 {
		return fmt.Errorf("--project-id and --suite-id are required (via flags or config)")
	}

	st := store.New(cfg.Output)
	uploader := testrail.NewUploader(testrail.NewClient(cfg.TestRailURL, cfg.TestRailUser, cfg.TestRailKey))

	receipt, err := uploader.Upload(context.Background(), st, uploadSessionID, cfg.ProjectID, cfg.SuiteID)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Uploaded %d cases across %d sections\n", len(receipt.CaseIDs), len(receipt.SectionIDs))
	fmt.Fprintf(os.Stdout, "Suite: %s\n", receipt.SuiteURL)
	return nil
}
