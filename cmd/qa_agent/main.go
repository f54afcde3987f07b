// Package main provides the entry point for the QA agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "qa_agent",
	Short: "QA artifact generation pipeline",
	Long:  "qa_agent turns a PRD document and a Figma design into a prioritized test plan, a detailed manual test suite, and reviewable markdown, with optional upload to TestRail.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
