// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	PRD      string `json:"prd,omitempty" validate:"omitempty,file"`      // Path to the PRD document (.txt or .md)
	FigmaURL string `json:"figma_url,omitempty" validate:"omitempty,url"` // Figma file or design URL
	Output   string `json:"output,omitempty"`                             // Root directory for session artifacts

	// Behavior
	Policy       string `json:"policy,omitempty" validate:"omitempty,oneof=trust supervised"` // Execution policy
	MaxTestCases int    `json:"max_test_cases,omitempty" validate:"gte=0"`                    // Cap on detailed test case generation (0 = unlimited)
	Verbose      bool   `json:"verbose,omitempty"`                                            // Print detailed debug information

	// Credentials
	APIKey     string `json:"api_key,omitempty"`     // Gemini API key
	FigmaToken string `json:"figma_token,omitempty"` // Figma personal access token

	// TestRail upload
	TestRailURL  string `json:"testrail_url,omitempty" validate:"omitempty,url"` // TestRail instance base URL
	TestRailUser string `json:"testrail_user,omitempty"`                         // TestRail account email
	TestRailKey  string `json:"testrail_key,omitempty"`                          // TestRail API key
	ProjectID    int    `json:"project_id,omitempty" validate:"gte=0"`           // TestRail project ID
	SuiteID      int    `json:"suite_id,omitempty" validate:"gte=0"`             // TestRail suite ID
}

// DefaultOutputDir is used when neither config nor flags set an output root.
const DefaultOutputDir = "output"

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("config error: field %q failed %q validation", first.Field(), first.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	// TestRail credentials come as a set
	if c.TestRailURL != "" && (c.TestRailUser == "" || c.TestRailKey == "") {
		return fmt.Errorf("config error: 'testrail_url' requires 'testrail_user' and 'testrail_key'")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.PRD == "" {
		result.PRD = defaults.PRD
	}
	if result.FigmaURL == "" {
		result.FigmaURL = defaults.FigmaURL
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.Policy == "" {
		result.Policy = defaults.Policy
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.FigmaToken == "" {
		result.FigmaToken = defaults.FigmaToken
	}
	if result.TestRailURL == "" {
		result.TestRailURL = defaults.TestRailURL
	}
	if result.TestRailUser == "" {
		result.TestRailUser = defaults.TestRailUser
	}
	if result.TestRailKey == "" {
		result.TestRailKey = defaults.TestRailKey
	}

	// Int fields: use default if zero
	if result.MaxTestCases == 0 {
		result.MaxTestCases = defaults.MaxTestCases
	}
	if result.ProjectID == 0 {
		result.ProjectID = defaults.ProjectID
	}
	if result.SuiteID == 0 {
		result.SuiteID = defaults.SuiteID
	}

	if result.Output == "" {
		result.Output = DefaultOutputDir
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
