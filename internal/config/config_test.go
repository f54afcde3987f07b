package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeTempConfig(t, `{
		"figma_url": "https://www.figma.com/design/abc123/My-App",
		"policy": "trust",
		"max_test_cases": 10
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://www.figma.com/design/abc123/My-App", cfg.FigmaURL)
	assert.Equal(t, "trust", cfg.Policy)
	assert.Equal(t, 10, cfg.MaxTestCases)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeTempConfig(t, `{not json`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestValidate_InvalidPolicy(t *testing.T) {
	cfg := &Config{Policy: "yolo"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Policy")
}

func TestValidate_NegativeMaxTestCases(t *testing.T) {
	cfg := &Config{MaxTestCases: -1}
	assert.Error(t, cfg.Validate())
}

func TestValidate_MissingPRDFile(t *testing.T) {
	cfg := &Config{PRD: filepath.Join(t.TempDir(), "missing.md")}
	assert.Error(t, cfg.Validate())
}

func TestValidate_TestRailCredentialSet(t *testing.T) {
	cfg := &Config{TestRailURL: "https://example.testrail.io"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "testrail_user")

	cfg.TestRailUser = "qa@example.com"
	cfg.TestRailKey = "key"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Empty(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		Policy: "supervised",
	}
	defaults := Config{
		Policy:       "trust",
		FigmaURL:     "https://www.figma.com/file/xyz/App",
		MaxTestCases: 5,
		Output:       "artifacts",
	}

	merged := cfg.MergeWithDefaults(defaults)

	// Explicit values win over defaults
	assert.Equal(t, "supervised", merged.Policy)
	// Empty values are filled in
	assert.Equal(t, "https://www.figma.com/file/xyz/App", merged.FigmaURL)
	assert.Equal(t, 5, merged.MaxTestCases)
	assert.Equal(t, "artifacts", merged.Output)
}

func TestMergeWithDefaults_OutputFallback(t *testing.T) {
	merged := (&Config{}).MergeWithDefaults(Config{})
	assert.Equal(t, DefaultOutputDir, merged.Output)
}
