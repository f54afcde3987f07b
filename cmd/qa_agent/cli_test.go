package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPRD(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "prd.md")
	content := "# Login Feature\n\nUsers can log in with email and password.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// cleanEnv drops credentials so the CLI resolves demo capability.
func cleanEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "GEMINI_API_KEY=") || strings.HasPrefix(kv, "FIGMA_ACCESS_TOKEN=") {
			continue
		}
		env = append(env, kv)
	}
	return env
}

func TestRunCommand_DemoEndToEnd(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()
	prd := writeTestPRD(t, tmpDir)
	outDir := filepath.Join(tmpDir, "output")

	cmd := exec.Command(binaryPath, "run", "--prd", prd, "--output", outDir)
	cmd.Env = cleanEnv()
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "output: %s", output)

	assert.Contains(t, string(output), "complete")

	sessions, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	sessionDir := filepath.Join(outDir, sessions[0].Name())
	for _, name := range []string{
		"session.json",
		"prd_context.json",
		"figma_summary.txt",
		"test_plan.json",
		"test_suite.json",
		"test_plan.md",
		"test_suite.md",
	} {
		_, err := os.Stat(filepath.Join(sessionDir, name))
		assert.NoError(t, err, "expected artifact %s", name)
	}
}

func TestNewCommand_RequiresPRD(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "new", "--output", t.TempDir())
	cmd.Env = cleanEnv()
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "--prd is required")
}

func TestNewCommand_RejectsUnknownPolicy(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()
	prd := writeTestPRD(t, tmpDir)

	cmd := exec.Command(binaryPath, "new", "--prd", prd, "--policy", "yolo", "--output", tmpDir)
	cmd.Env = cleanEnv()
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "unknown execution policy")
}

func TestAdvanceCommand_SupervisedStepThenStatus(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()
	prd := writeTestPRD(t, tmpDir)
	outDir := filepath.Join(tmpDir, "output")

	newCmd := exec.Command(binaryPath, "new", "--prd", prd, "--policy", "supervised", "--output", outDir)
	newCmd.Env = cleanEnv()
	newOutput, err := newCmd.CombinedOutput()
	require.NoError(t, err, "output: %s", newOutput)

	fields := strings.Fields(string(newOutput))
	require.GreaterOrEqual(t, len(fields), 3)
	sessionID := fields[2]

	advCmd := exec.Command(binaryPath, "advance", "--session", sessionID, "--output", outDir)
	advCmd.Env = cleanEnv()
	advOutput, err := advCmd.CombinedOutput()
	require.NoError(t, err, "output: %s", advOutput)
	assert.Contains(t, string(advOutput), "context_extraction")

	statusCmd := exec.Command(binaryPath, "status", "--session", sessionID, "--output", outDir)
	statusCmd.Env = cleanEnv()
	statusOutput, err := statusCmd.CombinedOutput()
	require.NoError(t, err, "output: %s", statusOutput)
	assert.Contains(t, string(statusOutput), "[x] context_extraction")
	assert.Contains(t, string(statusOutput), "design_summarization")
}

func TestRunCommand_SessionAndPRDMutuallyExclusive(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()
	prd := writeTestPRD(t, tmpDir)

	cmd := exec.Command(binaryPath, "run", "--session", "abc12345", "--prd", prd, "--output", tmpDir)
	cmd.Env = cleanEnv()
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "mutually exclusive")
}

func TestUploadCommand_RequiresCredentials(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "upload", "--session", "abc12345", "--output", t.TempDir())
	cmd.Env = cleanEnv()
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "--testrail-url")
}
