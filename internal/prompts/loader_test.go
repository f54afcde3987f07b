package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("extraction.json", "extract-prd-context")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "{{.PRDContent}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("planning.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestPlanningPrompts_HavePlaceholders(t *testing.T) {
	ClearCache()

	plan := MustGet("planning.json", "generate-test-plan")
	assert.Contains(t, plan, "{{.FigmaSummary}}")
	assert.Contains(t, plan, "{{.UserStories}}")

	detailed := MustGet("planning.json", "generate-detailed-steps")
	assert.Contains(t, detailed, "{{.TestCaseID}}")
}

func TestFormat(t *testing.T) {
	template := "Project {{.Name}} targets {{.Feature}}"
	data := map[string]string{
		"Name":    "Atlas",
		"Feature": "Checkout",
	}

	result := Format(template, data)
	assert.Equal(t, "Project Atlas targets Checkout", result)
}

func TestFormat_MissingKeyLeavesPlaceholder(t *testing.T) {
	template := "Hello {{.Name}}"
	result := Format(template, map[string]string{})
	assert.Equal(t, template, result)
}
