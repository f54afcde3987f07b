// Package rendering turns the JSON pipeline artifacts into reviewable
// markdown documents.
package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/qa-agent/internal/types"
)

// RenderTestPlan renders a test plan as a markdown document with one
// table per sub-feature.
func RenderTestPlan(doc *types.TestPlanDocument) string {
	plan := doc.TestPlan
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Test Plan: %s\n\n", plan.Feature)
	fmt.Fprintf(&sb, "**Test Plan ID:** %s\n\n", plan.TestPlanID)
	fmt.Fprintf(&sb, "**Objective:** %s\n\n", plan.Objective)

	if len(plan.Preconditions) > 0 {
		sb.WriteString("## Preconditions\n\n")
		for _, p := range plan.Preconditions {
			fmt.Fprintf(&sb, "- %s\n", p)
		}
		sb.WriteString("\n")
	}

	for _, group := range plan.SubFeatureTests {
		fmt.Fprintf(&sb, "## %s\n\n", group.SubFeature)
		sb.WriteString("| Test Case ID | Test Scenario | Test Steps | Expected Result | Rationale / Business Impact | Test Type | Priority |\n")
		sb.WriteString("|---|---|---|---|---|---|---|\n")
		for _, tc := range group.TestCases {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s | %s |\n",
				cell(tc.TestCaseID),
				cell(tc.TestScenario),
				numberedCell(tc.TestSteps),
				bulletedCell(tc.ExpectedResult),
				cell(tc.Rationale),
				cell(tc.TestType),
				cell(tc.Priority),
			)
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// RenderTestSuite renders the detailed test suite as a markdown document
// with one section per case, a step table, and the bug report template
// as a blockquote.
func RenderTestSuite(suite *types.TestSuite) string {
	var sb strings.Builder

	sb.WriteString("# Detailed Manual Test Cases\n\n")

	for _, c := range suite.Cases {
		fmt.Fprintf(&sb, "## %s: %s\n\n", c.HighLevelCase.TestCaseID, c.HighLevelCase.TestScenario)
		fmt.Fprintf(&sb, "**Priority:** %s | **Type:** %s\n\n", c.HighLevelCase.Priority, c.HighLevelCase.TestType)
		if c.HighLevelCase.Rationale != "" {
			fmt.Fprintf(&sb, "**Rationale / Business Impact:** %s\n\n", c.HighLevelCase.Rationale)
		}

		sb.WriteString("| Step | Action | Expected Result |\n")
		sb.WriteString("|---|---|---|\n")
		for _, step := range c.DetailedSteps {
			fmt.Fprintf(&sb, "| %d | %s | %s |\n", step.StepNumber, cell(step.Action), cell(step.ExpectedResult))
		}
		sb.WriteString("\n")

		if c.SampleBugReport != "" {
			sb.WriteString("### Sample Bug Report\n\n")
			for _, line := range strings.Split(c.SampleBugReport, "\n") {
				fmt.Fprintf(&sb, "> %s\n", line)
			}
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// cell makes a string safe for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\r\n", "<br>")
	s = strings.ReplaceAll(s, "\n", "<br>")
	return s
}

// numberedCell joins items as a numbered list inside one table cell.
func numberedCell(items []string) string {
	parts := make([]string, 0, len(items))
	for i, item := range items {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, cell(item)))
	}
	return strings.Join(parts, "<br>")
}

// bulletedCell joins items as a bullet list inside one table cell.
func bulletedCell(items []string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, "- "+cell(item))
	}
	return strings.Join(parts, "<br>")
}
