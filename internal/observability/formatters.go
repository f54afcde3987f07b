// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/qa-agent/internal/pipeline"
	"github.com/jonathan/qa-agent/internal/session"
	"github.com/jonathan/qa-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPRDContext outputs a human-readable summary of the extracted context.
func (p *Printer) PrintPRDContext(extracted *types.ExtractedPRD) {
	if extracted == nil {
		return
	}
	prd := extracted.PRDContext

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Project:  %s\n", prd.ProjectName))
	sb.WriteString(fmt.Sprintf("Feature:  %s\n", prd.TargetFeatureSummary))

	if len(prd.CoreUserStories) > 0 {
		sb.WriteString("\nUser Stories:\n")
		count := min(len(prd.CoreUserStories), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", prd.CoreUserStories[i]))
		}
		if len(prd.CoreUserStories) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(prd.CoreUserStories)-maxItemsToShow))
		}
	}

	if len(prd.TestingContext.AcceptanceCriteria) > 0 {
		sb.WriteString("\nAcceptance Criteria:\n")
		count := min(len(prd.TestingContext.AcceptanceCriteria), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", prd.TestingContext.AcceptanceCriteria[i]))
		}
	}

	p.printBox("Extracted PRD Context", strings.TrimRight(sb.String(), "\n"))
}

// PrintTestPlan outputs a summary of the generated plan.
func (p *Printer) PrintTestPlan(doc *types.TestPlanDocument) {
	if doc == nil {
		return
	}
	plan := doc.TestPlan

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Plan ID:  %s\n", plan.TestPlanID))
	sb.WriteString(fmt.Sprintf("Feature:  %s\n", plan.Feature))
	sb.WriteString(fmt.Sprintf("Cases:    %d\n", plan.CaseCount()))

	if len(plan.SubFeatureTests) > 0 {
		sb.WriteString("\nSub-features:\n")
		for _, group := range plan.SubFeatureTests {
			sb.WriteString(fmt.Sprintf("  • %s (%d cases)\n", group.SubFeature, len(group.TestCases)))
		}
	}

	p.printBox("Generated Test Plan", strings.TrimRight(sb.String(), "\n"))
}

// PrintTestSuite outputs a summary of the detailed suite.
func (p *Printer) PrintTestSuite(suite *types.TestSuite) {
	if suite == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Detailed cases: %d\n", len(suite.Cases)))

	count := min(len(suite.Cases), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := suite.Cases[i]
		sb.WriteString(fmt.Sprintf("  • %s (%d steps)\n", c.HighLevelCase.TestCaseID, len(c.DetailedSteps)))
	}
	if len(suite.Cases) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(suite.Cases)-maxItemsToShow))
	}

	p.printBox("Generated Test Suite", strings.TrimRight(sb.String(), "\n"))
}

// PrintStatus outputs the per-stage progress of a session.
func (p *Printer) PrintStatus(status *pipeline.SessionStatus) {
	if status == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session:  %s\n", status.Manifest.ID))
	sb.WriteString(fmt.Sprintf("Policy:   %s\n\n", status.Manifest.Policy))

	for _, stage := range status.Stages {
		marker := "[ ]"
		if stage.Completed {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %s", marker, stage.Stage)
		if rec := stage.Record; rec != nil && rec.Status == session.StatusFailed {
			line += " (failed)"
		}
		sb.WriteString(line + "\n")
	}

	if status.Done {
		sb.WriteString("\nPipeline complete.")
	} else {
		sb.WriteString(fmt.Sprintf("\nNext stage: %s", status.NextStage))
	}

	p.printBox("Session Status", sb.String())
}
