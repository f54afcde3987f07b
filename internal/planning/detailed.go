package planning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/qa-agent/internal/llm"
	"github.com/jonathan/qa-agent/internal/pipeline"
	"github.com/jonathan/qa-agent/internal/prompts"
	"github.com/jonathan/qa-agent/internal/session"
	"github.com/jonathan/qa-agent/internal/types"
)

// Detailer expands each plan case into granular manual steps.
type Detailer struct {
	client llm.Client
}

// NewDetailer creates the live detailed-test-generation transform.
func NewDetailer(client llm.Client) *Detailer {
	return &Detailer{client: client}
}

func (d *Detailer) Stage() session.Stage {
	return session.StageDetailedTestGeneration
}

// detailedStepsResponse is the shape the expansion prompt asks for.
type detailedStepsResponse struct {
	DetailedSteps []types.DetailedStep `json:"detailed_steps"`
}

func (d *Detailer) Run(ctx context.Context, manifest *session.Manifest, in pipeline.Inputs) (pipeline.Outputs, error) {
	var doc types.TestPlanDocument
	if err := json.Unmarshal(in[session.KindTestPlan], &doc); err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(d.Stage()),
			Message: "failed to parse test plan artifact",
			Cause:   err,
		}
	}

	figmaSummary := string(in[session.KindFigmaSummary])

	cases := doc.TestPlan.Cases()
	if manifest.MaxTestCases > 0 && len(cases) > manifest.MaxTestCases {
		cases = cases[:manifest.MaxTestCases]
	}

	template, err := prompts.Get("planning.json", "generate-detailed-steps")
	if err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(d.Stage()),
			Message: "failed to load detailed-steps prompt",
			Cause:   err,
		}
	}

	suite := types.TestSuite{Cases: make([]types.SuiteCase, 0, len(cases))}
	for _, tc := range cases {
		prompt := prompts.Format(template, map[string]string{
			"Objective":      doc.TestPlan.Objective,
			"TestCaseID":     tc.TestCaseID,
			"Scenario":       tc.TestScenario,
			"Steps":          bulleted(tc.TestSteps),
			"ExpectedResult": bulleted(tc.ExpectedResult),
			"FigmaSummary":   figmaSummary,
		})

		raw, err := d.client.GenerateJSON(ctx, prompt, llm.TierStandard)
		if err != nil {
			return nil, &pipeline.GenerationError{
				Stage:   string(d.Stage()),
				Message: fmt.Sprintf("detailed step generation failed for case %s", tc.TestCaseID),
				Cause:   err,
			}
		}

		var resp detailedStepsResponse
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			return nil, &pipeline.GenerationError{
				Stage:   string(d.Stage()),
				Message: fmt.Sprintf("malformed detailed steps for case %s", tc.TestCaseID),
				Cause:   err,
			}
		}
		if len(resp.DetailedSteps) == 0 {
			return nil, &pipeline.GenerationError{
				Stage:   string(d.Stage()),
				Message: fmt.Sprintf("no detailed steps generated for case %s", tc.TestCaseID),
			}
		}

		suite.Cases = append(suite.Cases, types.SuiteCase{
			HighLevelCase:   tc,
			DetailedSteps:   resp.DetailedSteps,
			SampleBugReport: BugReportTemplate(tc, resp.DetailedSteps),
		})
	}

	artifact, err := json.MarshalIndent(suite, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal test suite: %w", err)
	}

	return pipeline.Outputs{
		session.KindTestSuite: artifact,
	}, nil
}

// BugReportTemplate pre-fills a bug report skeleton for a test case so a
// tester only has to describe the observed behavior.
func BugReportTemplate(tc types.TestCase, steps []types.DetailedStep) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Title: [%s] %s - <describe the failure>\n", tc.TestCaseID, tc.TestScenario)
	sb.WriteString("Environment: <OS, browser/app version, build>\n")
	fmt.Fprintf(&sb, "Priority: %s\n", tc.Priority)
	sb.WriteString("Steps to Reproduce:\n")
	for _, step := range steps {
		fmt.Fprintf(&sb, "%d. %s\n", step.StepNumber, step.Action)
	}
	sb.WriteString("Expected Result:\n")
	for _, result := range tc.ExpectedResult {
		fmt.Fprintf(&sb, "- %s\n", result)
	}
	sb.WriteString("Actual Result: <describe the observed behavior>\n")
	sb.WriteString("Attachments: <screenshots, logs, recordings>")

	return sb.String()
}
