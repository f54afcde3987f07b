package planning

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/qa-agent/internal/pipeline"
	"github.com/jonathan/qa-agent/internal/session"
	"github.com/jonathan/qa-agent/internal/types"
)

// demoPlan returns the canned test plan used when no credentials are
// configured. It covers two sub-features so rendering and upload have
// realistic structure to work with.
func demoPlan() types.TestPlanDocument {
	return types.TestPlanDocument{
		TestPlan: types.TestPlan{
			TestPlanID: "TP-DEMO-001",
			Feature:    "User Login",
			Objective:  "Verify that users can authenticate and recover access to their accounts.",
			Preconditions: []string{
				"A registered account demo@example.com exists with a known password.",
				"The application is reachable at the staging URL.",
			},
			SubFeatureTests: []types.SubFeatureTests{
				{
					SubFeature: "Authentication",
					TestCases: []types.TestCase{
						{
							TestCaseID:   "TC-AUTH-001",
							TestScenario: "Login succeeds with valid credentials",
							TestSteps: []string{
								"Navigate to the login page",
								"Enter a valid email and password",
								"Click the Sign in button",
							},
							ExpectedResult: []string{
								"The user lands on the dashboard",
								"The session persists across a page refresh",
							},
							Rationale: "Primary entry point for every returning user.",
							TestType:  "Functional",
							Priority:  "P0",
						},
						{
							TestCaseID:   "TC-AUTH-002",
							TestScenario: "Login fails with an incorrect password",
							TestSteps: []string{
								"Navigate to the login page",
								"Enter a valid email and an incorrect password",
								"Click the Sign in button",
							},
							ExpectedResult: []string{
								"An inline error is shown without revealing which field was wrong",
								"The user remains on the login page",
							},
							Rationale: "Prevents credential enumeration and confirms error handling.",
							TestType:  "Negative",
							Priority:  "P1",
						},
					},
				},
				{
					SubFeature: "Password Reset",
					TestCases: []types.TestCase{
						{
							TestCaseID:   "TC-RESET-001",
							TestScenario: "Reset link is emailed for a registered address",
							TestSteps: []string{
								"Open the Forgot password screen",
								"Enter the registered email address",
								"Click Send reset link",
							},
							ExpectedResult: []string{
								"A confirmation message is displayed",
								"A reset email arrives within one minute",
							},
							Rationale: "Account recovery is the top support-ticket driver.",
							TestType:  "Functional",
							Priority:  "P1",
						},
					},
				},
			},
		},
	}
}

// DemoPlanner produces the canned test plan offline.
type DemoPlanner struct{}

// NewDemoPlanner creates the offline plan-generation transform.
func NewDemoPlanner() *DemoPlanner {
	return &DemoPlanner{}
}

func (p *DemoPlanner) Stage() session.Stage {
	return session.StagePlanGeneration
}

func (p *DemoPlanner) Run(_ context.Context, _ *session.Manifest, _ pipeline.Inputs) (pipeline.Outputs, error) {
	artifact, err := json.MarshalIndent(demoPlan(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal demo test plan: %w", err)
	}
	return pipeline.Outputs{
		session.KindTestPlan: artifact,
	}, nil
}

// DemoDetailer expands the incoming plan into mechanical but valid
// detailed steps, honoring the same case cap as the live transform.
type DemoDetailer struct{}

// NewDemoDetailer creates the offline detailed-test-generation transform.
func NewDemoDetailer() *DemoDetailer {
	return &DemoDetailer{}
}

func (d *DemoDetailer) Stage() session.Stage {
	return session.StageDetailedTestGeneration
}

func (d *DemoDetailer) Run(_ context.Context, manifest *session.Manifest, in pipeline.Inputs) (pipeline.Outputs, error) {
	var doc types.TestPlanDocument
	if err := json.Unmarshal(in[session.KindTestPlan], &doc); err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(d.Stage()),
			Message: "failed to parse test plan artifact",
			Cause:   err,
		}
	}

	cases := doc.TestPlan.Cases()
	if manifest.MaxTestCases > 0 && len(cases) > manifest.MaxTestCases {
		cases = cases[:manifest.MaxTestCases]
	}

	suite := types.TestSuite{Cases: make([]types.SuiteCase, 0, len(cases))}
	for _, tc := range cases {
		steps := make([]types.DetailedStep, 0, len(tc.TestSteps))
		for i, action := range tc.TestSteps {
			expected := "The action completes without errors."
			if i < len(tc.ExpectedResult) {
				expected = tc.ExpectedResult[i]
			}
			steps = append(steps, types.DetailedStep{
				StepNumber:     i + 1,
				Action:         action,
				ExpectedResult: expected,
			})
		}
		if len(steps) == 0 {
			steps = append(steps, types.DetailedStep{
				StepNumber:     1,
				Action:         "Execute the scenario: " + tc.TestScenario,
				ExpectedResult: "The scenario completes as described in the plan.",
			})
		}

		suite.Cases = append(suite.Cases, types.SuiteCase{
			HighLevelCase:   tc,
			DetailedSteps:   steps,
			SampleBugReport: BugReportTemplate(tc, steps),
		})
	}

	artifact, err := json.MarshalIndent(suite, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal demo test suite: %w", err)
	}

	return pipeline.Outputs{
		session.KindTestSuite: artifact,
	}, nil
}
