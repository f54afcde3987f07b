package testrail

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/qa-agent/internal/session"
	"github.com/jonathan/qa-agent/internal/store"
	"github.com/jonathan/qa-agent/internal/types"
)

// defaultSectionName receives cases whose sub-feature cannot be matched
// back to the plan.
const defaultSectionName = "Generated Test Cases"

// maxConcurrentCaseUploads bounds parallel add_case calls so a large
// suite does not trip TestRail rate limits.
const maxConcurrentCaseUploads = 4

// typeIDFunctional is TestRail's built-in "Functional" case type.
const typeIDFunctional = 7

// templateIDText is the "Test Case (Text)" template used when steps and
// expectations cannot be paired row by row.
const templateIDText = 1

// API is the slice of the TestRail client the uploader needs.
type API interface {
	GetSections(ctx context.Context, projectID, suiteID int) ([]Section, error)
	AddSection(ctx context.Context, projectID, suiteID int, name string) (*Section, error)
	AddCase(ctx context.Context, sectionID int, payload *CasePayload) (*Case, error)
	SuiteURL(suiteID int) string
}

// Uploader pushes a session's generated suite into TestRail, creating
// one section per sub-feature.
type Uploader struct {
	api API
}

// NewUploader creates an uploader over a TestRail client.
func NewUploader(api API) *Uploader {
	return &Uploader{api: api}
}

// Receipt summarizes what an upload created.
type Receipt struct {
	SuiteURL   string
	SectionIDs map[string]int // sub-feature name -> section id
	CaseIDs    map[string]int // test case id -> TestRail case id
}

// Upload reads the session's suite and plan from the store and mirrors
// them into TestRail. It refuses to run before detailed test generation
// has produced the suite artifact, and makes no network calls in that
// case.
func (u *Uploader) Upload(ctx context.Context, st *store.Store, sessionID string, projectID, suiteID int) (*Receipt, error) {
	stage := string(session.StageDetailedTestGeneration)
	if !st.Exists(sessionID, stage, session.KindTestSuite) {
		return nil, &session.StagePrerequisiteError{
			SessionID: sessionID,
			Required:  session.StageDetailedTestGeneration,
		}
	}

	suiteContent, err := st.Get(sessionID, stage, session.KindTestSuite)
	if err != nil {
		return nil, err
	}
	var suite types.TestSuite
	if err := json.Unmarshal(suiteContent, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse test suite artifact: %w", err)
	}

	sectionByCase := map[string]string{}
	planContent, err := st.Get(sessionID, string(session.StagePlanGeneration), session.KindTestPlan)
	if err == nil {
		var plan types.TestPlanDocument
		if err := json.Unmarshal(planContent, &plan); err == nil {
			for _, group := range plan.TestPlan.SubFeatureTests {
				for _, tc := range group.TestCases {
					sectionByCase[tc.TestCaseID] = group.SubFeature
				}
			}
		}
	}

	sections, err := u.api.GetSections(ctx, projectID, suiteID)
	if err != nil {
		return nil, err
	}
	sectionIDs := make(map[string]int, len(sections))
	for _, s := range sections {
		sectionIDs[s.Name] = s.ID
	}

	// Create missing sections up front, sequentially, so concurrent case
	// uploads never race on section creation.
	for _, c := range suite.Cases {
		name := sectionName(sectionByCase, c.HighLevelCase.TestCaseID)
		if _, ok := sectionIDs[name]; ok {
			continue
		}
		created, err := u.api.AddSection(ctx, projectID, suiteID, name)
		if err != nil {
			return nil, err
		}
		sectionIDs[name] = created.ID
	}

	receipt := &Receipt{
		SuiteURL:   u.api.SuiteURL(suiteID),
		SectionIDs: sectionIDs,
		CaseIDs:    make(map[string]int, len(suite.Cases)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCaseUploads)
	for _, c := range suite.Cases {
		g.Go(func() error {
			sectionID := sectionIDs[sectionName(sectionByCase, c.HighLevelCase.TestCaseID)]
			created, err := u.api.AddCase(gctx, sectionID, buildCasePayload(c))
			if err != nil {
				return fmt.Errorf("failed to upload case %s: %w", c.HighLevelCase.TestCaseID, err)
			}
			mu.Lock()
			receipt.CaseIDs[c.HighLevelCase.TestCaseID] = created.ID
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return receipt, nil
}

func sectionName(sectionByCase map[string]string, caseID string) string {
	if name, ok := sectionByCase[caseID]; ok && name != "" {
		return name
	}
	return defaultSectionName
}

// buildCasePayload maps a suite case onto TestRail's case fields.
// Detailed steps carry paired expectations and upload as separated
// rows; otherwise the high-level steps fall back to the text template.
func buildCasePayload(c types.SuiteCase) *CasePayload {
	hl := c.HighLevelCase
	payload := &CasePayload{
		Title:      fmt.Sprintf("[%s] %s", hl.TestCaseID, hl.TestScenario),
		TypeID:     typeIDFunctional,
		PriorityID: priorityID(hl.Priority),
		Refs:       hl.TestCaseID,
	}

	if len(c.DetailedSteps) > 0 {
		payload.CustomStepsSep = make([]StepSeparated, 0, len(c.DetailedSteps))
		for _, step := range c.DetailedSteps {
			payload.CustomStepsSep = append(payload.CustomStepsSep, StepSeparated{
				Content:  step.Action,
				Expected: step.ExpectedResult,
			})
		}
		return payload
	}

	if len(hl.TestSteps) == len(hl.ExpectedResult) && len(hl.TestSteps) > 0 {
		payload.CustomStepsSep = make([]StepSeparated, 0, len(hl.TestSteps))
		for i, step := range hl.TestSteps {
			payload.CustomStepsSep = append(payload.CustomStepsSep, StepSeparated{
				Content:  step,
				Expected: hl.ExpectedResult[i],
			})
		}
		return payload
	}

	payload.TemplateID = templateIDText
	payload.CustomSteps = strings.Join(hl.TestSteps, "\n")
	payload.CustomExpected = strings.Join(hl.ExpectedResult, "\n")
	return payload
}

// priorityID maps plan priorities onto TestRail's built-in scale.
func priorityID(priority string) int {
	switch priority {
	case "P0":
		return 4
	case "P1":
		return 3
	case "P2":
		return 2
	case "P3":
		return 1
	default:
		return 2
	}
}
