package testrail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/qa-agent/internal/session"
	"github.com/jonathan/qa-agent/internal/store"
	"github.com/jonathan/qa-agent/internal/types"
)

func seedArtifacts(t *testing.T, st *store.Store, sessionID string) {
	t.Helper()

	plan := types.TestPlanDocument{
		TestPlan: types.TestPlan{
			TestPlanID: "TP-001",
			Feature:    "Login",
			SubFeatureTests: []types.SubFeatureTests{
				{
					SubFeature: "Authentication",
					TestCases: []types.TestCase{
						{TestCaseID: "TC-AUTH-001", TestScenario: "Valid login", Priority: "P0"},
					},
				},
				{
					SubFeature: "Password Reset",
					TestCases: []types.TestCase{
						{TestCaseID: "TC-RESET-001", TestScenario: "Reset link sent", Priority: "P1"},
					},
				},
			},
		},
	}
	planJSON, err := json.Marshal(plan)
	require.NoError(t, err)
	require.NoError(t, st.Put(sessionID, string(session.StagePlanGeneration), session.KindTestPlan, planJSON))

	suite := types.TestSuite{
		Cases: []types.SuiteCase{
			{
				HighLevelCase: types.TestCase{TestCaseID: "TC-AUTH-001", TestScenario: "Valid login", Priority: "P0"},
				DetailedSteps: []types.DetailedStep{
					{StepNumber: 1, Action: "Open login page", ExpectedResult: "Form shown"},
				},
			},
			{
				HighLevelCase: types.TestCase{TestCaseID: "TC-RESET-001", TestScenario: "Reset link sent", Priority: "P1"},
				DetailedSteps: []types.DetailedStep{
					{StepNumber: 1, Action: "Request reset", ExpectedResult: "Email sent"},
				},
			},
		},
	}
	suiteJSON, err := json.Marshal(suite)
	require.NoError(t, err)
	require.NoError(t, st.Put(sessionID, string(session.StageDetailedTestGeneration), session.KindTestSuite, suiteJSON))
}

// newTestRailServer fakes the API endpoints the uploader touches.
// The "Authentication" section pre-exists; others must be created.
func newTestRailServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()

	var mu sync.Mutex
	var addedSections []string
	var caseCounter atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, key, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "qa@example.com", user)
		assert.Equal(t, "api-key", key)

		query := r.URL.RawQuery
		switch {
		case strings.Contains(query, "get_sections/1"):
			assert.Contains(t, query, "suite_id=2")
			_ = json.NewEncoder(w).Encode(sectionsPage{
				Sections: []Section{{ID: 10, SuiteID: 2, Name: "Authentication"}},
			})
		case strings.Contains(query, "add_section/1"):
			var body struct {
				SuiteID int    `json:"suite_id"`
				Name    string `json:"name"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			mu.Lock()
			addedSections = append(addedSections, body.Name)
			mu.Unlock()
			_ = json.NewEncoder(w).Encode(Section{ID: 20, SuiteID: body.SuiteID, Name: body.Name})
		case strings.Contains(query, "add_case/"):
			var payload CasePayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, typeIDFunctional, payload.TypeID)
			_ = json.NewEncoder(w).Encode(Case{ID: int(100 + caseCounter.Add(1)), Title: payload.Title})
		default:
			t.Errorf("unexpected TestRail request: %s", query)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return server, &addedSections
}

func TestUpload(t *testing.T) {
	st := store.New(t.TempDir())
	seedArtifacts(t, st, "abc12345")

	server, addedSections := newTestRailServer(t)
	defer server.Close()

	uploader := NewUploader(NewClient(server.URL, "qa@example.com", "api-key"))
	receipt, err := uploader.Upload(context.Background(), st, "abc12345", 1, 2)
	require.NoError(t, err)

	// Existing section reused, missing one created.
	assert.Equal(t, []string{"Password Reset"}, *addedSections)
	assert.Equal(t, 10, receipt.SectionIDs["Authentication"])
	assert.Equal(t, 20, receipt.SectionIDs["Password Reset"])

	assert.Len(t, receipt.CaseIDs, 2)
	assert.Contains(t, receipt.CaseIDs, "TC-AUTH-001")
	assert.Contains(t, receipt.CaseIDs, "TC-RESET-001")
	assert.Contains(t, receipt.SuiteURL, "/suites/view/2")
}

func TestUpload_PrerequisiteNotMet(t *testing.T) {
	st := store.New(t.TempDir())

	// Any network call is a test failure: the gate must fire first.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API call expected before the suite artifact exists")
	}))
	defer server.Close()

	uploader := NewUploader(NewClient(server.URL, "qa@example.com", "api-key"))
	_, err := uploader.Upload(context.Background(), st, "abc12345", 1, 2)

	var prereq *session.StagePrerequisiteError
	require.True(t, errors.As(err, &prereq))
	assert.Equal(t, session.StageDetailedTestGeneration, prereq.Required)
}

func TestUpload_APIErrorPropagates(t *testing.T) {
	st := store.New(t.TempDir())
	seedArtifacts(t, st, "abc12345")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": "Authentication failed"}`)
	}))
	defer server.Close()

	uploader := NewUploader(NewClient(server.URL, "qa@example.com", "bad-key"))
	_, err := uploader.Upload(context.Background(), st, "abc12345", 1, 2)

	var uploadErr *UploadError
	require.True(t, errors.As(err, &uploadErr))
	assert.Equal(t, http.StatusUnauthorized, uploadErr.Status)
	assert.Equal(t, "Authentication failed", uploadErr.Message)
}

func TestBuildCasePayload_DetailedSteps(t *testing.T) {
	payload := buildCasePayload(types.SuiteCase{
		HighLevelCase: types.TestCase{TestCaseID: "TC-1", TestScenario: "Scenario", Priority: "P0"},
		DetailedSteps: []types.DetailedStep{
			{StepNumber: 1, Action: "Do A", ExpectedResult: "See B"},
			{StepNumber: 2, Action: "Do C", ExpectedResult: "See D"},
		},
	})

	assert.Equal(t, "[TC-1] Scenario", payload.Title)
	assert.Equal(t, 4, payload.PriorityID)
	require.Len(t, payload.CustomStepsSep, 2)
	assert.Equal(t, "Do A", payload.CustomStepsSep[0].Content)
	assert.Equal(t, "See B", payload.CustomStepsSep[0].Expected)
	assert.Zero(t, payload.TemplateID)
	assert.Empty(t, payload.CustomSteps)
}

func TestBuildCasePayload_HighLevelPaired(t *testing.T) {
	payload := buildCasePayload(types.SuiteCase{
		HighLevelCase: types.TestCase{
			TestCaseID:     "TC-2",
			TestScenario:   "Scenario",
			TestSteps:      []string{"Step one", "Step two"},
			ExpectedResult: []string{"Result one", "Result two"},
			Priority:       "P2",
		},
	})

	require.Len(t, payload.CustomStepsSep, 2)
	assert.Equal(t, "Result two", payload.CustomStepsSep[1].Expected)
}

func TestBuildCasePayload_MismatchedFallsBackToText(t *testing.T) {
	payload := buildCasePayload(types.SuiteCase{
		HighLevelCase: types.TestCase{
			TestCaseID:     "TC-3",
			TestScenario:   "Scenario",
			TestSteps:      []string{"Step one", "Step two"},
			ExpectedResult: []string{"Single combined result"},
			Priority:       "P3",
		},
	})

	assert.Empty(t, payload.CustomStepsSep)
	assert.Equal(t, templateIDText, payload.TemplateID)
	assert.Equal(t, "Step one\nStep two", payload.CustomSteps)
	assert.Equal(t, "Single combined result", payload.CustomExpected)
}

func TestPriorityID(t *testing.T) {
	assert.Equal(t, 4, priorityID("P0"))
	assert.Equal(t, 3, priorityID("P1"))
	assert.Equal(t, 2, priorityID("P2"))
	assert.Equal(t, 1, priorityID("P3"))
	assert.Equal(t, 2, priorityID("unknown"))
}
