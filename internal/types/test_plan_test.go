package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() *TestPlan {
	return &TestPlan{
		TestPlanID:    "TP-CHECKOUT-001",
		Feature:       "Checkout",
		Objective:     "Verify the checkout flow end-to-end",
		Preconditions: []string{"A registered user exists"},
		SubFeatureTests: []SubFeatureTests{
			{
				SubFeature: "Cart",
				TestCases: []TestCase{
					{TestCaseID: "TC-CART-001", TestScenario: "Add item to cart"},
					{TestCaseID: "TC-CART-002", TestScenario: "Remove item from cart"},
				},
			},
			{
				SubFeature: "Payment",
				TestCases: []TestCase{
					{TestCaseID: "TC-PAY-001", TestScenario: "Pay with card"},
				},
			},
		},
	}
}

func TestCaseCount(t *testing.T) {
	plan := samplePlan()
	assert.Equal(t, 3, plan.CaseCount())

	empty := &TestPlan{}
	assert.Equal(t, 0, empty.CaseCount())
}

func TestCases_PreservesPlanOrder(t *testing.T) {
	cases := samplePlan().Cases()
	ids := make([]string, 0, len(cases))
	for _, tc := range cases {
		ids = append(ids, tc.TestCaseID)
	}
	assert.Equal(t, []string{"TC-CART-001", "TC-CART-002", "TC-PAY-001"}, ids)
}

func TestTestPlanDocument_Normalize_MarshalsArraysNotNull(t *testing.T) {
	doc := &TestPlanDocument{TestPlan: *samplePlan()}
	doc.TestPlan.Preconditions = nil

	doc.Normalize()
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "null")
	assert.Equal(t, []string{}, doc.TestPlan.Preconditions)
	for _, tc := range doc.TestPlan.Cases() {
		assert.NotNil(t, tc.TestSteps, tc.TestCaseID)
		assert.NotNil(t, tc.ExpectedResult, tc.TestCaseID)
	}
}

func TestExtractedPRD_Normalize_MarshalsArraysNotNull(t *testing.T) {
	extracted := &ExtractedPRD{
		PRDContext: PRDContext{
			ProjectName:          "Atlas",
			TargetFeatureSummary: "Checkout",
		},
	}

	extracted.Normalize()
	data, err := json.Marshal(extracted)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "null")
	assert.Equal(t, []string{}, extracted.PRDContext.CoreUserStories)
	assert.Equal(t, []string{}, extracted.PRDContext.TechSpecs.SystemInteractions)
	assert.Equal(t, []string{}, extracted.PRDContext.TestingContext.SuccessMetrics)

	// Populated lists survive untouched.
	extracted.PRDContext.CoreUserStories = []string{"As a shopper I can pay"}
	extracted.Normalize()
	assert.Equal(t, []string{"As a shopper I can pay"}, extracted.PRDContext.CoreUserStories)
}
