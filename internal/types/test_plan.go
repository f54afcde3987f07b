package types

// TestCase is a single row of a prioritized test plan.
type TestCase struct {
	TestCaseID     string   `json:"test_case_id"`
	TestScenario   string   `json:"test_scenario"`
	TestSteps      []string `json:"test_steps"`
	ExpectedResult []string `json:"expected_result"`
	Rationale      string   `json:"rationale"`
	TestType       string   `json:"test_type"`
	Priority       string   `json:"priority"`
}

// SubFeatureTests groups test cases under one sub-feature.
type SubFeatureTests struct {
	SubFeature string     `json:"sub_feature"`
	TestCases  []TestCase `json:"test_cases"`
}

// TestPlan is the prioritized E2E test plan for one feature.
type TestPlan struct {
	TestPlanID      string            `json:"test_plan_id"`
	Feature         string            `json:"feature"`
	Objective       string            `json:"objective"`
	Preconditions   []string          `json:"preconditions"`
	SubFeatureTests []SubFeatureTests `json:"sub_feature_tests"`
}

// TestPlanDocument is the root object written to test_plan.json.
type TestPlanDocument struct {
	TestPlan TestPlan `json:"test_plan"`
}

// Normalize replaces nil list fields with empty slices so the marshaled
// plan always carries JSON arrays where its schema expects them.
func (d *TestPlanDocument) Normalize() {
	p := &d.TestPlan
	p.Preconditions = orEmpty(p.Preconditions)
	for i := range p.SubFeatureTests {
		group := &p.SubFeatureTests[i]
		for j := range group.TestCases {
			tc := &group.TestCases[j]
			tc.TestSteps = orEmpty(tc.TestSteps)
			tc.ExpectedResult = orEmpty(tc.ExpectedResult)
		}
	}
}

// CaseCount returns the total number of test cases across all sub-features.
func (p *TestPlan) CaseCount() int {
	count := 0
	for _, group := range p.SubFeatureTests {
		count += len(group.TestCases)
	}
	return count
}

// Cases returns all test cases across sub-features, in plan order.
func (p *TestPlan) Cases() []TestCase {
	cases := make([]TestCase, 0, p.CaseCount())
	for _, group := range p.SubFeatureTests {
		cases = append(cases, group.TestCases...)
	}
	return cases
}
