package types

// DetailedStep is one granular step of a manual test case.
type DetailedStep struct {
	StepNumber     int    `json:"step_number"`
	Action         string `json:"action"`
	ExpectedResult string `json:"expected_result"`
}

// SuiteCase pairs a high-level test case with its expanded manual steps and
// a pre-filled bug report template.
type SuiteCase struct {
	HighLevelCase   TestCase       `json:"high_level_test_case"`
	DetailedSteps   []DetailedStep `json:"detailed_manual_test_case"`
	SampleBugReport string         `json:"sample_bug_report"`
}

// TestSuite is the root object written to test_suite.json.
type TestSuite struct {
	Cases []SuiteCase `json:"test_suite"`
}
