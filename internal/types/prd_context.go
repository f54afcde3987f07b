// Package types provides type definitions for the structured artifacts the
// QA agent produces and persists between stages.
//
//nolint:revive // types is a standard Go package name pattern
package types

// TechSpecs holds technical details extracted from a PRD that matter for
// test design.
type TechSpecs struct {
	SystemInteractions     []string `json:"system_interactions"`
	DataModelsOrSchemas    []string `json:"data_models_or_schemas"`
	APIEndpoints           []string `json:"api_endpoints"`
	AuthenticationAndAuthz []string `json:"authentication_and_authorization"`
}

// TestingContext captures the remaining contextual information a test
// planner needs: acceptance criteria, dependencies, risks, and metrics.
type TestingContext struct {
	AcceptanceCriteria       []string `json:"acceptance_criteria"`
	DependenciesIntegrations []string `json:"dependencies_and_integrations"`
	KnownLimitationsOrRisks  []string `json:"known_limitations_or_risks"`
	SuccessMetrics           []string `json:"success_metrics"`
}

// PRDContext is the structured information extracted from one requirements
// document.
type PRDContext struct {
	ProjectName          string         `json:"project_name"`
	TargetFeatureSummary string         `json:"target_feature_summary"`
	CoreUserStories      []string       `json:"core_user_stories"`
	TechSpecs            TechSpecs      `json:"technical_specifications"`
	TestingContext       TestingContext `json:"other_contextual_data"`
}

// ExtractedPRD is the root object written to prd_context.json.
type ExtractedPRD struct {
	PRDContext PRDContext `json:"prd_context"`
}

// Normalize replaces nil list fields with empty slices. Models routinely
// omit lists they have nothing for, and a nil slice marshals as JSON
// null where the artifact schemas expect an array.
func (e *ExtractedPRD) Normalize() {
	c := &e.PRDContext
	c.CoreUserStories = orEmpty(c.CoreUserStories)
	c.TechSpecs.SystemInteractions = orEmpty(c.TechSpecs.SystemInteractions)
	c.TechSpecs.DataModelsOrSchemas = orEmpty(c.TechSpecs.DataModelsOrSchemas)
	c.TechSpecs.APIEndpoints = orEmpty(c.TechSpecs.APIEndpoints)
	c.TechSpecs.AuthenticationAndAuthz = orEmpty(c.TechSpecs.AuthenticationAndAuthz)
	c.TestingContext.AcceptanceCriteria = orEmpty(c.TestingContext.AcceptanceCriteria)
	c.TestingContext.DependenciesIntegrations = orEmpty(c.TestingContext.DependenciesIntegrations)
	c.TestingContext.KnownLimitationsOrRisks = orEmpty(c.TestingContext.KnownLimitationsOrRisks)
	c.TestingContext.SuccessMetrics = orEmpty(c.TestingContext.SuccessMetrics)
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
