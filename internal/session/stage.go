package session

// Stage names one transformation step of the pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StageContextExtraction      Stage = "context_extraction"
	StageDesignSummarization    Stage = "design_summarization"
	StagePlanGeneration         Stage = "plan_generation"
	StageDetailedTestGeneration Stage = "detailed_test_generation"
	StageRendering              Stage = "rendering"
)

// Artifact kinds. The kind is also the filename inside the session
// directory, so the layout stays readable for external review.
const (
	KindPRDContext   = "prd_context.json"
	KindFigmaSummary = "figma_summary.txt"
	KindTestPlan     = "test_plan.json"
	KindTestPlanMD   = "test_plan.md"
	KindTestSuite    = "test_suite.json"
	KindTestSuiteMD  = "test_suite.md"
)

// stageOrder is the canonical sequence; each stage may only run after every
// earlier stage has completed.
var stageOrder = []Stage{
	StageContextExtraction,
	StageDesignSummarization,
	StagePlanGeneration,
	StageDetailedTestGeneration,
	StageRendering,
}

// stageOutputs maps each stage to the artifact kinds it produces.
var stageOutputs = map[Stage][]string{
	StageContextExtraction:      {KindPRDContext},
	StageDesignSummarization:    {KindFigmaSummary},
	StagePlanGeneration:         {KindTestPlan},
	StageDetailedTestGeneration: {KindTestSuite},
	StageRendering:              {KindTestPlanMD, KindTestSuiteMD},
}

// stageInputs maps each stage to the upstream artifact kinds it consumes.
// Context extraction and design summarization read their raw inputs (the
// document and the Figma URL) from the session manifest, not the store.
var stageInputs = map[Stage][]string{
	StageContextExtraction:      {},
	StageDesignSummarization:    {},
	StagePlanGeneration:         {KindPRDContext, KindFigmaSummary},
	StageDetailedTestGeneration: {KindTestPlan, KindFigmaSummary},
	StageRendering:              {KindTestPlan, KindTestSuite},
}

// StageOrder returns the pipeline stages in execution order.
func StageOrder() []Stage {
	order := make([]Stage, len(stageOrder))
	copy(order, stageOrder)
	return order
}

// StageOutputs returns the artifact kinds a stage produces.
func StageOutputs(stage Stage) []string {
	return stageOutputs[stage]
}

// StageInputs returns the artifact kinds a stage reads from the store.
func StageInputs(stage Stage) []string {
	return stageInputs[stage]
}

// TerminalStage returns the last stage of a normal run.
func TerminalStage() Stage {
	return stageOrder[len(stageOrder)-1]
}

// StageIndex returns a stage's position in the pipeline, or -1 for an
// unknown stage.
func StageIndex(stage Stage) int {
	for i, s := range stageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}
