// Package planning implements the plan-generation and detailed-test
// stages: a prioritized high-level test plan from the PRD context and
// design summary, then granular manual steps for each case.
package planning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/qa-agent/internal/design"
	"github.com/jonathan/qa-agent/internal/llm"
	"github.com/jonathan/qa-agent/internal/pipeline"
	"github.com/jonathan/qa-agent/internal/prompts"
	"github.com/jonathan/qa-agent/internal/session"
	"github.com/jonathan/qa-agent/internal/types"
)

// Planner generates the high-level test plan with the LLM.
type Planner struct {
	client llm.Client
}

// NewPlanner creates the live plan-generation transform.
func NewPlanner(client llm.Client) *Planner {
	return &Planner{client: client}
}

func (p *Planner) Stage() session.Stage {
	return session.StagePlanGeneration
}

func (p *Planner) Run(ctx context.Context, _ *session.Manifest, in pipeline.Inputs) (pipeline.Outputs, error) {
	var extracted types.ExtractedPRD
	if err := json.Unmarshal(in[session.KindPRDContext], &extracted); err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(p.Stage()),
			Message: "failed to parse PRD context artifact",
			Cause:   err,
		}
	}

	prompt, err := buildPlanPrompt(extracted.PRDContext, string(in[session.KindFigmaSummary]))
	if err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(p.Stage()),
			Message: "failed to build plan prompt",
			Cause:   err,
		}
	}

	raw, err := p.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(p.Stage()),
			Message: "LLM plan generation failed",
			Cause:   err,
		}
	}

	var doc types.TestPlanDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(p.Stage()),
			Message: "LLM returned malformed test plan JSON",
			Cause:   err,
		}
	}
	if doc.TestPlan.CaseCount() == 0 {
		return nil, &pipeline.GenerationError{
			Stage:   string(p.Stage()),
			Message: "generated test plan contains no test cases",
		}
	}

	doc.Normalize()
	artifact, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal test plan: %w", err)
	}

	return pipeline.Outputs{
		session.KindTestPlan: artifact,
	}, nil
}

// buildPlanPrompt fills the plan template from the extracted context.
// A missing design summary falls back to the placeholder text so the
// prompt never contains an empty section.
func buildPlanPrompt(prd types.PRDContext, figmaSummary string) (string, error) {
	template, err := prompts.Get("planning.json", "generate-test-plan")
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(figmaSummary) == "" {
		figmaSummary = design.NoFigmaPlaceholder
	}

	techSpecs, err := json.MarshalIndent(prd.TechSpecs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal technical specifications: %w", err)
	}

	notes, err := json.MarshalIndent(prd.TestingContext, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal testing context: %w", err)
	}

	return prompts.Format(template, map[string]string{
		"ProjectName":     prd.ProjectName,
		"TargetFeature":   prd.TargetFeatureSummary,
		"UserStories":     bulleted(prd.CoreUserStories),
		"TechSpecs":       string(techSpecs),
		"FigmaSummary":    figmaSummary,
		"AdditionalNotes": string(notes),
	}), nil
}

func bulleted(items []string) string {
	if len(items) == 0 {
		return "(none provided)"
	}
	return "- " + strings.Join(items, "\n- ")
}
