package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/qa-agent/internal/llm"
	"github.com/jonathan/qa-agent/internal/pipeline"
	"github.com/jonathan/qa-agent/internal/prompts"
	"github.com/jonathan/qa-agent/internal/session"
	"github.com/jonathan/qa-agent/internal/types"
)

// Extractor runs PRD context extraction against the LLM.
type Extractor struct {
	client llm.Client
	reader DocumentReader
}

// NewExtractor creates the live context-extraction transform.
func NewExtractor(client llm.Client, reader DocumentReader) *Extractor {
	return &Extractor{client: client, reader: reader}
}

func (e *Extractor) Stage() session.Stage {
	return session.StageContextExtraction
}

// Run reads the PRD named by the manifest, prompts the model for
// structured context, and returns the prd_context.json artifact.
func (e *Extractor) Run(ctx context.Context, manifest *session.Manifest, _ pipeline.Inputs) (pipeline.Outputs, error) {
	content, err := e.reader.Read(manifest.PRDPath)
	if err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(e.Stage()),
			Message: "failed to read PRD document",
			Cause:   err,
		}
	}

	template, err := prompts.Get("extraction.json", "extract-prd-context")
	if err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(e.Stage()),
			Message: "failed to load extraction prompt",
			Cause:   err,
		}
	}

	prompt := prompts.Format(template, map[string]string{
		"PRDContent": content,
	})

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(e.Stage()),
			Message: "LLM extraction failed",
			Cause:   err,
		}
	}

	// Round-trip through the typed document so the stored artifact has a
	// stable field set even when the model adds extras.
	var extracted types.ExtractedPRD
	if err := json.Unmarshal([]byte(raw), &extracted); err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(e.Stage()),
			Message: "LLM returned malformed PRD context JSON",
			Cause:   err,
		}
	}
	if extracted.PRDContext.ProjectName == "" {
		return nil, &pipeline.GenerationError{
			Stage:   string(e.Stage()),
			Message: "extracted PRD context is missing project_name",
		}
	}

	extracted.Normalize()
	artifact, err := json.MarshalIndent(extracted, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PRD context: %w", err)
	}

	return pipeline.Outputs{
		session.KindPRDContext: artifact,
	}, nil
}
