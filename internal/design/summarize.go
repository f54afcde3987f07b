package design

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/qa-agent/internal/llm"
	"github.com/jonathan/qa-agent/internal/pipeline"
	"github.com/jonathan/qa-agent/internal/prompts"
	"github.com/jonathan/qa-agent/internal/session"
)

// NoFigmaPlaceholder is stored as the summary when a session has no
// Figma URL. Downstream stages treat it as "plan from the PRD alone".
const NoFigmaPlaceholder = "No Figma data provided"

// FileFetcher fetches a Figma file by key. Satisfied by *Client.
type FileFetcher interface {
	GetFile(ctx context.Context, fileKey string) (*File, error)
}

// Summarizer runs live design summarization: fetch, filter, summarize.
type Summarizer struct {
	figma  FileFetcher
	client llm.Client
}

// NewSummarizer creates the live design-summarization transform.
func NewSummarizer(figma FileFetcher, client llm.Client) *Summarizer {
	return &Summarizer{figma: figma, client: client}
}

func (s *Summarizer) Stage() session.Stage {
	return session.StageDesignSummarization
}

func (s *Summarizer) Run(ctx context.Context, manifest *session.Manifest, _ pipeline.Inputs) (pipeline.Outputs, error) {
	if manifest.FigmaURL == "" {
		return pipeline.Outputs{
			session.KindFigmaSummary: []byte(NoFigmaPlaceholder),
		}, nil
	}

	fileKey, err := ParseFigmaURL(manifest.FigmaURL)
	if err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(s.Stage()),
			Message: "invalid Figma URL",
			Cause:   err,
		}
	}

	file, err := s.figma.GetFile(ctx, fileKey)
	if err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(s.Stage()),
			Message: "failed to fetch Figma file",
			Cause:   err,
		}
	}

	components := FilterComponents(file.Document)
	if len(components) == 0 {
		// Nothing interactive to describe; record that rather than
		// asking the model to summarize an empty list.
		summary := fmt.Sprintf("Figma file %q contains no interactive components or style variants.", file.Name)
		return pipeline.Outputs{
			session.KindFigmaSummary: []byte(summary),
		}, nil
	}

	componentsJSON, err := json.MarshalIndent(components, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Figma components: %w", err)
	}

	template, err := prompts.Get("design.json", "summarize-figma")
	if err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(s.Stage()),
			Message: "failed to load summarization prompt",
			Cause:   err,
		}
	}

	prompt := prompts.Format(template, map[string]string{
		"Components": string(componentsJSON),
	})

	summary, err := s.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(s.Stage()),
			Message: "LLM summarization failed",
			Cause:   err,
		}
	}
	if summary == "" {
		return nil, &pipeline.GenerationError{
			Stage:   string(s.Stage()),
			Message: "LLM returned an empty design summary",
		}
	}

	return pipeline.Outputs{
		session.KindFigmaSummary: []byte(summary),
	}, nil
}
