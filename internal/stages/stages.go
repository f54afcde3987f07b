// Package stages assembles the transform set for a resolved capability.
package stages

import (
	"fmt"

	"github.com/jonathan/qa-agent/internal/design"
	"github.com/jonathan/qa-agent/internal/extraction"
	"github.com/jonathan/qa-agent/internal/llm"
	"github.com/jonathan/qa-agent/internal/pipeline"
	"github.com/jonathan/qa-agent/internal/planning"
	"github.com/jonathan/qa-agent/internal/rendering"
)

// Deps carries the external clients live transforms need. Demo mode
// ignores them.
type Deps struct {
	LLM   llm.Client
	Figma design.FileFetcher
}

// ForCapability returns the full transform set for one capability.
// Rendering is deterministic and shared by both.
func ForCapability(cap pipeline.Capability, deps Deps) ([]pipeline.Transform, error) {
	switch cap {
	case pipeline.CapabilityLive:
		if deps.LLM == nil {
			return nil, fmt.Errorf("live capability requires an LLM client")
		}
		if deps.Figma == nil {
			return nil, fmt.Errorf("live capability requires a Figma client")
		}
		return []pipeline.Transform{
			extraction.NewExtractor(deps.LLM, extraction.NewTextReader()),
			design.NewSummarizer(deps.Figma, deps.LLM),
			planning.NewPlanner(deps.LLM),
			planning.NewDetailer(deps.LLM),
			rendering.NewRenderer(),
		}, nil
	case pipeline.CapabilityDemo:
		return []pipeline.Transform{
			extraction.NewDemoExtractor(),
			design.NewDemoSummarizer(),
			planning.NewDemoPlanner(),
			planning.NewDemoDetailer(),
			rendering.NewRenderer(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown capability %q", cap)
	}
}
