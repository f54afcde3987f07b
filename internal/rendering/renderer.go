package rendering

import (
	"context"
	"encoding/json"

	"github.com/jonathan/qa-agent/internal/pipeline"
	"github.com/jonathan/qa-agent/internal/session"
	"github.com/jonathan/qa-agent/internal/types"
)

// Renderer is the rendering stage transform. It is deterministic and
// needs no external services, so live and demo share this implementation.
type Renderer struct{}

// NewRenderer creates the markdown rendering transform.
func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Stage() session.Stage {
	return session.StageRendering
}

func (r *Renderer) Run(_ context.Context, _ *session.Manifest, in pipeline.Inputs) (pipeline.Outputs, error) {
	var plan types.TestPlanDocument
	if err := json.Unmarshal(in[session.KindTestPlan], &plan); err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(r.Stage()),
			Message: "failed to parse test plan artifact",
			Cause:   err,
		}
	}

	var suite types.TestSuite
	if err := json.Unmarshal(in[session.KindTestSuite], &suite); err != nil {
		return nil, &pipeline.GenerationError{
			Stage:   string(r.Stage()),
			Message: "failed to parse test suite artifact",
			Cause:   err,
		}
	}

	return pipeline.Outputs{
		session.KindTestPlanMD:  []byte(RenderTestPlan(&plan)),
		session.KindTestSuiteMD: []byte(RenderTestSuite(&suite)),
	}, nil
}
