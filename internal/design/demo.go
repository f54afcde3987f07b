package design

import (
	"context"

	"github.com/jonathan/qa-agent/internal/pipeline"
	"github.com/jonathan/qa-agent/internal/session"
)

const demoSummary = `The login screen shows an email field, a password field with a
visibility toggle, and a primary "Sign in" button that stays disabled until both
fields are filled. A "Forgot password?" link below the button navigates to a reset
screen with a single email field and a "Send reset link" button. Error states render
inline beneath the relevant field in the destructive color variant.`

// DemoSummarizer returns a canned design summary without touching the
// Figma API. Sessions with no Figma URL still get the placeholder so
// demo and live behave the same on that edge.
type DemoSummarizer struct{}

// NewDemoSummarizer creates the offline design-summarization transform.
func NewDemoSummarizer() *DemoSummarizer {
	return &DemoSummarizer{}
}

func (s *DemoSummarizer) Stage() session.Stage {
	return session.StageDesignSummarization
}

func (s *DemoSummarizer) Run(_ context.Context, manifest *session.Manifest, _ pipeline.Inputs) (pipeline.Outputs, error) {
	if manifest.FigmaURL == "" {
		return pipeline.Outputs{
			session.KindFigmaSummary: []byte(NoFigmaPlaceholder),
		}, nil
	}

	return pipeline.Outputs{
		session.KindFigmaSummary: []byte(demoSummary),
	}, nil
}
