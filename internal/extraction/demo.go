package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/qa-agent/internal/pipeline"
	"github.com/jonathan/qa-agent/internal/session"
	"github.com/jonathan/qa-agent/internal/types"
)

// DemoExtractor produces a canned PRD context without network access.
// Output is deterministic so demo sessions are reproducible.
type DemoExtractor struct{}

// NewDemoExtractor creates the offline context-extraction transform.
func NewDemoExtractor() *DemoExtractor {
	return &DemoExtractor{}
}

func (e *DemoExtractor) Stage() session.Stage {
	return session.StageContextExtraction
}

func (e *DemoExtractor) Run(_ context.Context, _ *session.Manifest, _ pipeline.Inputs) (pipeline.Outputs, error) {
	extracted := types.ExtractedPRD{
		PRDContext: types.PRDContext{
			ProjectName:          "Demo Project",
			TargetFeatureSummary: "User login with email and password, including password reset.",
			CoreUserStories: []string{
				"As a registered user, I can log in with my email and password.",
				"As a user who forgot my password, I can request a reset link by email.",
			},
			TechSpecs: types.TechSpecs{
				SystemInteractions:  []string{"Auth service validates credentials and issues a session token."},
				DataModelsOrSchemas: []string{"User(email, password_hash, last_login_at)"},
				APIEndpoints:        []string{"POST /api/v1/login", "POST /api/v1/password-reset"},
				AuthenticationAndAuthz: []string{
					"Sessions expire after 24 hours of inactivity.",
				},
			},
			TestingContext: types.TestingContext{
				AcceptanceCriteria: []string{
					"Valid credentials land the user on the dashboard.",
					"Invalid credentials show an inline error without revealing which field was wrong.",
				},
				DependenciesIntegrations: []string{"Transactional email provider for reset links."},
				KnownLimitationsOrRisks:  []string{"Rate limiting is not yet implemented on the login endpoint."},
				SuccessMetrics:           []string{"Login success rate above 98%."},
			},
		},
	}

	artifact, err := json.MarshalIndent(extracted, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal demo PRD context: %w", err)
	}

	return pipeline.Outputs{
		session.KindPRDContext: artifact,
	}, nil
}
