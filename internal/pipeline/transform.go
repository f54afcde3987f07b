// Package pipeline defines the stage transform contract and the orchestrator
// that advances QA sessions through it.
package pipeline

import (
	"context"

	"github.com/jonathan/qa-agent/internal/session"
)

// Capability selects between live generation and canned demo output.
// It is resolved once at startup from credential presence and injected
// into the stage constructors; transforms never read the environment.
type Capability string

const (
	// CapabilityLive calls external services (Gemini, Figma).
	CapabilityLive Capability = "live"
	// CapabilityDemo produces deterministic canned artifacts offline.
	CapabilityDemo Capability = "demo"
)

// ResolveCapability picks the capability from the supplied credentials.
// Live mode needs both a Gemini key and a Figma token; anything less
// degrades the whole pipeline to demo mode so stages stay consistent.
func ResolveCapability(geminiKey, figmaToken string) Capability {
	if geminiKey != "" && figmaToken != "" {
		return CapabilityLive
	}
	return CapabilityDemo
}

// Inputs holds the artifacts a stage reads, keyed by artifact kind.
type Inputs map[string][]byte

// Outputs holds the artifacts a stage produces, keyed by artifact kind.
type Outputs map[string][]byte

// Transform is a single pipeline stage. Implementations are stateless
// with respect to sessions: everything they need arrives via the
// manifest and the input artifacts, and everything they produce is
// returned for the orchestrator to persist.
type Transform interface {
	// Stage identifies which pipeline stage this transform implements.
	Stage() session.Stage

	// Run executes the stage. The returned outputs must cover every
	// kind listed for the stage; a failed run returns a nil map.
	Run(ctx context.Context, manifest *session.Manifest, in Inputs) (Outputs, error)
}
