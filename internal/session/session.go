// Package session defines the resumable unit of work: the stage sequence,
// the per-session manifest, and the execution policy fixed at creation.
package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/qa-agent/internal/store"
)

// ManifestKind is the store kind under which the session manifest lives.
const ManifestKind = "session.json"

// manifestStage is the pseudo-stage used as the manifest's store key.
const manifestStage = "session"

// Policy is the execution policy for a session, fixed at creation time.
type Policy string

// Execution policies.
const (
	// PolicyTrust runs the whole chain unattended.
	PolicyTrust Policy = "trust"
	// PolicySupervised pauses after every stage for external review.
	PolicySupervised Policy = "supervised"
)

// ParsePolicy validates a policy string from config or flags.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyTrust, PolicySupervised:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown execution policy %q (want %q or %q)", s, PolicyTrust, PolicySupervised)
	}
}

// Status is the lifecycle status of one stage run.
type Status string

// Stage statuses. Failed is terminal for a run but the stage stays
// re-runnable.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// StageRecord tracks one stage's outcome within a session.
type StageRecord struct {
	Stage       Stage     `json:"stage"`
	Status      Status    `json:"status"`
	Artifacts   []string  `json:"artifacts,omitempty"`
	Error       string    `json:"error,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// Manifest is the persisted session state. The stage records are the
// source of truth for progression: a stage runs once its predecessors
// carry completed records, regardless of what else is on disk.
type Manifest struct {
	ID           string        `json:"session_id"`
	CreatedAt    time.Time     `json:"created_at"`
	Policy       Policy        `json:"policy"`
	PRDPath      string        `json:"prd_path"`
	FigmaURL     string        `json:"figma_url,omitempty"`
	MaxTestCases int           `json:"max_test_cases,omitempty"`
	Stages       []StageRecord `json:"stages,omitempty"`
}

// New creates a manifest for a fresh document + design-reference pair. The
// identifier is a short uuid prefix, unique enough per store root and safe
// as a directory name.
func New(prdPath, figmaURL string, policy Policy) *Manifest {
	return &Manifest{
		ID:        uuid.NewString()[:8],
		CreatedAt: time.Now().UTC(),
		Policy:    policy,
		PRDPath:   prdPath,
		FigmaURL:  figmaURL,
	}
}

// Record returns the record for a stage, or nil if the stage has not been
// attempted.
func (m *Manifest) Record(stage Stage) *StageRecord {
	for i := range m.Stages {
		if m.Stages[i].Stage == stage {
			return &m.Stages[i]
		}
	}
	return nil
}

// upsert replaces or appends the record for a stage.
func (m *Manifest) upsert(rec StageRecord) {
	for i := range m.Stages {
		if m.Stages[i].Stage == rec.Stage {
			m.Stages[i] = rec
			return
		}
	}
	m.Stages = append(m.Stages, rec)
}

// MarkCompleted records a successful stage run and its output artifacts.
func (m *Manifest) MarkCompleted(stage Stage, artifacts []string) {
	m.upsert(StageRecord{
		Stage:       stage,
		Status:      StatusCompleted,
		Artifacts:   artifacts,
		CompletedAt: time.Now().UTC(),
	})
}

// MarkFailed records a failed stage run with its error detail. The stage
// does not advance; a retry overwrites this record.
func (m *Manifest) MarkFailed(stage Stage, runErr error) {
	m.upsert(StageRecord{
		Stage:  stage,
		Status: StatusFailed,
		Error:  runErr.Error(),
	})
}

// CompletedStages returns the completed stages in pipeline order.
func (m *Manifest) CompletedStages() []Stage {
	var completed []Stage
	for _, stage := range stageOrder {
		if rec := m.Record(stage); rec != nil && rec.Status == StatusCompleted {
			completed = append(completed, stage)
		}
	}
	return completed
}

// Save persists the manifest through the store.
func (m *Manifest) Save(st *store.Store) error {
	content, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session manifest: %w", err)
	}
	return st.Put(m.ID, manifestStage, ManifestKind, content)
}

// Load reads a session manifest from the store.
func Load(st *store.Store, sessionID string) (*Manifest, error) {
	content, err := st.Get(sessionID, manifestStage, ManifestKind)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("failed to parse session manifest for %s: %w", sessionID, err)
	}
	return &m, nil
}
