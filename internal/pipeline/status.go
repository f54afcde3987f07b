package pipeline

import (
	"github.com/jonathan/qa-agent/internal/session"
)

// StageStatus reports one stage's progress, derived from the manifest
// record, which is attached for error detail.
type StageStatus struct {
	Stage     session.Stage
	Completed bool
	Record    *session.StageRecord
}

// SessionStatus is a point-in-time view of a session.
type SessionStatus struct {
	Manifest  *session.Manifest
	Stages    []StageStatus
	NextStage session.Stage
	Done      bool
}

// Status inspects a session without advancing it. It never takes the
// busy slot, so it works while a stage is running.
func (o *Orchestrator) Status(sessionID string) (*SessionStatus, error) {
	manifest, err := session.Load(o.store, sessionID)
	if err != nil {
		return nil, err
	}

	status := &SessionStatus{Manifest: manifest}
	for _, stage := range session.StageOrder() {
		rec := manifest.Record(stage)
		status.Stages = append(status.Stages, StageStatus{
			Stage:     stage,
			Completed: rec != nil && rec.Status == session.StatusCompleted,
			Record:    rec,
		})
	}

	next, more := nextStage(manifest)
	status.NextStage = next
	status.Done = !more
	return status, nil
}
