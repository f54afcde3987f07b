package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/qa-agent/internal/schemas"
	"github.com/jonathan/qa-agent/internal/session"
	"github.com/jonathan/qa-agent/internal/store"
)

// Orchestrator advances sessions through the stage sequence. It holds no
// per-session state beyond an in-process busy guard: progression is
// always derived from the persisted manifest's stage records, so a fresh
// process resumes any session from its identifier alone.
type Orchestrator struct {
	store        *store.Store
	transforms   map[session.Stage]Transform
	stageTimeout time.Duration

	mu   sync.Mutex
	busy map[string]bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStageTimeout bounds each stage run. Zero disables the bound.
func WithStageTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.stageTimeout = d
	}
}

// NewOrchestrator wires a transform set against a store. Every pipeline
// stage must be covered exactly once.
func NewOrchestrator(st *store.Store, transforms []Transform, opts ...Option) (*Orchestrator, error) {
	byStage := make(map[session.Stage]Transform, len(transforms))
	for _, tr := range transforms {
		stage := tr.Stage()
		if session.StageIndex(stage) < 0 {
			return nil, fmt.Errorf("transform targets unknown stage %q", stage)
		}
		if _, dup := byStage[stage]; dup {
			return nil, fmt.Errorf("duplicate transform for stage %q", stage)
		}
		byStage[stage] = tr
	}
	for _, stage := range session.StageOrder() {
		if _, ok := byStage[stage]; !ok {
			return nil, fmt.Errorf("no transform registered for stage %q", stage)
		}
	}

	o := &Orchestrator{
		store:      st,
		transforms: byStage,
		busy:       make(map[string]bool),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Result describes the outcome of one advancement.
type Result struct {
	SessionID string
	Stage     session.Stage
	Artifacts []string
	Done      bool
}

// acquire takes the per-session busy slot or reports SessionBusyError.
func (o *Orchestrator) acquire(sessionID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy[sessionID] {
		return &SessionBusyError{SessionID: sessionID}
	}
	o.busy[sessionID] = true
	return nil
}

func (o *Orchestrator) release(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.busy, sessionID)
}

// nextStage returns the first stage the manifest has not recorded as
// completed, or false when every stage has finished. A completed stage
// is never revisited, even if a caller removed its artifacts; the input
// check in runStage reports the gap instead.
func nextStage(manifest *session.Manifest) (session.Stage, bool) {
	for _, stage := range session.StageOrder() {
		rec := manifest.Record(stage)
		if rec == nil || rec.Status != session.StatusCompleted {
			return stage, true
		}
	}
	return "", false
}

// Advance runs the next pending stage of a supervised session. Calling
// it on a finished session is not an error; it reports Done. Trust
// sessions reject Advance so the two policies cannot be mixed.
func (o *Orchestrator) Advance(ctx context.Context, sessionID string) (*Result, error) {
	if err := o.acquire(sessionID); err != nil {
		return nil, err
	}
	defer o.release(sessionID)

	manifest, err := session.Load(o.store, sessionID)
	if err != nil {
		return nil, err
	}
	if manifest.Policy != session.PolicySupervised {
		return nil, &PolicyError{
			SessionID: sessionID,
			Policy:    string(manifest.Policy),
			Operation: "advance",
		}
	}

	stage, ok := nextStage(manifest)
	if !ok {
		return &Result{SessionID: sessionID, Done: true}, nil
	}

	return o.runStage(ctx, manifest, stage)
}

// RunToCompletion executes every remaining stage of a trust session,
// stopping at the first failure. Completed results are returned
// alongside the error so callers can report partial progress.
func (o *Orchestrator) RunToCompletion(ctx context.Context, sessionID string) ([]Result, error) {
	if err := o.acquire(sessionID); err != nil {
		return nil, err
	}
	defer o.release(sessionID)

	manifest, err := session.Load(o.store, sessionID)
	if err != nil {
		return nil, err
	}
	if manifest.Policy != session.PolicyTrust {
		return nil, &PolicyError{
			SessionID: sessionID,
			Policy:    string(manifest.Policy),
			Operation: "run",
		}
	}

	var results []Result
	for {
		stage, ok := nextStage(manifest)
		if !ok {
			return results, nil
		}
		res, err := o.runStage(ctx, manifest, stage)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
}

// runStage executes one stage: gather inputs, run the transform,
// validate and persist outputs, update the manifest. Callers hold the
// session's busy slot.
func (o *Orchestrator) runStage(ctx context.Context, manifest *session.Manifest, stage session.Stage) (*Result, error) {
	inputs := make(Inputs)
	for _, kind := range session.StageInputs(stage) {
		content, err := o.store.Get(manifest.ID, string(stage), kind)
		if err != nil {
			if store.IsNotFound(err) {
				return nil, &MissingDependencyError{
					SessionID: manifest.ID,
					Stage:     string(stage),
					Kind:      kind,
				}
			}
			return nil, err
		}
		inputs[kind] = content
	}

	runCtx := ctx
	if o.stageTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.stageTimeout)
		defer cancel()
	}

	outputs, err := o.transforms[stage].Run(runCtx, manifest, inputs)
	if err != nil {
		var genErr *GenerationError
		if o.stageTimeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) && !errors.As(err, &genErr) {
			err = &GenerationError{
				Stage:   string(stage),
				Message: fmt.Sprintf("stage did not finish within %s", o.stageTimeout),
				Cause:   err,
			}
		}
		return nil, o.failStage(manifest, stage, err)
	}

	kinds := session.StageOutputs(stage)
	for _, kind := range kinds {
		content, ok := outputs[kind]
		if !ok {
			err := &GenerationError{
				Stage:   string(stage),
				Message: fmt.Sprintf("transform produced no %s artifact", kind),
			}
			return nil, o.failStage(manifest, stage, err)
		}
		if err := schemas.ValidateArtifact(kind, content); err != nil {
			genErr := &GenerationError{
				Stage:   string(stage),
				Message: fmt.Sprintf("artifact %s failed schema validation", kind),
				Cause:   err,
			}
			return nil, o.failStage(manifest, stage, genErr)
		}
	}

	for _, kind := range kinds {
		if err := o.store.Put(manifest.ID, string(stage), kind, outputs[kind]); err != nil {
			return nil, o.failStage(manifest, stage, err)
		}
	}

	manifest.MarkCompleted(stage, kinds)
	if err := manifest.Save(o.store); err != nil {
		return nil, err
	}

	_, more := nextStage(manifest)
	return &Result{
		SessionID: manifest.ID,
		Stage:     stage,
		Artifacts: kinds,
		Done:      !more,
	}, nil
}

// failStage records the failure in the manifest and returns the original
// error. Manifest persistence is best effort here; the run error is the
// one the caller needs.
func (o *Orchestrator) failStage(manifest *session.Manifest, stage session.Stage, runErr error) error {
	manifest.MarkFailed(stage, runErr)
	_ = manifest.Save(o.store)
	return runErr
}
