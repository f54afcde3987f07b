package pipeline

import "fmt"

// MissingDependencyError indicates a stage was asked to run before an
// artifact it depends on exists. The orchestrator raises it without
// invoking the transform, so no partial output is written.
type MissingDependencyError struct {
	SessionID string
	Stage     string
	Kind      string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("session %s: stage %s requires artifact %s which does not exist", e.SessionID, e.Stage, e.Kind)
}

// GenerationError wraps a failure inside a stage transform: an LLM call,
// a fetch, or output that failed schema validation.
type GenerationError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("stage %s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("stage %s: %s", e.Stage, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// SessionBusyError indicates another operation currently holds the
// session. Callers should retry once the running operation finishes.
type SessionBusyError struct {
	SessionID string
}

func (e *SessionBusyError) Error() string {
	return fmt.Sprintf("session %s is busy: another operation is in progress", e.SessionID)
}

// PolicyError indicates an operation was invoked on a session whose
// policy does not permit it.
type PolicyError struct {
	SessionID string
	Policy    string
	Operation string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("session %s: operation %q is not allowed under policy %q", e.SessionID, e.Operation, e.Policy)
}
