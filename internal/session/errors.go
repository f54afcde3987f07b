package session

import "fmt"

// StagePrerequisiteError indicates an operation was invoked before the
// session reached the stage it depends on.
type StagePrerequisiteError struct {
	SessionID string
	Required  Stage
}

func (e *StagePrerequisiteError) Error() string {
	return fmt.Sprintf("session %s has not reached stage %s", e.SessionID, e.Required)
}
