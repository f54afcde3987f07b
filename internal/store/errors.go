package store

import (
	"errors"
	"fmt"
)

// NotFoundError indicates an artifact lookup miss for a fully specified key.
type NotFoundError struct {
	Session string
	Stage   string
	Kind    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("artifact %s not found for session %s (stage %s)", e.Kind, e.Session, e.Stage)
}

// IsNotFound reports whether err is an artifact lookup miss.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
