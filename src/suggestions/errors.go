package suggestions

import "errors"

var (
	// ErrValidation marks user input that was rejected before any state change.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when no suggestion has the requested id.
	ErrNotFound = errors.New("suggestion not found")
	// ErrAlreadyDecided is returned when deciding a suggestion that is no longer pending.
	ErrAlreadyDecided = errors.New("suggestion already decided")
)
