package action

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two recognized backend failure kinds. Backends
// wrap these so the dispatcher can fold them into a failure result instead
// of propagating them.
var (
	// ErrInvalidArgument marks a backend rejection of a request parameter.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOperation marks a browser operation that was attempted and failed.
	ErrOperation = errors.New("operation failed")
)

// ValidationError reports a required request parameter that was missing or
// empty. It is raised before any backend call is attempted.
type ValidationError struct {
	Param  string
	Action Action
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s parameter is required for %s action", e.Param, e.Action)
}

// UnknownActionError reports an action name outside the fixed vocabulary.
type UnknownActionError struct {
	Action Action
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action: %s", e.Action)
}

// recoverable reports whether an error should be converted into a failure
// result at the dispatcher boundary. Everything else propagates to the
// caller unchanged.
func recoverable(err error) bool {
	var ve *ValidationError
	var ue *UnknownActionError
	if errors.As(err, &ve) || errors.As(err, &ue) {
		return true
	}
	return errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrOperation)
}
