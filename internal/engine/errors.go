package engine

import (
	errs "errors"
)

var (
	// ErrNotFound means no entity exists for the given id.
	ErrNotFound = errs.New("not found")

	// ErrPermissionDenied means the requester is authenticated but does
	// not own the entity it is trying to mutate.
	ErrPermissionDenied = errs.New("permission denied")

	// ErrUnauthenticated means no identity could be resolved at all.
	ErrUnauthenticated = errs.New("authentication required")
)

// ValidationError reports a structurally malformed payload.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "invalid payload: " + e.Reason
}
