package projectsys

import (
	"context"
	"errors"
)

// criticalError marks an error the host must never swallow.
type criticalError struct {
	err error
}

func (e *criticalError) Error() string  { return e.err.Error() }
func (e *criticalError) Unwrap() error  { return e.err }
func (e *criticalError) Critical() bool { return true }

// Critical marks err as critical. Critical errors are propagated unchanged by
// every layer that otherwise degrades project-model failures to "absent".
func Critical(err error) error {
	if err == nil {
		return nil
	}
	return &criticalError{err: err}
}

// IsCritical reports whether err must be propagated rather than degraded.
// Context cancellation counts as critical: the host is going away.
func IsCritical(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var c interface{ Critical() bool }
	for e := err; e != nil; e = errors.Unwrap(e) {
		if errors.As(e, &c) && c.Critical() {
			return true
		}
	}
	return false
}
