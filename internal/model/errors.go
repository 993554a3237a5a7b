package model

import "errors"

// Domain error taxonomy. Services wrap these with fmt.Errorf("...: %w", ...)
// and handlers translate them with errors.Is. Session and ledger operations
// are never retried internally; a failed write leaves state unchanged.
var (
	// ErrNotFound is returned when a session, entry, operator or part does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrSessionConflict is returned by Start when an active session already
	// exists for the (operator, part) pair. The caller decides whether to
	// wait or inspect the existing session; it is never silently merged.
	ErrSessionConflict = errors.New("active work session already exists")

	// ErrSessionClosed is returned when mutating or ending a session that has
	// already been ended. A closed session is an immutable historical record.
	ErrSessionClosed = errors.New("work session already ended")

	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("invalid input")

	// ErrUpstreamUnavailable wraps task service client failures. Cached task
	// data remains usable while upstream is down.
	ErrUpstreamUnavailable = errors.New("task service unavailable")
)
