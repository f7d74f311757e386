package monitor

import "errors"

// Sentinel errors returned by Monitor operations. Callers compare with
// errors.Is; wrapping (fmt.Errorf("...: %w", err)) is the caller's choice.
var (
	// ErrInvalidArgument is returned for a non-positive capacity passed to
	// New or a nil target passed to Snapshot. A zero-length (non-nil)
	// target is not an error: Snapshot returns 0.
	ErrInvalidArgument = errors.New("monitor: invalid argument")

	// ErrAlreadyExists reports a double create. New never returns it: each
	// call constructs a fresh Monitor, so New has no double-create guard;
	// a caller that keeps a single shared handle returns it itself.
	ErrAlreadyExists = errors.New("monitor: already exists")

	// ErrNotInitialized is returned when an operation is attempted before
	// New or after Close.
	ErrNotInitialized = errors.New("monitor: not initialized")

	// ErrOutOfMemory is returned when the ring's backing storage cannot be
	// allocated.
	ErrOutOfMemory = errors.New("monitor: out of memory")

	// ErrPrimitiveInitFailed is returned when a synchronization primitive
	// cannot be constructed. Go's sync.Mutex and sync.Cond never fail to
	// construct, so no operation of this package returns it; it is kept
	// as a distinct sentinel so callers written against
	// the full error-kind taxonomy of the spec still compile and behave.
	ErrPrimitiveInitFailed = errors.New("monitor: synchronization primitive init failed")
)
