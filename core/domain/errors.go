package domain

import "errors"

// Sentinel errors shared by the core services. Adapters map these onto the
// transport error envelope; the persistence layer never returns them.
var (
	// ErrNotFound: the entity does not exist (or is invisible to the actor).
	ErrNotFound = errors.New("not found")
	// ErrNoAccess: the actor holds no role on the todolist.
	ErrNoAccess = errors.New("no access to todolist")
	// ErrForbidden: the actor's role lacks the required capability.
	ErrForbidden = errors.New("operation not permitted for role")
	// ErrLimitExceeded: a count or depth quota would be breached.
	ErrLimitExceeded = errors.New("role limit exceeded")
	// ErrDescendantsNotDone: status=done requested while descendants are incomplete.
	ErrDescendantsNotDone = errors.New("descendants not done")
	// ErrNotPossible: the reparent precheck rejected the move.
	ErrNotPossible = errors.New("reparent not possible")
	// ErrValidation: malformed or missing input, rejected before any mutation.
	ErrValidation = errors.New("validation failed")
)
