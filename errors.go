package elisa

import "errors"

// Errors returned by the registry. All of them are local and recoverable;
// callers match them with errors.Is since most are wrapped with context.
var (
	// ErrInvalidArgument reports a missing or empty required input.
	ErrInvalidArgument = errors.New("elisa: invalid argument")
	// ErrDuplicateComponent reports an attach of an id or type already present.
	ErrDuplicateComponent = errors.New("elisa: duplicate component")
	// ErrNotFound reports a lookup by id or type that found nothing.
	ErrNotFound = errors.New("elisa: not found")
	// ErrIndexOutOfRange reports a positional lookup beyond the component count.
	ErrIndexOutOfRange = errors.New("elisa: index out of range")

	ErrDuplicateEntity   = errors.New("elisa: duplicate entity")
	ErrDuplicateResource = errors.New("elisa: duplicate resource")
	ErrTickInProgress    = errors.New("elisa: tick in progress")
	ErrNotBound          = errors.New("elisa: system not bound to a world")
	ErrHandlerPanic      = errors.New("elisa: message handler panicked")
	ErrInvalidConfig     = errors.New("elisa: invalid config")
)
