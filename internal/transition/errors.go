package transition

import "errors"

var (
	// ErrMissingElement reports that a definition needed geometry that was
	// never measured. It is recoverable: the engine falls back to Identity.
	ErrMissingElement = errors.New("transition: missing reference element")

	// ErrInvariant reports a programming error in a collaborator, such as
	// mutating a completed interactive transition or scoping to a page that
	// is not part of the transition.
	ErrInvariant = errors.New("transition: invariant violated")
)
