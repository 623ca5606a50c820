package tabstack

import (
	"time"

	"github.com/notcome/lmtabstack/internal/ids"
)

// Run describes one transition instance to observers.
type Run struct {
	ID          string
	Interactive bool
	// Identity is set when no definition was found or construction failed.
	Identity bool
	Source   ids.PageID
	Target   ids.PageID
	Pages    []ids.PageID
	Token    int
	Duration time.Duration
	// Removed lists pages destroyed at cleanup. Only set on finish.
	Removed []ids.PageID
}

// Kind is a short label for logs and the journal.
func (r Run) Kind() string {
	switch {
	case r.Interactive:
		return "interactive"
	case r.Identity:
		return "identity"
	}
	return "automatic"
}

// Observer is told about transition milestones. Callbacks run inside the
// coordinator and must not call back into it.
type Observer interface {
	TransitionResolved(r Run)
	TransitionCommitted(r Run)
	TransitionFinished(r Run)
}

// RemovalObserver is an optional extension for observers that hold per-page
// resources, such as animation state keyed by page.
type RemovalObserver interface {
	PagesRemoved(pages []ids.PageID)
}

// ObserverFuncs adapts functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Resolved  func(Run)
	Committed func(Run)
	Finished  func(Run)
}

func (o ObserverFuncs) TransitionResolved(r Run) {
	if o.Resolved != nil {
		o.Resolved(r)
	}
}

func (o ObserverFuncs) TransitionCommitted(r Run) {
	if o.Committed != nil {
		o.Committed(r)
	}
}

func (o ObserverFuncs) TransitionFinished(r Run) {
	if o.Finished != nil {
		o.Finished(r)
	}
}
