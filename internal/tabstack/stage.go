package tabstack

import (
	"time"

	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/layout"
	"github.com/notcome/lmtabstack/internal/page"
	"github.com/notcome/lmtabstack/internal/transition"
)

// StageKind is the position of the single transition slot.
type StageKind int

const (
	StageNone StageKind = iota
	StageUnresolved
	StageResolved
)

func (k StageKind) String() string {
	switch k {
	case StageUnresolved:
		return "unresolved"
	case StageResolved:
		return "resolved"
	}
	return "none"
}

// Provider supplies an interactive transition once the transitioning pages
// have been measured. Returning nil falls back to the identity transition.
type Provider func(ctx *transition.Context) *transition.Interactive

// stage is the active transition. There is at most one.
type stage struct {
	kind      StageKind
	target    layout.Snapshot
	pending   *layout.Snapshot
	behaviors map[ids.PageID]page.Behavior

	// provide is non-nil for interactive transitions. Mutations that arrive
	// before resolution wait in queued.
	provide     Provider
	queued      []func(*transition.Interactive)
	interactive *transition.Interactive

	definition transition.Definition
	progress   transition.Progress
	morphing   []transition.MorphingView

	// committed is the last token every transitioning page confirmed.
	committed int
	duration  time.Duration
	run       Run
}

func (s *stage) isInteractive() bool { return s.provide != nil }

// inCommitPhase reports whether propagation dispatches timed updates.
func (s *stage) inCommitPhase() bool {
	if s.isInteractive() {
		return s.interactive != nil && s.interactive.IsComplete
	}
	return s.progress == transition.End
}

func (s *stage) currentDefinition() transition.Definition {
	if s.isInteractive() {
		if s.interactive == nil || s.interactive.Definition == nil {
			return transition.Identity
		}
		return s.interactive.Definition
	}
	if s.definition == nil {
		return transition.Identity
	}
	return s.definition
}
