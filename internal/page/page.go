// Package page holds the per-page records owned by the tab-stack
// coordinator and the rules that classify how each page changes between two
// layout generations.
package page

import (
	"fmt"
	"time"

	"github.com/notcome/lmtabstack/internal/animation"
	"github.com/notcome/lmtabstack/internal/geom"
	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/layout"
	"github.com/notcome/lmtabstack/internal/values"
)

// MountedLayout is the geometry the renderer measured for a page.
type MountedLayout struct {
	PageFrame          geom.Rect
	TransitionElements map[ids.TransitionElementID]geom.Rect
}

// BehaviorKind classifies a page's participation in a transition.
type BehaviorKind int

const (
	Appear BehaviorKind = iota + 1
	Disappear
	Change
)

func (k BehaviorKind) String() string {
	switch k {
	case Appear:
		return "appear"
	case Disappear:
		return "disappear"
	case Change:
		return "change"
	}
	return fmt.Sprintf("behavior(%d)", int(k))
}

// Behavior is fixed for the lifetime of one transition.
type Behavior struct {
	kind BehaviorKind
	from layout.Placement
	to   layout.Placement
}

func AppearAt(p layout.Placement) Behavior { return Behavior{kind: Appear, to: p} }
func DisappearFrom(p layout.Placement) Behavior { return Behavior{kind: Disappear, from: p} }
func ChangeBetween(from, to layout.Placement) Behavior {
	return Behavior{kind: Change, from: from, to: to}
}

func (b Behavior) Kind() BehaviorKind { return b.kind }

// Placements returns the originating and resulting placements. Appear has no
// originating placement and Disappear no resulting one.
func (b Behavior) Placements() (from, to layout.Placement, hasFrom, hasTo bool) {
	return b.from, b.to, b.kind != Appear, b.kind != Disappear
}

// Target is the placement the page ends the transition at, or the one it
// leaves from when disappearing.
func (b Behavior) Target() layout.Placement {
	if b.kind == Disappear {
		return b.from
	}
	return b.to
}

func (b Behavior) String() string { return b.kind.String() }

// Page is one live page record.
type Page struct {
	ID        ids.PageID
	Spec      layout.PageSpec
	Placement layout.Placement
	Hidden    bool
	HasLoaded bool
	Mounted   *MountedLayout
	Behavior  *Behavior
	Runtime   *RuntimeState
}

// Mount records measured geometry. HasLoaded flips exactly once.
func (p *Page) Mount(m MountedLayout) (first bool) {
	p.Mounted = &m
	if p.HasLoaded {
		return false
	}
	p.HasLoaded = true
	return true
}

// Transitioning reports whether the page has a behavior in the active
// transition.
func (p *Page) Transitioning() bool { return p.Behavior != nil }

// ClearTransition drops everything scoped to the finished transition.
func (p *Page) ClearTransition() {
	p.Behavior = nil
	p.Runtime = nil
}

// EffectUpdate is one dispatch of values to a page element. A nil Animation
// means "set now".
type EffectUpdate struct {
	Ref            Ref
	Values         values.Values
	Animation      *animation.Timing
	TracksVelocity bool
}

// Commit is the signal sent after a propagation pass.
type Commit struct {
	Token    int
	Duration *time.Duration
}

// RuntimeState is per-page, transition-scoped state.
type RuntimeState struct {
	// Values holds the latest merged values per element reference.
	Values         map[Ref]values.Values
	Updates        []EffectUpdate
	Pending        *Commit
	CommittedToken int
	MorphingViews  map[ids.MorphingViewID]any
}

func NewRuntimeState() *RuntimeState {
	return &RuntimeState{
		Values:        make(map[Ref]values.Values),
		MorphingViews: make(map[ids.MorphingViewID]any),
	}
}

// Dispatch queues an update and folds its values into the current set.
func (r *RuntimeState) Dispatch(u EffectUpdate) {
	r.Values[u.Ref] = r.Values[u.Ref].Merge(u.Values)
	r.Updates = append(r.Updates, u)
}

// Drain hands queued updates to the renderer.
func (r *RuntimeState) Drain() []EffectUpdate {
	out := r.Updates
	r.Updates = nil
	return out
}

// Record stores token when it is newer than anything seen. It reports
// whether the token was accepted.
func (r *RuntimeState) Record(token int) bool {
	if token <= r.CommittedToken {
		return false
	}
	r.CommittedToken = token
	return true
}
