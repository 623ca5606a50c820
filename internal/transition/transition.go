// Package transition describes what a transition does: the tracks of value
// patches a definition declares, the context it is evaluated in, and the
// rules that pick an automatic definition for a set of transitioning pages.
package transition

import (
	"fmt"
	"sort"

	"github.com/notcome/lmtabstack/internal/geom"
	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/layout"
	"github.com/notcome/lmtabstack/internal/page"
)

// Progress is the two-valued position of an automatic transition. An
// interactive transition evaluates at Start until it is complete.
type Progress int

const (
	Start Progress = iota
	End
)

func (p Progress) String() string {
	if p == End {
		return "end"
	}
	return "start"
}

// PageInfo is what a definition may read about a transitioning page.
type PageInfo struct {
	ID        ids.PageID
	Behavior  page.Behavior
	Placement layout.Placement
	Mounted   page.MountedLayout
}

// MorphingView declares auxiliary content scoped to a page.
type MorphingView struct {
	Page    ids.PageID
	ID      ids.MorphingViewID
	Content any
}

// MorphingHandle is a resolved morphing view a definition can patch.
type MorphingHandle struct {
	Ref     page.Ref
	Content any
}

// Context is the evaluation environment of one propagation pass.
type Context struct {
	Progress    Progress
	Interactive bool

	pages    map[ids.PageID]PageInfo
	order    []ids.PageID
	morphing map[page.Ref]MorphingHandle
}

// NewContext builds a context over the transitioning pages in order.
func NewContext(progress Progress, interactive bool, pages []PageInfo) *Context {
	c := &Context{
		Progress:    progress,
		Interactive: interactive,
		pages:       make(map[ids.PageID]PageInfo, len(pages)),
		morphing:    make(map[page.Ref]MorphingHandle),
	}
	for _, p := range pages {
		c.pages[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c
}

// WithMorphing installs resolved morphing views.
func (c *Context) WithMorphing(views []MorphingView) *Context {
	for _, v := range views {
		ref := page.Morphing(v.Page, v.ID)
		c.morphing[ref] = MorphingHandle{Ref: ref, Content: v.Content}
	}
	return c
}

// PageIDs lists the transitioning pages.
func (c *Context) PageIDs() []ids.PageID { return append([]ids.PageID(nil), c.order...) }

// Behaviors returns the behavior of every transitioning page.
func (c *Context) Behaviors() map[ids.PageID]page.Behavior {
	out := make(map[ids.PageID]page.Behavior, len(c.pages))
	for id, p := range c.pages {
		out[id] = p.Behavior
	}
	return out
}

// Page returns a transitioning page. Asking for any other page is a
// programming error.
func (c *Context) Page(id ids.PageID) (PageInfo, error) {
	p, ok := c.pages[id]
	if !ok {
		return PageInfo{}, fmt.Errorf("page %s is not transitioning: %w", id, ErrInvariant)
	}
	return p, nil
}

// Frame returns the measured frame of a transitioning page.
func (c *Context) Frame(id ids.PageID) (geom.Rect, error) {
	p, err := c.Page(id)
	if err != nil {
		return geom.Rect{}, err
	}
	return p.Mounted.PageFrame, nil
}

// ElementFrame returns the measured frame of a transition element.
func (c *Context) ElementFrame(id ids.PageID, elem ids.TransitionElementID) (geom.Rect, error) {
	p, err := c.Page(id)
	if err != nil {
		return geom.Rect{}, err
	}
	r, ok := p.Mounted.TransitionElements[elem]
	if !ok {
		return geom.Rect{}, fmt.Errorf("element %s on page %s: %w", elem, id, ErrMissingElement)
	}
	return r, nil
}

// Morphing returns a resolved morphing view handle.
func (c *Context) Morphing(id ids.PageID, view ids.MorphingViewID) (MorphingHandle, bool) {
	h, ok := c.morphing[page.Morphing(id, view)]
	return h, ok
}

// Definition declares a transition. Build is called once per propagation
// pass and must be a function of ctx (and, for interactive transitions, of
// the caller-owned state).
type Definition interface {
	MorphingViews(ctx *Context) []MorphingView
	Build(ctx *Context, b *Builder) error
}

// Funcs adapts plain functions to Definition. Either may be nil.
type Funcs struct {
	Morphing func(ctx *Context) []MorphingView
	Tracks   func(ctx *Context, b *Builder) error
}

func (f Funcs) MorphingViews(ctx *Context) []MorphingView {
	if f.Morphing == nil {
		return nil
	}
	return f.Morphing(ctx)
}

func (f Funcs) Build(ctx *Context, b *Builder) error {
	if f.Tracks == nil {
		return nil
	}
	return f.Tracks(ctx, b)
}

type identity struct{}

func (identity) MorphingViews(*Context) []MorphingView { return nil }
func (identity) Build(*Context, *Builder) error        { return nil }

// Identity is the no-op transition. It is comparable, so callers may test
// def == Identity.
var Identity Definition = identity{}

// Evaluate runs a definition. A construction failure yields no tracks and
// the error, which callers log and then treat as Identity.
func Evaluate(def Definition, ctx *Context) ([]Track, error) {
	var b Builder
	if err := def.Build(ctx, &b); err != nil {
		return nil, err
	}
	return b.Tracks(), nil
}

// Interactive wraps a caller-owned definition driven by a gesture. The
// definition is the mutable state: callers reach it through Modify.
type Interactive struct {
	Definition Definition
	IsComplete bool

	revision int
}

func NewInteractive(def Definition) *Interactive {
	return &Interactive{Definition: def}
}

// Modify applies fn unless the transition already completed. Each successful
// call bumps the revision.
func (it *Interactive) Modify(fn func(it *Interactive)) error {
	if it.IsComplete {
		return fmt.Errorf("modify completed interactive transition: %w", ErrInvariant)
	}
	fn(it)
	it.revision++
	return nil
}

func (it *Interactive) Revision() int { return it.revision }

// Priorities of eligible resolver nodes.
const (
	PriorityAppearingSource    = 100
	PriorityDisappearingSource = 90
)

// Node is a registered candidate for resolving an automatic transition
// between a declared source and target page.
type Node struct {
	Source  ids.PageID
	Target  ids.PageID
	Resolve func(ctx *Context) (Definition, error)
}

// Priority reports whether n is eligible for the given behaviors and at
// which priority. Source and target must both transition with opposite
// appear/disappear polarity; any other transitioning page must be appearing
// or disappearing.
func (n Node) Priority(behaviors map[ids.PageID]page.Behavior) (int, bool) {
	src, ok := behaviors[n.Source]
	if !ok {
		return 0, false
	}
	dst, ok := behaviors[n.Target]
	if !ok {
		return 0, false
	}
	switch {
	case src.Kind() == page.Appear && dst.Kind() == page.Disappear:
	case src.Kind() == page.Disappear && dst.Kind() == page.Appear:
	default:
		return 0, false
	}
	for id, b := range behaviors {
		if id == n.Source || id == n.Target {
			continue
		}
		if b.Kind() == page.Change {
			return 0, false
		}
	}
	if src.Kind() == page.Appear {
		return PriorityAppearingSource, true
	}
	return PriorityDisappearingSource, true
}

// Outcome records how Resolve chose.
type Outcome struct {
	Definition Definition
	Node       *Node
	// Failures holds construction errors from nodes that were skipped.
	Failures []error
}

// Resolve tries eligible nodes in priority order, first registered first on
// ties. The first node returning a non-nil definition wins; a node that
// fails to construct its definition is skipped. With no winner the result
// is Identity.
func Resolve(nodes []Node, ctx *Context) Outcome {
	behaviors := ctx.Behaviors()
	type candidate struct {
		node     Node
		priority int
	}
	var eligible []candidate
	for _, n := range nodes {
		if p, ok := n.Priority(behaviors); ok {
			eligible = append(eligible, candidate{node: n, priority: p})
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].priority > eligible[j].priority
	})
	var out Outcome
	for _, c := range eligible {
		if c.node.Resolve == nil {
			continue
		}
		def, err := c.node.Resolve(ctx)
		if err != nil {
			out.Failures = append(out.Failures, err)
			continue
		}
		if def != nil {
			n := c.node
			out.Definition = def
			out.Node = &n
			return out
		}
	}
	out.Definition = Identity
	return out
}
