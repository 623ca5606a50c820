// Package tabstack owns the live pages of a tabbed page stack and runs the
// transition between consecutive layout snapshots: classification,
// resolution, value propagation, commit tokens and cleanup.
package tabstack

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/layout"
	"github.com/notcome/lmtabstack/internal/page"
	"github.com/notcome/lmtabstack/internal/transition"
)

// Scheduler runs fn on the coordinator's context once d has elapsed.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type Options struct {
	Logger    *slog.Logger
	Scheduler Scheduler
	Observers []Observer
	// Strict panics on invariant violations instead of returning them.
	Strict bool
}

// Coordinator is not safe for concurrent use. Every method, including the
// callbacks it hands to the Scheduler, must run on one goroutine.
type Coordinator struct {
	log       *slog.Logger
	sched     Scheduler
	observers []Observer
	strict    bool

	nodes []transition.Node
	pages []*page.Page
	token int
	stage *stage

	// starting is the provider of an interactive start in progress. Apply
	// hands it to the diff the start mutation produces.
	starting Provider
}

func New(opts Options) *Coordinator {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.Scheduler == nil {
		panic("tabstack: nil scheduler")
	}
	return &Coordinator{
		log:       log,
		sched:     opts.Scheduler,
		observers: opts.Observers,
		strict:    opts.Strict,
	}
}

// Register adds resolver nodes. Earlier nodes win priority ties. A node for
// a source and target pair that is already registered replaces the old one
// in place. Nodes are dropped once either of their pages is removed.
func (c *Coordinator) Register(nodes ...transition.Node) {
next:
	for _, n := range nodes {
		for i, old := range c.nodes {
			if old.Source == n.Source && old.Target == n.Target {
				c.nodes[i] = n
				continue next
			}
		}
		c.nodes = append(c.nodes, n)
	}
}

// Nodes returns a copy of the registered resolver nodes.
func (c *Coordinator) Nodes() []transition.Node {
	return append([]transition.Node(nil), c.nodes...)
}

func (c *Coordinator) Observe(o Observer) { c.observers = append(c.observers, o) }

// Stage reports the current stage.
func (c *Coordinator) Stage() StageKind {
	if c.stage == nil {
		return StageNone
	}
	return c.stage.kind
}

// Progress reports the progress of a resolved automatic transition.
func (c *Coordinator) Progress() transition.Progress {
	if c.stage == nil {
		return transition.Start
	}
	return c.stage.progress
}

// Token is the current transition token.
func (c *Coordinator) Token() int { return c.token }

// Interactive returns the active interactive transition, if resolved.
func (c *Coordinator) Interactive() (*transition.Interactive, bool) {
	if c.stage == nil || c.stage.interactive == nil {
		return nil, false
	}
	return c.stage.interactive, true
}

// HasPending reports whether a snapshot is buffered behind the active
// transition.
func (c *Coordinator) HasPending() bool { return c.stage != nil && c.stage.pending != nil }

// Pages returns the live pages in order. Callers must treat the records as
// read-only.
func (c *Coordinator) Pages() []*page.Page { return append([]*page.Page(nil), c.pages...) }

// Page returns the live page with id.
func (c *Coordinator) Page(id ids.PageID) (*page.Page, bool) {
	for _, p := range c.pages {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Apply makes snap the new layout generation. While a transition is active
// snap is buffered, latest wins, and applied at cleanup.
func (c *Coordinator) Apply(snap layout.Snapshot) {
	if c.stage != nil {
		c.stage.pending = &snap
		c.log.Debug("snapshot buffered", "stage", c.stage.kind, "token", c.token)
		return
	}
	if len(c.pages) == 0 || !c.hasResolver() {
		c.replace(snap)
		return
	}
	res := page.Reconcile(c.pages, snap)
	c.pages = res.Pages
	if len(res.Behaviors) == 0 {
		c.replace(snap)
		return
	}
	for _, p := range c.pages {
		if p.Transitioning() {
			p.Runtime = page.NewRuntimeState()
		}
	}
	c.stage = &stage{
		kind:      StageUnresolved,
		target:    snap,
		behaviors: res.Behaviors,
		provide:   c.starting,
	}
	c.log.Debug("transition unresolved", "pages", len(res.Behaviors), "interactive", c.starting != nil)
	c.tryResolve()
}

func (c *Coordinator) hasResolver() bool { return len(c.nodes) > 0 || c.starting != nil }

func (c *Coordinator) replace(snap layout.Snapshot) {
	pages, removed := page.Replace(c.pages, snap)
	c.pages = pages
	c.notifyRemoved(removed)
}

// Mount records the measured geometry of a page. The first report for every
// transitioning page unblocks resolution.
func (c *Coordinator) Mount(id ids.PageID, m page.MountedLayout) error {
	p, ok := c.Page(id)
	if !ok {
		return fmt.Errorf("mount %s: %w", id, ErrUnknownPage)
	}
	p.Mount(m)
	c.tryResolve()
	return nil
}

func (c *Coordinator) tryResolve() {
	st := c.stage
	if st == nil || st.kind != StageUnresolved {
		return
	}
	for _, p := range c.pages {
		if p.Transitioning() && !p.HasLoaded {
			return
		}
	}

	ctx := c.context(transition.Start, st.isInteractive())
	st.run = Run{ID: uuid.NewString(), Pages: c.transitioningIDs()}
	if st.isInteractive() {
		it := st.provide(ctx)
		if it == nil {
			c.log.Debug("interactive provider declined")
			st.provide = nil
			st.queued = nil
			st.definition = transition.Identity
		} else {
			for _, fn := range st.queued {
				if err := it.Modify(fn); err != nil {
					_ = c.invariant(err)
				}
			}
			st.queued = nil
			st.interactive = it
			st.run.Interactive = true
		}
	} else {
		out := transition.Resolve(c.nodes, ctx)
		for _, err := range out.Failures {
			if errors.Is(err, transition.ErrInvariant) {
				_ = c.invariant(err)
				continue
			}
			c.log.Warn("resolver node failed", "err", err)
		}
		st.definition = out.Definition
		if out.Node != nil {
			st.run.Source, st.run.Target = out.Node.Source, out.Node.Target
		}
	}
	st.run.Identity = st.currentDefinition() == transition.Identity

	c.token++
	st.kind = StageResolved
	st.progress = transition.Start
	st.run.Token = c.token
	c.collectMorphing(ctx)

	c.log.Debug("transition resolved", "kind", st.run.Kind(), "token", c.token, "pages", len(st.run.Pages))
	for _, o := range c.observers {
		o.TransitionResolved(st.run)
	}
	c.propagate()
}

func (c *Coordinator) collectMorphing(ctx *transition.Context) {
	st := c.stage
	views := st.currentDefinition().MorphingViews(ctx)
	st.morphing = st.morphing[:0]
	for _, v := range views {
		p, ok := c.Page(v.Page)
		if !ok || !p.Transitioning() {
			_ = c.invariant(fmt.Errorf("morphing view %s on page %s: %w", v.ID, v.Page, transition.ErrInvariant))
			continue
		}
		p.Runtime.MorphingViews[v.ID] = v.Content
		st.morphing = append(st.morphing, v)
	}
}

func (c *Coordinator) context(progress transition.Progress, interactive bool) *transition.Context {
	var infos []transition.PageInfo
	for _, p := range c.pages {
		if !p.Transitioning() {
			continue
		}
		info := transition.PageInfo{ID: p.ID, Behavior: *p.Behavior, Placement: p.Placement}
		if p.Mounted != nil {
			info.Mounted = *p.Mounted
		}
		infos = append(infos, info)
	}
	ctx := transition.NewContext(progress, interactive, infos)
	if c.stage != nil {
		ctx.WithMorphing(c.stage.morphing)
	}
	return ctx
}

func (c *Coordinator) transitioningIDs() []ids.PageID {
	var out []ids.PageID
	for _, p := range c.pages {
		if p.Transitioning() {
			out = append(out, p.ID)
		}
	}
	return out
}

func (c *Coordinator) notifyRemoved(removed []ids.PageID) {
	if len(removed) == 0 {
		return
	}
	gone := make(map[ids.PageID]bool, len(removed))
	for _, id := range removed {
		gone[id] = true
	}
	c.nodes = slices.DeleteFunc(c.nodes, func(n transition.Node) bool {
		return gone[n.Source] || gone[n.Target]
	})
	for _, o := range c.observers {
		if ro, ok := o.(RemovalObserver); ok {
			ro.PagesRemoved(removed)
		}
	}
}

// invariant reports a programming error in a collaborator.
func (c *Coordinator) invariant(err error) error {
	if c.strict {
		panic(err)
	}
	c.log.Error("invariant violated", "err", err)
	return err
}
