package tabstack

import (
	"errors"
	"fmt"
	"time"

	"github.com/notcome/lmtabstack/internal/animation"
	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/page"
	"github.com/notcome/lmtabstack/internal/transition"
	"github.com/notcome/lmtabstack/internal/values"
)

// refValues folds patches into one value set per ref, keeping the order in
// which refs were first touched.
type refValues struct {
	order []page.Ref
	vals  map[page.Ref]values.Values
}

func (r *refValues) add(p transition.Patch) {
	if r.vals == nil {
		r.vals = make(map[page.Ref]values.Values)
	}
	cur, seen := r.vals[p.Ref]
	if !seen {
		r.order = append(r.order, p.Ref)
	}
	r.vals[p.Ref] = cur.Merge(p.Values)
}

// propagate evaluates the active definition and dispatches the result to
// the transitioning pages, followed by a commit signal carrying the token.
func (c *Coordinator) propagate() {
	st := c.stage
	ctx := c.context(st.progress, st.isInteractive())
	tracks, err := transition.Evaluate(st.currentDefinition(), ctx)
	if err != nil {
		if errors.Is(err, transition.ErrInvariant) {
			_ = c.invariant(err)
		} else {
			c.log.Warn("transition construction failed, using identity", "err", err, "token", c.token)
		}
		if !st.isInteractive() {
			st.definition = transition.Identity
			st.run.Identity = true
		}
		tracks = nil
	}

	commit := page.Commit{Token: c.token}
	if st.inCommitPhase() {
		d := c.dispatchTimed(tracks)
		st.duration = d
		commit.Duration = &d
	} else {
		var flat refValues
		for _, t := range tracks {
			for _, p := range t.Patches {
				flat.add(p)
			}
		}
		for _, ref := range flat.order {
			c.dispatch(page.EffectUpdate{
				Ref:            ref,
				Values:         flat.vals[ref],
				TracksVelocity: st.isInteractive(),
			})
		}
	}

	for _, p := range c.pages {
		if p.Transitioning() {
			cm := commit
			p.Runtime.Pending = &cm
		}
	}
}

// dispatchTimed sends one update per distinct timing, in the order timings
// are first declared, and returns the longest of them.
func (c *Coordinator) dispatchTimed(tracks []transition.Track) (longest time.Duration) {
	var timings []animation.Timing
	groups := make(map[animation.Timing]*refValues)
	for _, t := range tracks {
		g, ok := groups[t.Timing]
		if !ok {
			g = &refValues{}
			groups[t.Timing] = g
			timings = append(timings, t.Timing)
		}
		for _, p := range t.Patches {
			g.add(p)
		}
	}
	for _, timing := range timings {
		if d := timing.Total(); d > longest {
			longest = d
		}
		g := groups[timing]
		for _, ref := range g.order {
			tm := timing
			c.dispatch(page.EffectUpdate{Ref: ref, Values: g.vals[ref], Animation: &tm})
		}
	}
	return longest
}

func (c *Coordinator) dispatch(u page.EffectUpdate) {
	p, ok := c.Page(u.Ref.Page)
	if !ok || !p.Transitioning() {
		_ = c.invariant(fmt.Errorf("patch for %s outside the transition: %w", u.Ref, transition.ErrInvariant))
		return
	}
	p.Runtime.Dispatch(u)
}

// Updates drains the queued effect updates of a page.
func (c *Coordinator) Updates(id ids.PageID) []page.EffectUpdate {
	p, ok := c.Page(id)
	if !ok || p.Runtime == nil {
		return nil
	}
	return p.Runtime.Drain()
}

// ReportCommit is called by a page once it rendered the commit with token.
// Stale and duplicate tokens are ignored. When every transitioning page has
// confirmed the current token the transition moves on: an automatic
// transition at Start advances to End, and a transition in its commit phase
// schedules completion after its duration.
func (c *Coordinator) ReportCommit(id ids.PageID, token int) error {
	st := c.stage
	if st == nil || st.kind != StageResolved {
		return nil
	}
	p, ok := c.Page(id)
	if !ok {
		return fmt.Errorf("commit from %s: %w", id, ErrUnknownPage)
	}
	if !p.Transitioning() || token <= st.committed {
		return nil
	}
	if token > c.token {
		return c.invariant(fmt.Errorf("commit token %d from %s is ahead of %d: %w", token, id, c.token, transition.ErrInvariant))
	}
	if !p.Runtime.Record(token) {
		return nil
	}
	if p.Runtime.Pending != nil && p.Runtime.Pending.Token <= token {
		p.Runtime.Pending = nil
	}
	for _, q := range c.pages {
		if q.Transitioning() && q.Runtime.CommittedToken != c.token {
			return nil
		}
	}

	st.committed = c.token
	switch {
	case st.inCommitPhase():
		st.run.Token = c.token
		st.run.Duration = st.duration
		c.log.Debug("transition committed", "token", c.token, "duration", st.duration)
		for _, o := range c.observers {
			o.TransitionCommitted(st.run)
		}
		token := c.token
		c.sched.After(st.duration, func() { c.finish(token) })
	case !st.isInteractive():
		st.progress = transition.End
		c.token++
		c.propagate()
	}
	return nil
}

// finish cleans up the transition committed with token. A completion left
// over from a superseded token does nothing.
func (c *Coordinator) finish(token int) {
	st := c.stage
	if st == nil || st.kind != StageResolved || !st.inCommitPhase() || st.committed != token || c.token != token {
		c.log.Debug("stale completion ignored", "token", token, "current", c.token)
		return
	}
	snap := st.target
	if st.pending != nil {
		snap = *st.pending
	}
	c.stage = nil
	pages, removed := page.Replace(c.pages, snap)
	c.pages = pages

	st.run.Removed = removed
	c.log.Debug("transition finished", "token", token, "removed", len(removed))
	for _, o := range c.observers {
		o.TransitionFinished(st.run)
	}
	c.notifyRemoved(removed)
}

// Render hands every queued update to apply and then acknowledges pending
// commits. The acknowledgement is sent as soon as apply returns and does not
// wait for a drawn frame, so an automatic run moves from its start values
// into the commit phase within one call. It repeats while the
// acknowledgements produce more work.
func (c *Coordinator) Render(apply func(u page.EffectUpdate)) {
	for {
		type ack struct {
			id    ids.PageID
			token int
		}
		var acks []ack
		for _, p := range c.Pages() {
			if p.Runtime == nil {
				continue
			}
			for _, u := range p.Runtime.Drain() {
				apply(u)
			}
			if p.Runtime.Pending != nil {
				acks = append(acks, ack{p.ID, p.Runtime.Pending.Token})
			}
		}
		if len(acks) == 0 {
			return
		}
		before := c.token
		for _, a := range acks {
			if p, ok := c.Page(a.id); ok && p.Runtime != nil {
				p.Runtime.Pending = nil
			}
			_ = c.ReportCommit(a.id, a.token)
		}
		if c.token == before {
			return
		}
	}
}
