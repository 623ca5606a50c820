package tabstack

import (
	"fmt"
	"time"

	"github.com/notcome/lmtabstack/internal/animation"
	"github.com/notcome/lmtabstack/internal/geom"
	"github.com/notcome/lmtabstack/internal/transition"
)

// Controller drives an interactive transition from a continuous input such
// as a drag.
type Controller struct {
	stack *Stack
}

func NewController(s *Stack) *Controller { return &Controller{stack: s} }

// Start runs stateMutation and hands provide to the diff it produces. The
// provider is called once, when the transitioning pages have been measured.
func (ctl *Controller) Start(stateMutation func(m *Model), provide Provider) error {
	c := ctl.stack.Coordinator
	if c.stage != nil {
		return ErrBusy
	}
	c.starting = provide
	ctl.stack.Mutate(stateMutation)
	c.starting = nil
	if c.stage == nil || !c.stage.isInteractive() {
		return fmt.Errorf("start: mutation produced no transition: %w", ErrNoInteractive)
	}
	return nil
}

// Update mutates the active interactive transition and propagates the new
// values without completing it.
func (ctl *Controller) Update(mutator func(it *transition.Interactive)) error {
	return ctl.stack.Coordinator.modify(mutator, false)
}

// Complete applies stateMutation, then mutator, and marks the transition
// complete so it animates to its end state and cleans up.
func (ctl *Controller) Complete(stateMutation func(m *Model), mutator func(it *transition.Interactive)) error {
	c := ctl.stack.Coordinator
	if c.stage == nil || !c.stage.isInteractive() {
		return fmt.Errorf("complete: %w", ErrNoInteractive)
	}
	if stateMutation != nil {
		ctl.stack.Mutate(stateMutation)
	}
	return c.modify(mutator, true)
}

func (c *Coordinator) modify(mutator func(it *transition.Interactive), complete bool) error {
	st := c.stage
	if st == nil || !st.isInteractive() {
		return fmt.Errorf("update: %w", ErrNoInteractive)
	}
	fn := func(it *transition.Interactive) {
		if mutator != nil {
			mutator(it)
		}
		if complete {
			it.IsComplete = true
		}
	}
	if st.kind == StageUnresolved {
		st.queued = append(st.queued, fn)
		return nil
	}
	if err := st.interactive.Modify(fn); err != nil {
		return c.invariant(err)
	}
	c.token++
	c.propagate()
	return nil
}

// Gesture maps a drag onto an interactive transition.
type Gesture interface {
	// Began decides whether the drag starts a transition. It returns the
	// model change to make and the provider of the transition.
	Began(m Model, offset geom.Point) (mutation func(m *Model), provide Provider, ok bool)
	// Changed updates the caller-owned transition state.
	Changed(it *transition.Interactive, offset geom.Point)
	// Ended decides how the drag finishes. mutation runs before the
	// transition completes, for example to undo the start mutation when the
	// drag is cancelled; mutator sets the final transition state.
	Ended(m Model, offset, velocity geom.Point) (mutation func(m *Model), mutator func(it *transition.Interactive))
}

// Drag feeds a began/changed/ended stream into a Controller. It samples the
// offset so Ended receives the release velocity.
type Drag struct {
	ctl     *Controller
	gesture Gesture
	now     func() time.Time
	x, y    *animation.Tracker
	active  bool
}

func NewDrag(ctl *Controller, g Gesture, interval time.Duration) *Drag {
	return &Drag{
		ctl:     ctl,
		gesture: g,
		now:     time.Now,
		x:       animation.NewTracker(interval),
		y:       animation.NewTracker(interval),
	}
}

// WithClock replaces time.Now for velocity sampling.
func (d *Drag) WithClock(now func() time.Time) *Drag {
	d.now = now
	return d
}

func (d *Drag) Active() bool { return d.active }

func (d *Drag) sample(offset geom.Point) {
	at := d.now()
	d.x.Add(at, offset.X)
	d.y.Add(at, offset.Y)
}

// Began starts a transition when the gesture accepts the drag. It reports
// whether the drag is now active.
func (d *Drag) Began(offset geom.Point) (bool, error) {
	if d.active {
		return true, nil
	}
	mutation, provide, ok := d.gesture.Began(d.ctl.stack.Model, offset)
	if !ok {
		return false, nil
	}
	if err := d.ctl.Start(mutation, provide); err != nil {
		return false, err
	}
	d.x.Reset()
	d.y.Reset()
	d.sample(offset)
	d.active = true
	return true, nil
}

func (d *Drag) Changed(offset geom.Point) error {
	if !d.active {
		return nil
	}
	d.sample(offset)
	return d.ctl.Update(func(it *transition.Interactive) {
		d.gesture.Changed(it, offset)
	})
}

func (d *Drag) Ended(offset geom.Point) error {
	if !d.active {
		return nil
	}
	d.active = false
	d.sample(offset)
	var velocity geom.Point
	velocity.X, _ = d.x.Velocity()
	velocity.Y, _ = d.y.Velocity()
	mutation, mutator := d.gesture.Ended(d.ctl.stack.Model, offset, velocity)
	return d.ctl.Complete(mutation, mutator)
}
