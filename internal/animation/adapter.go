// Package animation translates merged transition values into calls on a
// native animation backend and samples gesture velocity for hand-off.
package animation

import (
	"strings"
	"time"

	"github.com/notcome/lmtabstack/internal/values"
)

// Backend is the platform animation system. It never interprets curves on
// behalf of the engine; the adapter only chooses which call to make.
type Backend interface {
	SetConstant(keyPath string, value float64)
	Animate(keyPath string, from, to float64, timing Timing, initialVelocity *float64)
}

// Adapter remembers the last value written per keyPath so it can animate
// from it and skip constant writes that change nothing.
type Adapter struct {
	backend      Backend
	now          func() time.Time
	interval     time.Duration
	reduceMotion bool
	current      map[string]float64
	trackers     map[string]*Tracker
}

type AdapterOption func(*Adapter)

// WithClock replaces time.Now for velocity sampling.
func WithClock(now func() time.Time) AdapterOption {
	return func(a *Adapter) { a.now = now }
}

// WithSampleInterval sets the velocity tracker debounce.
func WithSampleInterval(d time.Duration) AdapterOption {
	return func(a *Adapter) { a.interval = d }
}

// WithReduceMotion turns every timed write into a constant.
func WithReduceMotion(on bool) AdapterOption {
	return func(a *Adapter) { a.reduceMotion = on }
}

func NewAdapter(b Backend, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		backend:  b,
		now:      time.Now,
		interval: DefaultSampleInterval,
		current:  make(map[string]float64),
		trackers: make(map[string]*Tracker),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Apply writes every float channel of vs under prefix. A nil timing sets the
// values immediately; tracksVelocity records those writes so the next timed
// write on the same keyPath starts with the observed velocity.
func (a *Adapter) Apply(prefix string, vs values.Values, timing *Timing, tracksVelocity bool) {
	if a.reduceMotion {
		timing = nil
	}
	for _, ch := range vs.Floats() {
		kp := prefix + "." + ch.Name
		cur, known := a.current[kp]
		if timing == nil {
			if tracksVelocity {
				a.tracker(kp).Add(a.now(), ch.Value)
			} else {
				delete(a.trackers, kp)
			}
			if known && cur == ch.Value {
				continue
			}
			a.backend.SetConstant(kp, ch.Value)
			a.current[kp] = ch.Value
			continue
		}
		var v0 *float64
		if tr, ok := a.trackers[kp]; ok {
			if v, ok := tr.Velocity(); ok {
				v0 = &v
			}
			delete(a.trackers, kp)
		}
		if !known {
			a.backend.SetConstant(kp, ch.Value)
		} else {
			a.backend.Animate(kp, cur, ch.Value, *timing, v0)
		}
		a.current[kp] = ch.Value
	}
}

func (a *Adapter) SetReduceMotion(on bool) { a.reduceMotion = on }

func (a *Adapter) ReduceMotion() bool { return a.reduceMotion }

// Current returns the last value written to keyPath.
func (a *Adapter) Current(keyPath string) (float64, bool) {
	v, ok := a.current[keyPath]
	return v, ok
}

// Forget drops every keyPath under prefix, e.g. when a page is destroyed or
// its transition state is cleared.
func (a *Adapter) Forget(prefix string) {
	for kp := range a.current {
		if strings.HasPrefix(kp, prefix) {
			delete(a.current, kp)
		}
	}
	for kp := range a.trackers {
		if strings.HasPrefix(kp, prefix) {
			delete(a.trackers, kp)
		}
	}
}

func (a *Adapter) tracker(kp string) *Tracker {
	tr, ok := a.trackers[kp]
	if !ok {
		tr = NewTracker(a.interval)
		a.trackers[kp] = tr
	}
	return tr
}
