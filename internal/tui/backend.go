package tui

import (
	"strings"
	"time"

	"github.com/notcome/lmtabstack/internal/animation"
)

type motion struct {
	from, to float64
	timing   animation.Timing
	start    time.Time
	v0       float64
}

// Terminal is the animation backend of the terminal host. It keeps the
// model value of every keyPath and the animations in flight, and samples
// them whenever a frame is drawn.
type Terminal struct {
	now    func() time.Time
	values map[string]float64
	anims  map[string]motion
}

var _ animation.Backend = (*Terminal)(nil)

func NewTerminal(now func() time.Time) *Terminal {
	if now == nil {
		now = time.Now
	}
	return &Terminal{
		now:    now,
		values: make(map[string]float64),
		anims:  make(map[string]motion),
	}
}

func (t *Terminal) SetConstant(keyPath string, value float64) {
	delete(t.anims, keyPath)
	t.values[keyPath] = value
}

// Animate starts a new animation. When one is already in flight on keyPath
// the new one starts from what is on screen now.
func (t *Terminal) Animate(keyPath string, from, to float64, timing animation.Timing, initialVelocity *float64) {
	now := t.now()
	if m, ok := t.anims[keyPath]; ok {
		from, _ = animation.Sample(m.timing, m.from, m.to, now.Sub(m.start), m.v0)
	}
	m := motion{from: from, to: to, timing: timing, start: now}
	if initialVelocity != nil {
		m.v0 = *initialVelocity
	}
	t.anims[keyPath] = m
	t.values[keyPath] = to
}

// Value returns the presented value of keyPath.
func (t *Terminal) Value(keyPath string) (float64, bool) {
	if m, ok := t.anims[keyPath]; ok {
		v, _ := animation.Sample(m.timing, m.from, m.to, t.now().Sub(m.start), m.v0)
		return v, true
	}
	v, ok := t.values[keyPath]
	return v, ok
}

// Settle drops finished animations and reports whether any are left.
func (t *Terminal) Settle() bool {
	now := t.now()
	for kp, m := range t.anims {
		if _, done := animation.Sample(m.timing, m.from, m.to, now.Sub(m.start), m.v0); done {
			delete(t.anims, kp)
		}
	}
	return len(t.anims) > 0
}

// Forget drops every keyPath under prefix so the element falls back to its
// resting appearance.
func (t *Terminal) Forget(prefix string) {
	for kp := range t.values {
		if strings.HasPrefix(kp, prefix) {
			delete(t.values, kp)
		}
	}
	for kp := range t.anims {
		if strings.HasPrefix(kp, prefix) {
			delete(t.anims, kp)
		}
	}
}
