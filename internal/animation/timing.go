package animation

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Curve selects how a value travels between two endpoints.
type Curve int

const (
	Linear Curve = iota
	EaseIn
	EaseOut
	EaseInOut
	// Spring is critically damped and honours an initial velocity.
	Spring
)

func (c Curve) String() string {
	switch c {
	case Linear:
		return "linear"
	case EaseIn:
		return "ease-in"
	case EaseOut:
		return "ease-out"
	case EaseInOut:
		return "ease-in-out"
	case Spring:
		return "spring"
	}
	return fmt.Sprintf("curve(%d)", int(c))
}

// ParseCurve maps a config string to a Curve.
func ParseCurve(s string) (Curve, error) {
	for c := Linear; c <= Spring; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return Linear, fmt.Errorf("unknown curve %q", s)
}

// Ease maps linear progress t in [0,1] onto the curve. Spring is sampled by
// simulation instead; Ease treats it as ease-out.
func (c Curve) Ease(t float64) float64 {
	t = clamp01(t)
	switch c {
	case EaseIn:
		return t * t * t
	case EaseOut, Spring:
		u := 1 - t
		return 1 - u*u*u
	case EaseInOut:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2
	}
	return t
}

// Timing is one track's animation spec. It is comparable so tracks can be
// grouped by it.
type Timing struct {
	Curve    Curve
	Duration time.Duration
	Delay    time.Duration
}

func (t Timing) Total() time.Duration { return t.Delay + t.Duration }

func (t Timing) String() string {
	if t.Delay > 0 {
		return fmt.Sprintf("%s %s after %s", t.Curve, t.Duration, t.Delay)
	}
	return fmt.Sprintf("%s %s", t.Curve, t.Duration)
}

func Default() Timing { return Timing{Curve: EaseInOut, Duration: 350 * time.Millisecond} }

const springStep = time.Second / 120

// Sample evaluates an animation from -> to at elapsed. v0 is the initial
// velocity in units per second and only affects Spring. done reports that
// the value has reached to.
func Sample(t Timing, from, to float64, elapsed time.Duration, v0 float64) (value float64, done bool) {
	elapsed -= t.Delay
	if elapsed <= 0 {
		return from, false
	}
	if t.Duration <= 0 || elapsed >= t.Duration {
		return to, true
	}
	if t.Curve != Spring {
		p := float64(elapsed) / float64(t.Duration)
		return from + (to-from)*t.Curve.Ease(p), false
	}
	// settle in roughly Duration: critically damped, e^-ωt ≈ 0.2% at ωt = 6.
	omega := 6 / t.Duration.Seconds()
	spring := harmonica.NewSpring(springStep.Seconds(), omega, 1.0)
	pos, vel := from, v0
	for s := time.Duration(0); s < elapsed; s += springStep {
		pos, vel = spring.Update(pos, vel, to)
	}
	return pos, false
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
