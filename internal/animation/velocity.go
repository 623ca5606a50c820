package animation

import "time"

// DefaultSampleInterval is the shortest gap between two distinct samples.
// Samples closer than this replace the newest one.
const DefaultSampleInterval = 100 * time.Microsecond

type sample struct {
	at    time.Time
	value float64
}

// Tracker keeps the two most recent samples of one channel and derives a
// finite-difference velocity from them.
type Tracker struct {
	minInterval time.Duration
	samples     [2]sample
	n           int
}

func NewTracker(minInterval time.Duration) *Tracker {
	return &Tracker{minInterval: minInterval}
}

func (t *Tracker) Add(at time.Time, v float64) {
	if t.n > 0 {
		last := &t.samples[t.n-1]
		if at.Sub(last.at) < t.minInterval {
			last.at, last.value = at, v
			return
		}
	}
	if t.n < 2 {
		t.samples[t.n] = sample{at: at, value: v}
		t.n++
		return
	}
	t.samples[0] = t.samples[1]
	t.samples[1] = sample{at: at, value: v}
}

// Velocity returns units per second, or false until two samples exist.
func (t *Tracker) Velocity() (float64, bool) {
	if t.n < 2 {
		return 0, false
	}
	dt := t.samples[1].at.Sub(t.samples[0].at).Seconds()
	if dt <= 0 {
		return 0, false
	}
	return (t.samples[1].value - t.samples[0].value) / dt, true
}

func (t *Tracker) Reset() { t.n = 0 }
