// Package sched holds a deterministic clock for driving the coordinator
// without real timers.
package sched

import (
	"sort"
	"time"
)

// Manual is a deterministic scheduler for tests. Time only moves when
// Advance is called, and due callbacks run inline in deadline order.
type Manual struct {
	now    time.Duration
	seq    int
	timers []manualTimer
}

type manualTimer struct {
	at  time.Duration
	seq int
	fn  func()
}

func (m *Manual) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	m.seq++
	m.timers = append(m.timers, manualTimer{at: m.now + d, seq: m.seq, fn: fn})
}

// Advance moves the clock by d and runs everything that became due,
// including callbacks scheduled by callbacks that fall within the window.
func (m *Manual) Advance(d time.Duration) int {
	target := m.now + d
	ran := 0
	for {
		sort.Slice(m.timers, func(i, j int) bool {
			if m.timers[i].at != m.timers[j].at {
				return m.timers[i].at < m.timers[j].at
			}
			return m.timers[i].seq < m.timers[j].seq
		})
		if len(m.timers) == 0 || m.timers[0].at > target {
			break
		}
		next := m.timers[0]
		m.timers = m.timers[1:]
		m.now = next.at
		next.fn()
		ran++
	}
	m.now = target
	return ran
}

// Pending reports how many callbacks have not run yet.
func (m *Manual) Pending() int { return len(m.timers) }

// Elapsed is the manual clock reading.
func (m *Manual) Elapsed() time.Duration { return m.now }
