package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Ticks schedules coordinator callbacks as bubbletea ticks. Callbacks
// requested while Update runs are handed back from that Update as commands,
// and each one comes back in as a message, so it runs on the Update
// goroutine like every other coordinator call.
type Ticks struct {
	pending []tea.Cmd
}

func NewTicks() *Ticks { return &Ticks{} }

func (s *Ticks) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg { return tickMsg(fn) }))
}

// take hands over everything scheduled since the last call.
func (s *Ticks) take() []tea.Cmd {
	out := s.pending
	s.pending = nil
	return out
}

type tickMsg func()
