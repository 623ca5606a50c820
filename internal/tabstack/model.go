package tabstack

import (
	"github.com/notcome/lmtabstack/internal/geom"
	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/layout"
)

// Model is the declarative state of the tab stack. Every change goes
// through Stack.Mutate so it yields a new layout generation.
type Model struct {
	Tabs           []layout.Tab
	ActiveTab      ids.TabID
	Decorations    []layout.Decoration
	Bounds         geom.Rect
	SafeAreaInsets geom.EdgeInsets
}

func (m Model) Input() layout.Input {
	return layout.Input{
		Bounds:         m.Bounds,
		SafeAreaInsets: m.SafeAreaInsets,
		Tabs:           m.Tabs,
		ActiveTab:      m.ActiveTab,
		Decorations:    m.Decorations,
	}
}

func (m *Model) tabIndex(id ids.TabID) int {
	for i, t := range m.Tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Tab returns the tab with id.
func (m Model) Tab(id ids.TabID) (layout.Tab, bool) {
	i := m.tabIndex(id)
	if i < 0 {
		return layout.Tab{}, false
	}
	return m.Tabs[i], true
}

// Active returns the selected tab.
func (m Model) Active() (layout.Tab, bool) { return m.Tab(m.ActiveTab) }

// Push puts spec on top of tab. Page slices are copied so earlier snapshots
// never observe the change.
func (m *Model) Push(tab ids.TabID, spec layout.PageSpec) bool {
	i := m.tabIndex(tab)
	if i < 0 {
		return false
	}
	m.Tabs = append([]layout.Tab(nil), m.Tabs...)
	pages := m.Tabs[i].Pages
	m.Tabs[i].Pages = append(pages[:len(pages):len(pages)], spec)
	return true
}

// Pop removes the top page of tab. The root page is never popped.
func (m *Model) Pop(tab ids.TabID) (layout.PageSpec, bool) {
	i := m.tabIndex(tab)
	if i < 0 || len(m.Tabs[i].Pages) < 2 {
		return layout.PageSpec{}, false
	}
	m.Tabs = append([]layout.Tab(nil), m.Tabs...)
	pages := m.Tabs[i].Pages
	top := pages[len(pages)-1]
	m.Tabs[i].Pages = pages[: len(pages)-1 : len(pages)-1]
	return top, true
}

// Select makes tab active.
func (m *Model) Select(tab ids.TabID) bool {
	if m.tabIndex(tab) < 0 {
		return false
	}
	m.ActiveTab = tab
	return true
}

// Cycle selects the tab delta positions away from the active one.
func (m *Model) Cycle(delta int) {
	n := len(m.Tabs)
	if n == 0 {
		return
	}
	i := m.tabIndex(m.ActiveTab)
	if i < 0 {
		i = 0
	}
	m.ActiveTab = m.Tabs[((i+delta)%n+n)%n].ID
}

// Stack couples a Model with the strategy that lays it out and the
// coordinator that animates between generations.
type Stack struct {
	Model       Model
	Strategy    layout.Strategy
	Coordinator *Coordinator
}

// NewStack applies the initial generation.
func NewStack(m Model, s layout.Strategy, c *Coordinator) *Stack {
	st := &Stack{Model: m, Strategy: s, Coordinator: c}
	c.Apply(st.Snapshot())
	return st
}

// Snapshot computes the layout of the current model.
func (s *Stack) Snapshot() layout.Snapshot { return layout.Compute(s.Strategy, s.Model.Input()) }

// Mutate changes the model and applies the resulting generation.
func (s *Stack) Mutate(fn func(m *Model)) {
	if fn != nil {
		fn(&s.Model)
	}
	s.Coordinator.Apply(s.Snapshot())
}
