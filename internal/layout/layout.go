// Package layout holds the immutable snapshot produced by one layout pass and
// the contract of the strategy that computes it.
package layout

import (
	"github.com/notcome/lmtabstack/internal/geom"
	"github.com/notcome/lmtabstack/internal/ids"
)

// Placement is where the strategy puts a page for this pass.
type Placement struct {
	ZIndex         float64
	Frame          geom.Rect
	SafeAreaInsets geom.EdgeInsets
}

// PageSpec describes a page as the tab model declares it. Content is opaque
// to the engine and handed to rendering code untouched.
type PageSpec struct {
	ID       ids.PageID
	Title    string
	Content  any
	Elements []ids.TransitionElementID
}

// Tab is an ordered stack of pages; the last page is on top.
type Tab struct {
	ID    ids.TabID
	Title string
	Pages []PageSpec
}

// Top returns the page on top of the stack.
func (t Tab) Top() (PageSpec, bool) {
	if len(t.Pages) == 0 {
		return PageSpec{}, false
	}
	return t.Pages[len(t.Pages)-1], true
}

// Decoration is a page that lives outside any tab, at a frame the model
// chooses.
type Decoration struct {
	Page   PageSpec
	Frame  geom.Rect
	ZIndex float64
}

// Input is everything a strategy sees.
type Input struct {
	Bounds         geom.Rect
	SafeAreaInsets geom.EdgeInsets
	Tabs           []Tab
	ActiveTab      ids.TabID
	Decorations    []Decoration
}

// Strategy computes placements. Pages it leaves out are not placed.
type Strategy interface {
	Place(in Input) map[ids.PageID]Placement
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(in Input) map[ids.PageID]Placement

func (f StrategyFunc) Place(in Input) map[ids.PageID]Placement { return f(in) }

// Snapshot is the result of one layout pass. It is never mutated after
// Compute returns, so it may be shared freely within a pass.
type Snapshot struct {
	tabs       []Tab
	activeTab  ids.TabID
	specs      map[ids.PageID]PageSpec
	order      []ids.PageID
	placements map[ids.PageID]Placement
}

// Compute runs the strategy over in.
func Compute(s Strategy, in Input) Snapshot {
	snap := Snapshot{
		tabs:       append([]Tab(nil), in.Tabs...),
		activeTab:  in.ActiveTab,
		specs:      make(map[ids.PageID]PageSpec),
		placements: make(map[ids.PageID]Placement),
	}
	add := func(spec PageSpec) {
		if _, dup := snap.specs[spec.ID]; dup {
			return
		}
		snap.specs[spec.ID] = spec
		snap.order = append(snap.order, spec.ID)
	}
	for _, tab := range in.Tabs {
		for _, p := range tab.Pages {
			add(p)
		}
	}
	for _, d := range in.Decorations {
		add(d.Page)
	}
	if s != nil {
		for id, p := range s.Place(in) {
			if _, known := snap.specs[id]; known {
				snap.placements[id] = p
			}
		}
	}
	return snap
}

// Placement returns the placement of id, if it was placed.
func (s Snapshot) Placement(id ids.PageID) (Placement, bool) {
	p, ok := s.placements[id]
	return p, ok
}

// Spec returns the declared page, placed or not.
func (s Snapshot) Spec(id ids.PageID) (PageSpec, bool) {
	p, ok := s.specs[id]
	return p, ok
}

// Contains reports whether id is declared by a tab or decoration.
func (s Snapshot) Contains(id ids.PageID) bool {
	_, ok := s.specs[id]
	return ok
}

// PageIDs returns every declared page in declaration order.
func (s Snapshot) PageIDs() []ids.PageID {
	return append([]ids.PageID(nil), s.order...)
}

// PlacedIDs returns the placed pages in declaration order.
func (s Snapshot) PlacedIDs() []ids.PageID {
	out := make([]ids.PageID, 0, len(s.placements))
	for _, id := range s.order {
		if _, ok := s.placements[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (s Snapshot) Tabs() []Tab { return append([]Tab(nil), s.tabs...) }
func (s Snapshot) ActiveTab() ids.TabID { return s.activeTab }
func (s Snapshot) IsZero() bool { return s.specs == nil }
