package transitions

import (
	"math"

	"github.com/notcome/lmtabstack/internal/animation"
	"github.com/notcome/lmtabstack/internal/geom"
	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/layout"
	"github.com/notcome/lmtabstack/internal/page"
	"github.com/notcome/lmtabstack/internal/tabstack"
	"github.com/notcome/lmtabstack/internal/transition"
)

// SwipeBack is the caller-owned state of an interactive pop. While the drag
// is live, Offset follows the finger; once the transition is complete the
// upper page settles off screen, or back in place when Cancelled.
type SwipeBack struct {
	Lower, Upper ids.PageID
	Offset       float64
	Cancelled    bool
	Done         bool
	Timing       animation.Timing
}

func (s *SwipeBack) MorphingViews(*transition.Context) []transition.MorphingView { return nil }

func (s *SwipeBack) Build(ctx *transition.Context, b *transition.Builder) error {
	frame, err := ctx.Frame(s.Upper)
	if err != nil {
		return err
	}
	w := frame.Size.Width
	if w <= 0 {
		return nil
	}
	x := math.Max(0, math.Min(s.Offset, w))
	switch {
	case s.Done && s.Cancelled:
		x = 0
	case s.Done:
		x = w
	}
	f := x / w
	b.Track(s.Timing, func(tb *transition.TrackBuilder) {
		tb.Offset(page.Content(s.Upper), x, 0)
		tb.Offset(page.Content(s.Lower), -w*parallax*(1-f), 0).
			Opacity(page.Content(s.Lower), dimmed+(1-dimmed)*f)
	})
	return nil
}

// EdgeSwipe pops the top page of the active tab when a drag starts near the
// leading edge. Releasing past half the width, or flinging faster than
// FlingVelocity, commits the pop; anything else puts the page back.
type EdgeSwipe struct {
	Edge          float64
	FlingVelocity float64
	Timing        animation.Timing

	origin float64
	tab    ids.TabID
	popped layout.PageSpec
}

var _ tabstack.Gesture = (*EdgeSwipe)(nil)

func (g *EdgeSwipe) Began(m tabstack.Model, offset geom.Point) (func(*tabstack.Model), tabstack.Provider, bool) {
	if offset.X-m.Bounds.MinX() > g.Edge {
		return nil, nil, false
	}
	tab, ok := m.Active()
	if !ok || len(tab.Pages) < 2 {
		return nil, nil, false
	}
	n := len(tab.Pages)
	state := &SwipeBack{Lower: tab.Pages[n-2].ID, Upper: tab.Pages[n-1].ID, Timing: g.Timing}
	g.origin = offset.X
	g.tab = tab.ID
	g.popped = tab.Pages[n-1]

	mutation := func(m *tabstack.Model) { m.Pop(g.tab) }
	provide := func(*transition.Context) *transition.Interactive { return transition.NewInteractive(state) }
	return mutation, provide, true
}

func (g *EdgeSwipe) Changed(it *transition.Interactive, offset geom.Point) {
	if s, ok := it.Definition.(*SwipeBack); ok {
		s.Offset = offset.X - g.origin
	}
}

func (g *EdgeSwipe) Ended(m tabstack.Model, offset, velocity geom.Point) (func(*tabstack.Model), func(*transition.Interactive)) {
	dx := offset.X - g.origin
	commit := dx > m.Bounds.Size.Width/2 || (g.FlingVelocity > 0 && velocity.X > g.FlingVelocity)
	settle := func(it *transition.Interactive) {
		if s, ok := it.Definition.(*SwipeBack); ok {
			s.Offset = dx
			s.Done = true
			s.Cancelled = !commit
		}
	}
	if commit {
		return nil, settle
	}
	popped, tab := g.popped, g.tab
	return func(m *tabstack.Model) { m.Push(tab, popped) }, settle
}
