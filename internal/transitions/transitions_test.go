package transitions

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notcome/lmtabstack/internal/animation"
	"github.com/notcome/lmtabstack/internal/geom"
	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/layout"
	"github.com/notcome/lmtabstack/internal/page"
	"github.com/notcome/lmtabstack/internal/sched"
	"github.com/notcome/lmtabstack/internal/tabstack"
	"github.com/notcome/lmtabstack/internal/transition"
	"github.com/notcome/lmtabstack/internal/values"
)

var (
	tab    = ids.Tab("main")
	list   = ids.Page("list")
	detail = ids.Page("detail")
	card   = ids.Element("card-1")
	timing = animation.Timing{Curve: animation.EaseInOut, Duration: 200 * time.Millisecond}
	screen = geom.R(0, 0, 90, 30)
)

func infos(lowerKind, upperKind page.Behavior, elements map[ids.TransitionElementID]geom.Rect) []transition.PageInfo {
	return []transition.PageInfo{
		{ID: list, Behavior: lowerKind, Mounted: page.MountedLayout{PageFrame: screen, TransitionElements: elements}},
		{ID: detail, Behavior: upperKind, Mounted: page.MountedLayout{PageFrame: screen}},
	}
}

// valuesAt evaluates def and flattens its tracks per ref.
func valuesAt(t *testing.T, def transition.Definition, ctx *transition.Context) map[page.Ref]values.Values {
	t.Helper()
	tracks, err := transition.Evaluate(def, ctx)
	require.NoError(t, err)
	out := make(map[page.Ref]values.Values)
	for _, tr := range tracks {
		for _, p := range tr.Patches {
			out[p.Ref] = out[p.Ref].Merge(p.Values)
		}
	}
	return out
}

func TestStackNodeChoosesPushOrPop(t *testing.T) {
	t.Parallel()

	node := StackNode(list, detail, timing)
	appear, disappear := page.AppearAt(layout.Placement{}), page.DisappearFrom(layout.Placement{})

	pushing := infos(disappear, appear, nil)
	def, err := node.Resolve(transition.NewContext(transition.Start, false, pushing))
	require.NoError(t, err)

	start := valuesAt(t, def, transition.NewContext(transition.Start, false, pushing))
	require.Equal(t, 90.0, values.Get(start[page.Content(detail)], values.OffsetX))
	end := valuesAt(t, def, transition.NewContext(transition.End, false, pushing))
	require.Equal(t, 0.0, values.Get(end[page.Content(detail)], values.OffsetX))
	require.InDelta(t, -30.0, values.Get(end[page.Content(list)], values.OffsetX), 1e-9)
	require.Equal(t, dimmed, values.Get(end[page.Content(list)], values.Opacity))

	popping := infos(appear, disappear, nil)
	def, err = node.Resolve(transition.NewContext(transition.Start, false, popping))
	require.NoError(t, err)
	end = valuesAt(t, def, transition.NewContext(transition.End, false, popping))
	require.Equal(t, 90.0, values.Get(end[page.Content(detail)], values.OffsetX))
	require.Equal(t, 1.0, values.Get(end[page.Content(list)], values.Opacity))
}

func TestCrossfade(t *testing.T) {
	t.Parallel()

	ctx := transition.NewContext(transition.End, false, nil)
	got := valuesAt(t, Crossfade(list, detail, timing), ctx)
	require.Equal(t, 0.0, values.Get(got[page.Wrapper(list)], values.Opacity))
	require.Equal(t, 1.0, values.Get(got[page.Wrapper(detail)], values.Opacity))
}

func TestCardExpandNeedsTheCardFrame(t *testing.T) {
	t.Parallel()

	def := CardExpand{List: list, Detail: detail, Card: card, Title: "Hello", Timing: timing}
	appear, disappear := page.AppearAt(layout.Placement{}), page.DisappearFrom(layout.Placement{})

	ctx := transition.NewContext(transition.Start, false, infos(disappear, appear, nil))
	_, err := transition.Evaluate(def, ctx)
	require.ErrorIs(t, err, transition.ErrMissingElement)

	elements := map[ids.TransitionElementID]geom.Rect{card: geom.R(0, 0, 45, 3)}
	ctx = transition.NewContext(transition.Start, false, infos(disappear, appear, elements))
	start := valuesAt(t, def, ctx)
	content := start[page.Content(detail)]
	require.Equal(t, 0.5, values.Get(content, values.ScaleX))
	require.Equal(t, 0.1, values.Get(content, values.ScaleY))
	require.Equal(t, -22.5, values.Get(content, values.OffsetX))
	require.Equal(t, 0.0, values.Get(start[page.Morphing(detail, TitleView)], values.Opacity))

	// collapsing runs the same frames the other way
	ctx = transition.NewContext(transition.End, false, infos(appear, disappear, elements))
	end := valuesAt(t, def, ctx)
	require.Equal(t, 0.5, values.Get(end[page.Content(detail)], values.ScaleX))
}

func newStack(t *testing.T, nodes ...transition.Node) (*tabstack.Stack, *sched.Manual) {
	t.Helper()
	clock := &sched.Manual{}
	c := tabstack.New(tabstack.Options{Scheduler: clock, Logger: slog.New(slog.DiscardHandler)})
	c.Register(nodes...)
	m := tabstack.Model{
		Tabs:      []layout.Tab{{ID: tab, Pages: []layout.PageSpec{{ID: list, Title: "List"}}}},
		ActiveTab: tab,
		Bounds:    screen,
	}
	s := tabstack.NewStack(m, layout.StackStrategy{}, c)
	return s, clock
}

func mountAll(t *testing.T, c *tabstack.Coordinator, elements map[ids.TransitionElementID]geom.Rect) {
	t.Helper()
	for _, p := range c.Pages() {
		require.NoError(t, c.Mount(p.ID, page.MountedLayout{PageFrame: p.Placement.Frame, TransitionElements: elements}))
	}
}

func TestCardExpandThroughCoordinator(t *testing.T) {
	t.Parallel()

	s, clock := newStack(t, CardNode(list, detail, card, "Hello", timing))
	mountAll(t, s.Coordinator, map[ids.TransitionElementID]geom.Rect{card: geom.R(0, 0, 45, 3)})

	s.Mutate(func(m *tabstack.Model) { m.Push(tab, layout.PageSpec{ID: detail, Title: "Detail"}) })
	mountAll(t, s.Coordinator, map[ids.TransitionElementID]geom.Rect{card: geom.R(0, 0, 45, 3)})
	require.Equal(t, tabstack.StageResolved, s.Coordinator.Stage())

	p, _ := s.Coordinator.Page(detail)
	require.Equal(t, "Hello", p.Runtime.MorphingViews[TitleView])

	var timed []page.EffectUpdate
	s.Coordinator.Render(func(u page.EffectUpdate) {
		if u.Animation != nil {
			timed = append(timed, u)
		}
	})
	require.NotEmpty(t, timed)
	clock.Advance(timing.Total())
	require.Equal(t, tabstack.StageNone, s.Coordinator.Stage())
}

func TestEdgeSwipeCancelPutsPageBack(t *testing.T) {
	t.Parallel()

	s, clock := newStack(t)
	s.Mutate(func(m *tabstack.Model) { m.Push(tab, layout.PageSpec{ID: detail, Title: "Detail"}) })
	mountAll(t, s.Coordinator, nil)

	g := &EdgeSwipe{Edge: 2, Timing: timing}
	drag := tabstack.NewDrag(tabstack.NewController(s), g, animation.DefaultSampleInterval)

	ok, err := drag.Began(geom.Point{X: 1, Y: 10})
	require.NoError(t, err)
	require.True(t, ok)
	top, _ := s.Model.Active()
	require.Len(t, top.Pages, 1, "start mutation pops")

	require.NoError(t, drag.Changed(geom.Point{X: 11, Y: 10}))
	it, _ := s.Coordinator.Interactive()
	require.Equal(t, 10.0, it.Definition.(*SwipeBack).Offset)

	require.NoError(t, drag.Ended(geom.Point{X: 12, Y: 10}))
	require.True(t, it.Definition.(*SwipeBack).Cancelled)
	top, _ = s.Model.Active()
	require.Len(t, top.Pages, 2, "cancel pushes the page back")

	var last values.Values
	s.Coordinator.Render(func(u page.EffectUpdate) {
		if u.Ref == page.Content(detail) {
			last = u.Values
		}
	})
	require.Equal(t, 0.0, values.Get(last, values.OffsetX))

	clock.Advance(time.Second)
	require.Equal(t, tabstack.StageNone, s.Coordinator.Stage())
	p, ok := s.Coordinator.Page(detail)
	require.True(t, ok)
	require.False(t, p.Hidden)
}
