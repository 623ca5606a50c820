package page

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notcome/lmtabstack/internal/geom"
	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/layout"
	"github.com/notcome/lmtabstack/internal/values"
)

// snapshot builds a snapshot where every listed page is declared in one
// tab and placed at the given frame; ids mapped to nil are declared only.
func snapshot(t *testing.T, frames map[string]*geom.Rect, order ...string) layout.Snapshot {
	t.Helper()
	tab := layout.Tab{ID: ids.Tab("t")}
	for _, id := range order {
		tab.Pages = append(tab.Pages, layout.PageSpec{ID: ids.Page(id), Title: id})
	}
	strategy := layout.StrategyFunc(func(layout.Input) map[ids.PageID]layout.Placement {
		out := make(map[ids.PageID]layout.Placement)
		for id, f := range frames {
			if f != nil {
				out[ids.Page(id)] = layout.Placement{Frame: *f}
			}
		}
		return out
	})
	return layout.Compute(strategy, layout.Input{Tabs: []layout.Tab{tab}, ActiveTab: tab.ID})
}

func rect(x float64) *geom.Rect {
	r := geom.R(x, 0, 10, 10)
	return &r
}

func live(t *testing.T, snap layout.Snapshot) []*Page {
	t.Helper()
	pages, _ := Replace(nil, snap)
	return pages
}

// hiddenA returns live pages a and b where a is declared but unplaced.
func hiddenA(t *testing.T) []*Page {
	t.Helper()
	pages := live(t, snapshot(t, map[string]*geom.Rect{"a": rect(0), "b": rect(0)}, "a", "b"))
	pages, _ = Replace(pages, snapshot(t, map[string]*geom.Rect{"a": nil, "b": rect(0)}, "a", "b"))
	return pages
}

func kinds(res Result) map[string]BehaviorKind {
	out := make(map[string]BehaviorKind, len(res.Behaviors))
	for id, b := range res.Behaviors {
		out[id.String()] = b.Kind()
	}
	return out
}

func TestReconcileClassifiesEveryPage(t *testing.T) {
	t.Parallel()

	old := live(t, snapshot(t, map[string]*geom.Rect{"a": rect(0), "b": rect(0), "c": rect(0)}, "a", "b", "c"))
	next := snapshot(t, map[string]*geom.Rect{"b": rect(5), "c": rect(0), "d": rect(0)}, "b", "c", "d")

	res := Reconcile(old, next)
	require.Equal(t, map[string]BehaviorKind{"a": Disappear, "b": Change, "d": Appear}, kinds(res))

	// a stays in the list until cleanup; d is inserted immediately
	require.Len(t, res.Pages, 4)
	require.Equal(t, ids.Page("a"), res.Pages[0].ID)
	require.Equal(t, ids.Page("d"), res.Pages[3].ID)

	for _, p := range res.Pages {
		if p.ID == ids.Page("c") {
			require.Nil(t, p.Behavior, "unchanged placement yields no behavior")
		} else {
			require.NotNil(t, p.Behavior)
		}
	}

	from, to, hasFrom, hasTo := res.Behaviors[ids.Page("b")].Placements()
	require.True(t, hasFrom)
	require.True(t, hasTo)
	require.Equal(t, 0.0, from.Frame.MinX())
	require.Equal(t, 5.0, to.Frame.MinX())
}

func TestReconcileDisappearKeepsPageVisible(t *testing.T) {
	t.Parallel()

	old := live(t, snapshot(t, map[string]*geom.Rect{"a": rect(0)}, "a"))
	res := Reconcile(old, snapshot(t, map[string]*geom.Rect{"a": nil}, "a"))

	require.Equal(t, Disappear, res.Behaviors[ids.Page("a")].Kind())
	require.False(t, res.Pages[0].Hidden)
	require.Equal(t, 0.0, res.Behaviors[ids.Page("a")].Target().Frame.MinX())
}

func TestReconcileHiddenPageReappears(t *testing.T) {
	t.Parallel()

	old := hiddenA(t)
	require.True(t, old[0].Hidden)

	res := Reconcile(old, snapshot(t, map[string]*geom.Rect{"a": rect(0), "b": rect(0)}, "a", "b"))
	require.Equal(t, map[string]BehaviorKind{"a": Appear}, kinds(res))
	require.False(t, old[0].Hidden, "hidden is cleared immediately")
}

func TestReconcileHiddenStaysHiddenWithoutBehavior(t *testing.T) {
	t.Parallel()

	old := hiddenA(t)
	res := Reconcile(old, snapshot(t, map[string]*geom.Rect{"a": nil, "b": rect(0)}, "a", "b"))
	require.Empty(t, res.Behaviors)
}

func TestReconcileIdenticalPlacementsYieldNothing(t *testing.T) {
	t.Parallel()

	frames := map[string]*geom.Rect{"a": rect(0), "b": rect(3)}
	old := live(t, snapshot(t, frames, "a", "b"))
	res := Reconcile(old, snapshot(t, frames, "a", "b"))
	require.Empty(t, res.Behaviors)
	for _, p := range res.Pages {
		require.Nil(t, p.Behavior)
	}
}

func TestReplaceDropsUndeclaredAndHidesUnplaced(t *testing.T) {
	t.Parallel()

	old := live(t, snapshot(t, map[string]*geom.Rect{"a": rect(0), "b": rect(0), "c": rect(0)}, "a", "b", "c"))
	old[1].Runtime = NewRuntimeState()
	b := AppearAt(layout.Placement{})
	old[1].Behavior = &b

	pages, removed := Replace(old, snapshot(t, map[string]*geom.Rect{"b": nil, "c": rect(1)}, "b", "c"))
	require.Equal(t, []ids.PageID{ids.Page("a")}, removed)
	require.Len(t, pages, 2)
	require.True(t, pages[0].Hidden)
	require.Nil(t, pages[0].Runtime)
	require.Nil(t, pages[0].Behavior)
	require.Equal(t, 1.0, pages[1].Placement.Frame.MinX())
}

func TestMountLoadsOnce(t *testing.T) {
	t.Parallel()

	p := &Page{ID: ids.Page("x")}
	require.True(t, p.Mount(MountedLayout{PageFrame: geom.R(0, 0, 1, 1)}))
	require.False(t, p.Mount(MountedLayout{PageFrame: geom.R(0, 0, 2, 2)}))
	require.True(t, p.HasLoaded)
	require.Equal(t, 2.0, p.Mounted.PageFrame.Size.Width)
}

func TestRuntimeStateRecordIgnoresStaleTokens(t *testing.T) {
	t.Parallel()

	r := NewRuntimeState()
	require.True(t, r.Record(2))
	require.False(t, r.Record(2))
	require.False(t, r.Record(1))
	require.Equal(t, 2, r.CommittedToken)
}

func TestRuntimeStateDispatchMergesPerRef(t *testing.T) {
	t.Parallel()

	r := NewRuntimeState()
	ref := Content(ids.Page("a"))
	r.Dispatch(EffectUpdate{Ref: ref, Values: values.Make(values.With(values.OffsetX, 1.0), values.With(values.Opacity, 0.5))})
	r.Dispatch(EffectUpdate{Ref: ref, Values: values.Make(values.With(values.OffsetX, 2.0))})

	require.Equal(t, 2.0, values.Get(r.Values[ref], values.OffsetX))
	require.Equal(t, 0.5, values.Get(r.Values[ref], values.Opacity))
	require.Len(t, r.Drain(), 2)
	require.Empty(t, r.Drain())
}

func TestRefKeyPaths(t *testing.T) {
	t.Parallel()

	p := ids.Page("home")
	require.Equal(t, "page:home/content", Content(p).KeyPath())
	require.Equal(t, "page:home/wrapper", Wrapper(p).KeyPath())
	require.Equal(t, "page:home/element:card", Element(p, ids.Element("card")).KeyPath())
	require.Equal(t, "page:home/morphing:title", Morphing(p, ids.Morphing("title")).KeyPath())
}
