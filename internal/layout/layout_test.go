package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/notcome/lmtabstack/internal/geom"
	"github.com/notcome/lmtabstack/internal/ids"
)

func spec(id string) PageSpec { return PageSpec{ID: ids.Page(id), Title: id} }

func TestStackStrategyPlacesTopOfActiveTab(t *testing.T) {
	t.Parallel()

	in := Input{
		Bounds:    geom.R(0, 0, 80, 24),
		Tabs:      []Tab{{ID: ids.Tab("a"), Pages: []PageSpec{spec("a1"), spec("a2")}}, {ID: ids.Tab("b"), Pages: []PageSpec{spec("b1")}}},
		ActiveTab: ids.Tab("a"),
		Decorations: []Decoration{
			{Page: spec("toast"), Frame: geom.R(60, 0, 20, 3), ZIndex: 100},
		},
	}
	snap := Compute(StackStrategy{TabBarHeight: 1}, in)

	want := []ids.PageID{ids.Page("a2"), ids.Page("toast")}
	if diff := cmp.Diff(want, snap.PlacedIDs(), cmp.Comparer(func(a, b ids.PageID) bool { return a == b })); diff != "" {
		t.Fatalf("placed ids mismatch (-want +got):\n%s", diff)
	}
	p, ok := snap.Placement(ids.Page("a2"))
	require.True(t, ok)
	require.Equal(t, geom.R(0, 0, 80, 23), p.Frame)
	require.Equal(t, 1.0, p.ZIndex)

	require.True(t, snap.Contains(ids.Page("b1")))
	_, placed := snap.Placement(ids.Page("b1"))
	require.False(t, placed)
}

func TestStackStrategyKeepBeneath(t *testing.T) {
	t.Parallel()

	in := Input{
		Bounds:    geom.R(0, 0, 10, 10),
		Tabs:      []Tab{{ID: ids.Tab("a"), Pages: []PageSpec{spec("1"), spec("2"), spec("3")}}},
		ActiveTab: ids.Tab("a"),
	}
	snap := Compute(StackStrategy{KeepBeneath: true}, in)
	require.Len(t, snap.PlacedIDs(), 2)
	beneath, ok := snap.Placement(ids.Page("2"))
	require.True(t, ok)
	require.Equal(t, 1.0, beneath.ZIndex)
}

func TestComputeIgnoresPlacementsForUndeclaredPages(t *testing.T) {
	t.Parallel()

	stray := StrategyFunc(func(Input) map[ids.PageID]Placement {
		return map[ids.PageID]Placement{ids.Page("ghost"): {}}
	})
	snap := Compute(stray, Input{})
	require.Empty(t, snap.PlacedIDs())
	require.False(t, snap.IsZero())
}
