package tabstack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/layout"
)

func twoTabs() Model {
	return Model{
		Tabs: []layout.Tab{
			{ID: ids.Tab("inbox"), Pages: []layout.PageSpec{{ID: ids.Page("inbox")}}},
			{ID: ids.Tab("settings"), Pages: []layout.PageSpec{{ID: ids.Page("settings")}}},
		},
		ActiveTab: ids.Tab("inbox"),
	}
}

func TestModelPushPopDoNotAliasEarlierCopies(t *testing.T) {
	t.Parallel()

	m := twoTabs()
	before := m
	require.True(t, m.Push(ids.Tab("inbox"), layout.PageSpec{ID: ids.Page("thread")}))
	require.Len(t, before.Tabs[0].Pages, 1)

	tab, ok := m.Tab(ids.Tab("inbox"))
	require.True(t, ok)
	top, _ := tab.Top()
	require.Equal(t, ids.Page("thread"), top.ID)

	afterPush := m
	popped, ok := m.Pop(ids.Tab("inbox"))
	require.True(t, ok)
	require.Equal(t, ids.Page("thread"), popped.ID)
	require.Len(t, afterPush.Tabs[0].Pages, 2)

	_, ok = m.Pop(ids.Tab("inbox"))
	require.False(t, ok, "root page stays")
	require.False(t, m.Push(ids.Tab("missing"), layout.PageSpec{}))
}

func TestModelCycleWraps(t *testing.T) {
	t.Parallel()

	m := twoTabs()
	m.Cycle(1)
	require.Equal(t, ids.Tab("settings"), m.ActiveTab)
	m.Cycle(1)
	require.Equal(t, ids.Tab("inbox"), m.ActiveTab)
	m.Cycle(-1)
	require.Equal(t, ids.Tab("settings"), m.ActiveTab)

	require.False(t, m.Select(ids.Tab("nope")))
	require.True(t, m.Select(ids.Tab("inbox")))
	active, _ := m.Active()
	require.Equal(t, ids.Tab("inbox"), active.ID)
}
