package layout

import (
	"github.com/notcome/lmtabstack/internal/geom"
	"github.com/notcome/lmtabstack/internal/ids"
)

// StackStrategy places the top page of the active tab over the content area
// and, when KeepBeneath is set, the page beneath it one level lower so a
// pop has something to reveal. Inactive tabs are not placed. Decorations go
// where the model put them.
type StackStrategy struct {
	// TabBarHeight is reserved at the bottom of the bounds.
	TabBarHeight float64
	KeepBeneath  bool
}

func (s StackStrategy) Place(in Input) map[ids.PageID]Placement {
	out := make(map[ids.PageID]Placement)
	content := in.Bounds.Inset(in.SafeAreaInsets)
	content.Size.Height -= s.TabBarHeight
	if content.Size.Height < 0 {
		content.Size.Height = 0
	}
	safe := geom.EdgeInsets{}
	for _, tab := range in.Tabs {
		if tab.ID != in.ActiveTab {
			continue
		}
		n := len(tab.Pages)
		if n == 0 {
			break
		}
		out[tab.Pages[n-1].ID] = Placement{ZIndex: float64(n - 1), Frame: content, SafeAreaInsets: safe}
		if s.KeepBeneath && n > 1 {
			out[tab.Pages[n-2].ID] = Placement{ZIndex: float64(n - 2), Frame: content, SafeAreaInsets: safe}
		}
	}
	for _, d := range in.Decorations {
		out[d.Page.ID] = Placement{ZIndex: d.ZIndex, Frame: d.Frame}
	}
	return out
}
