package tui

import (
	"fmt"

	"github.com/notcome/lmtabstack/internal/geom"
	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/layout"
	"github.com/notcome/lmtabstack/internal/page"
	"github.com/notcome/lmtabstack/internal/tabstack"
)

// Content is what the host draws inside a page box.
type Content struct {
	Lines []string
	// Cards become transition elements, one per card, stacked below Lines.
	Cards []string
}

const cardHeight = 3

func cardElement(i int) ids.TransitionElementID { return ids.Element(fmt.Sprintf("card-%d", i+1)) }

func contentPage(title string, c Content) layout.PageSpec {
	spec := layout.PageSpec{ID: ids.NewPageID(), Title: title, Content: c}
	for i := range c.Cards {
		spec.Elements = append(spec.Elements, cardElement(i))
	}
	return spec
}

func contentOf(spec layout.PageSpec) Content {
	c, _ := spec.Content.(Content)
	return c
}

// DemoModel is the starting state of the demo: three tabs, each with a root
// page. The inbox root lists cards that expand into detail pages.
func DemoModel() tabstack.Model {
	inbox := contentPage("Inbox", Content{
		Lines: []string{"e: open the first card", "n: push a page, backspace: pop"},
		Cards: []string{"Quarterly report", "Team offsite", "Release notes"},
	})
	search := contentPage("Search", Content{Lines: []string{": jumps to a page by title"}})
	profile := contentPage("Profile", Content{Lines: []string{"m toggles reduced motion", "R clears the journal"}})
	return tabstack.Model{
		Tabs: []layout.Tab{
			{ID: ids.Tab("inbox"), Title: "Inbox", Pages: []layout.PageSpec{inbox}},
			{ID: ids.Tab("search"), Title: "Search", Pages: []layout.PageSpec{search}},
			{ID: ids.Tab("profile"), Title: "Profile", Pages: []layout.PageSpec{profile}},
		},
		ActiveTab: ids.Tab("inbox"),
	}
}

// measure is the geometry the host reports for spec drawn at frame.
func measure(spec layout.PageSpec, frame geom.Rect) page.MountedLayout {
	m := page.MountedLayout{PageFrame: frame}
	c := contentOf(spec)
	if len(c.Cards) == 0 {
		return m
	}
	m.TransitionElements = make(map[ids.TransitionElementID]geom.Rect, len(c.Cards))
	top := frame.MinY() + 1 + float64(len(c.Lines)) + 1
	for i := range c.Cards {
		r := geom.R(frame.MinX()+2, top+float64(i*cardHeight), frame.Size.Width-4, cardHeight)
		if r.MaxY() > frame.MaxY()-1 || r.Size.Width <= 0 {
			break
		}
		m.TransitionElements[cardElement(i)] = r
	}
	return m
}
