package tui

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/tabstack"
)

type destination struct {
	Tab   ids.TabID
	Depth int
	Title string
}

// closestPage finds the page whose title is nearest to query by edit
// distance. A title that starts with the query always wins over one that
// merely resembles it. Ties keep tab order.
func closestPage(m tabstack.Model, query string) (destination, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return destination{}, false
	}
	var (
		best  destination
		score = -1
	)
	for _, tab := range m.Tabs {
		for depth, p := range tab.Pages {
			title := strings.ToLower(p.Title)
			d := levenshtein.ComputeDistance(q, title)
			if strings.HasPrefix(title, q) {
				d = 0
			}
			if d >= len([]rune(title)) {
				continue
			}
			if score < 0 || d < score {
				best, score = destination{Tab: tab.ID, Depth: depth, Title: p.Title}, d
			}
		}
	}
	return best, score >= 0
}

// goTo selects the destination tab and pops every page above it.
func goTo(d destination) func(*tabstack.Model) {
	return func(m *tabstack.Model) {
		m.Select(d.Tab)
		for {
			tab, ok := m.Tab(d.Tab)
			if !ok || len(tab.Pages) <= d.Depth+1 {
				return
			}
			if _, ok := m.Pop(d.Tab); !ok {
				return
			}
		}
	}
}
