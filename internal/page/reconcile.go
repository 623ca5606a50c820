package page

import (
	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/layout"
)

// Result of classifying one layout generation against the live pages.
type Result struct {
	Pages     []*Page
	Behaviors map[ids.PageID]Behavior
}

// Reconcile diffs the live pages against snap. Each old page gets at most
// one behavior:
//
//   - not placed in snap: Disappear from its last placement; it stays in the
//     list until the transition is cleaned up
//   - placed somewhere else: Change
//   - hidden and placed again: Appear, with Hidden cleared now
//   - placed where it already was: nothing
//
// Pages placed in snap that were not live are created and Appear.
// Behaviors are also stored on the page records. An empty map means the
// caller should apply snap directly with Replace.
func Reconcile(old []*Page, snap layout.Snapshot) Result {
	res := Result{
		Pages:     make([]*Page, 0, len(old)),
		Behaviors: make(map[ids.PageID]Behavior),
	}
	live := make(map[ids.PageID]bool, len(old))
	for _, p := range old {
		live[p.ID] = true
		res.Pages = append(res.Pages, p)
		if spec, ok := snap.Spec(p.ID); ok {
			p.Spec = spec
		}
		placement, placed := snap.Placement(p.ID)
		switch {
		case p.Hidden:
			if placed {
				p.Hidden = false
				p.Placement = placement
				res.Behaviors[p.ID] = AppearAt(placement)
			}
		case !placed:
			res.Behaviors[p.ID] = DisappearFrom(p.Placement)
		case placement != p.Placement:
			res.Behaviors[p.ID] = ChangeBetween(p.Placement, placement)
			p.Placement = placement
		}
	}
	for _, id := range snap.PlacedIDs() {
		if live[id] {
			continue
		}
		spec, _ := snap.Spec(id)
		placement, _ := snap.Placement(id)
		res.Pages = append(res.Pages, &Page{ID: id, Spec: spec, Placement: placement})
		res.Behaviors[id] = AppearAt(placement)
	}
	for _, p := range res.Pages {
		if b, ok := res.Behaviors[p.ID]; ok {
			p.Behavior = &b
		}
	}
	return res
}

// Replace makes snap the authoritative page list without a transition.
// Pages declared but not placed stay as hidden records; pages not declared
// at all are dropped and returned in removed. Transition-scoped state is
// cleared on every surviving page.
func Replace(old []*Page, snap layout.Snapshot) (pages []*Page, removed []ids.PageID) {
	byID := make(map[ids.PageID]*Page, len(old))
	for _, p := range old {
		byID[p.ID] = p
	}
	pages = make([]*Page, 0, len(old))
	for _, id := range snap.PageIDs() {
		spec, _ := snap.Spec(id)
		placement, placed := snap.Placement(id)
		p, ok := byID[id]
		if !ok {
			if !placed {
				continue
			}
			p = &Page{ID: id}
		}
		delete(byID, id)
		p.Spec = spec
		p.ClearTransition()
		if placed {
			p.Placement = placement
			p.Hidden = false
		} else {
			p.Hidden = true
		}
		pages = append(pages, p)
	}
	for _, p := range old {
		if _, gone := byID[p.ID]; gone {
			removed = append(removed, p.ID)
		}
	}
	return pages, removed
}
