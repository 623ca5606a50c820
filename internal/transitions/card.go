package transitions

import (
	"fmt"

	"github.com/notcome/lmtabstack/internal/animation"
	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/page"
	"github.com/notcome/lmtabstack/internal/transition"
)

// TitleView is the morphing view that carries a card's title into the
// detail page.
var TitleView = ids.Morphing("title")

// CardExpand grows detail out of the card element on list, or shrinks it
// back into the card when detail is the page disappearing.
type CardExpand struct {
	List   ids.PageID
	Detail ids.PageID
	Card   ids.TransitionElementID
	Title  string
	Timing animation.Timing
}

func (c CardExpand) MorphingViews(ctx *transition.Context) []transition.MorphingView {
	return []transition.MorphingView{{Page: c.Detail, ID: TitleView, Content: c.Title}}
}

func (c CardExpand) Build(ctx *transition.Context, b *transition.Builder) error {
	card, err := ctx.ElementFrame(c.List, c.Card)
	if err != nil {
		return err
	}
	detail, err := ctx.Page(c.Detail)
	if err != nil {
		return err
	}
	frame := detail.Mounted.PageFrame
	if frame.IsEmpty() {
		return fmt.Errorf("detail %s has no frame: %w", c.Detail, transition.ErrMissingElement)
	}

	expanding := detail.Behavior.Kind() != page.Disappear
	collapsed := (ctx.Progress == transition.Start) == expanding

	content := page.Content(c.Detail)
	title := page.Morphing(c.Detail, TitleView)
	b.Track(c.Timing, func(tb *transition.TrackBuilder) {
		if collapsed {
			tb.Scale(content, card.Size.Width/frame.Size.Width, card.Size.Height/frame.Size.Height)
			tb.Offset(content, card.MidX()-frame.MidX(), card.MidY()-frame.MidY())
			tb.Opacity(page.Content(c.List), 1)
			return
		}
		tb.Scale(content, 1, 1)
		tb.Offset(content, 0, 0)
		tb.Opacity(page.Content(c.List), dimmed)
	})
	// the title settles in the second half
	late := animation.Timing{Curve: c.Timing.Curve, Duration: c.Timing.Duration / 2, Delay: c.Timing.Duration / 2}
	b.Track(late, func(tb *transition.TrackBuilder) {
		if collapsed {
			tb.Opacity(title, 0)
		} else {
			tb.Opacity(title, 1)
		}
	})
	return nil
}

// CardNode resolves CardExpand between a list page and the detail page
// opened from one of its cards.
func CardNode(list, detail ids.PageID, card ids.TransitionElementID, title string, timing animation.Timing) transition.Node {
	def := CardExpand{List: list, Detail: detail, Card: card, Title: title, Timing: timing}
	return transition.Node{
		Source: detail,
		Target: list,
		Resolve: func(*transition.Context) (transition.Definition, error) {
			return def, nil
		},
	}
}
