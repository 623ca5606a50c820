// Package transitions is a small library of stock page transitions.
package transitions

import (
	"github.com/notcome/lmtabstack/internal/animation"
	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/page"
	"github.com/notcome/lmtabstack/internal/transition"
)

// parallax is how far, as a fraction of the width, a covered page shifts.
const parallax = 1.0 / 3

// dimmed is the opacity of a covered page.
const dimmed = 0.6

// Push slides upper in from the trailing edge over lower.
func Push(lower, upper ids.PageID, timing animation.Timing) transition.Definition {
	return transition.Funcs{Tracks: func(ctx *transition.Context, b *transition.Builder) error {
		frame, err := ctx.Frame(upper)
		if err != nil {
			return err
		}
		w := frame.Size.Width
		b.Track(timing, func(tb *transition.TrackBuilder) {
			if ctx.Progress == transition.Start {
				tb.Offset(page.Content(upper), w, 0)
				tb.Offset(page.Content(lower), 0, 0).Opacity(page.Content(lower), 1)
				return
			}
			tb.Offset(page.Content(upper), 0, 0)
			tb.Offset(page.Content(lower), -w*parallax, 0).Opacity(page.Content(lower), dimmed)
		})
		return nil
	}}
}

// Pop is Push played backwards: upper leaves to the trailing edge and lower
// comes back from under it.
func Pop(lower, upper ids.PageID, timing animation.Timing) transition.Definition {
	return transition.Funcs{Tracks: func(ctx *transition.Context, b *transition.Builder) error {
		frame, err := ctx.Frame(upper)
		if err != nil {
			return err
		}
		w := frame.Size.Width
		b.Track(timing, func(tb *transition.TrackBuilder) {
			if ctx.Progress == transition.Start {
				tb.Offset(page.Content(upper), 0, 0)
				tb.Offset(page.Content(lower), -w*parallax, 0).Opacity(page.Content(lower), dimmed)
				return
			}
			tb.Offset(page.Content(upper), w, 0)
			tb.Offset(page.Content(lower), 0, 0).Opacity(page.Content(lower), 1)
		})
		return nil
	}}
}

// Crossfade fades from one page to another, used between tabs.
func Crossfade(from, to ids.PageID, timing animation.Timing) transition.Definition {
	return transition.Funcs{Tracks: func(ctx *transition.Context, b *transition.Builder) error {
		out, in := 1.0, 0.0
		if ctx.Progress == transition.End {
			out, in = 0, 1
		}
		b.Track(timing, func(tb *transition.TrackBuilder) {
			tb.Opacity(page.Wrapper(from), out)
			tb.Opacity(page.Wrapper(to), in)
		})
		return nil
	}}
}

// StackNode resolves a push when upper appears over lower and a pop when
// upper disappears from over it.
func StackNode(lower, upper ids.PageID, timing animation.Timing) transition.Node {
	return transition.Node{
		Source: upper,
		Target: lower,
		Resolve: func(ctx *transition.Context) (transition.Definition, error) {
			info, err := ctx.Page(upper)
			if err != nil {
				return nil, err
			}
			if info.Behavior.Kind() == page.Appear {
				return Push(lower, upper, timing), nil
			}
			return Pop(lower, upper, timing), nil
		},
	}
}

// TabNode crossfades whenever from and to swap visibility.
func TabNode(from, to ids.PageID, timing animation.Timing) transition.Node {
	return transition.Node{
		Source: to,
		Target: from,
		Resolve: func(ctx *transition.Context) (transition.Definition, error) {
			info, err := ctx.Page(to)
			if err != nil {
				return nil, err
			}
			if info.Behavior.Kind() == page.Appear {
				return Crossfade(from, to, timing), nil
			}
			return Crossfade(to, from, timing), nil
		},
	}
}
