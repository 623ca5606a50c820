package transition

import (
	"github.com/notcome/lmtabstack/internal/animation"
	"github.com/notcome/lmtabstack/internal/page"
	"github.com/notcome/lmtabstack/internal/values"
)

// Patch sets values on one element.
type Patch struct {
	Ref    page.Ref
	Values values.Values
}

// Track is a group of patches animated with one timing.
type Track struct {
	Timing  animation.Timing
	Patches []Patch
}

// Builder collects tracks in declaration order.
type Builder struct {
	tracks []Track
}

// Track appends a track with timing t and lets fn fill it.
func (b *Builder) Track(t animation.Timing, fn func(tb *TrackBuilder)) {
	tb := &TrackBuilder{track: Track{Timing: t}}
	fn(tb)
	b.tracks = append(b.tracks, tb.track)
}

// Tracks returns the declared tracks.
func (b *Builder) Tracks() []Track { return b.tracks }

type TrackBuilder struct {
	track Track
}

// Patch appends vs for ref. Several patches may target the same ref; later
// ones win on shared keys.
func (tb *TrackBuilder) Patch(ref page.Ref, vs values.Values) *TrackBuilder {
	tb.track.Patches = append(tb.track.Patches, Patch{Ref: ref, Values: vs})
	return tb
}

// SetValue patches a single typed key.
func SetValue[V comparable](tb *TrackBuilder, ref page.Ref, k values.Key[V], v V) *TrackBuilder {
	return tb.Patch(ref, values.Make(values.With(k, v)))
}

func (tb *TrackBuilder) Offset(ref page.Ref, x, y float64) *TrackBuilder {
	return tb.Patch(ref, values.Make(values.With(values.OffsetX, x), values.With(values.OffsetY, y)))
}

func (tb *TrackBuilder) Scale(ref page.Ref, x, y float64) *TrackBuilder {
	return tb.Patch(ref, values.Make(values.With(values.ScaleX, x), values.With(values.ScaleY, y)))
}

func (tb *TrackBuilder) Opacity(ref page.Ref, o float64) *TrackBuilder {
	return SetValue(tb, ref, values.Opacity, o)
}

func (tb *TrackBuilder) Blur(ref page.Ref, r float64) *TrackBuilder {
	return SetValue(tb, ref, values.BlurRadius, r)
}
