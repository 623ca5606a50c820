// Package geom holds the plain value types used for placements and
// mounted layouts.
package geom

import "fmt"

type Point struct {
	X, Y float64
}

type Size struct {
	Width, Height float64
}

// Rect is an origin plus size in a shared coordinate space.
type Rect struct {
	Origin Point
	Size   Size
}

func R(x, y, w, h float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

func (r Rect) MinX() float64 { return r.Origin.X }
func (r Rect) MinY() float64 { return r.Origin.Y }
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.Width }
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Height }
func (r Rect) MidX() float64 { return r.Origin.X + r.Size.Width/2 }
func (r Rect) MidY() float64 { return r.Origin.Y + r.Size.Height/2 }

func (r Rect) IsEmpty() bool {
	return r.Size.Width <= 0 || r.Size.Height <= 0
}

// Inset shrinks r by the given insets.
func (r Rect) Inset(in EdgeInsets) Rect {
	out := Rect{
		Origin: Point{X: r.Origin.X + in.Left, Y: r.Origin.Y + in.Top},
		Size: Size{
			Width:  r.Size.Width - in.Left - in.Right,
			Height: r.Size.Height - in.Top - in.Bottom,
		},
	}
	if out.Size.Width < 0 {
		out.Size.Width = 0
	}
	if out.Size.Height < 0 {
		out.Size.Height = 0
	}
	return out
}

func (r Rect) Offset(dx, dy float64) Rect {
	r.Origin.X += dx
	r.Origin.Y += dy
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height)
}

type EdgeInsets struct {
	Top, Left, Bottom, Right float64
}
