package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// shades maps an opacity bucket to a foreground colour. Bucket 0 is never
// drawn.
var shades = []lipgloss.Style{
	lipgloss.NewStyle(),
	lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
}

func shadeOf(opacity float64) int {
	if opacity <= 0.05 {
		return 0
	}
	s := 1 + int(math.Round(math.Min(opacity, 1)*float64(len(shades)-2)))
	return min(s, len(shades)-1)
}

type cell struct {
	r     rune
	shade int
}

// canvas is a grid of runes painted back to front. Later paints win.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, shade int) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h || shade == 0 {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, shade: shade}
}

func (c *canvas) text(x, y int, s string, shade int) {
	for _, r := range s {
		c.set(x, y, r, shade)
		x++
	}
}

// fill blanks a rectangle so pages underneath do not show through.
func (c *canvas) fill(x, y, w, h int) {
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			if i >= 0 && j >= 0 && i < c.w && j < c.h {
				c.cells[j*c.w+i] = cell{r: ' '}
			}
		}
	}
}

// box draws a bordered rectangle with title set into the top edge.
func (c *canvas) box(x, y, w, h int, title string, shade int) {
	if w < 2 || h < 2 || shade == 0 {
		return
	}
	b := lipgloss.RoundedBorder()
	c.fill(x, y, w, h)
	top, bottom, side := []rune(b.Top)[0], []rune(b.Bottom)[0], []rune(b.Left)[0]
	for i := 1; i < w-1; i++ {
		c.set(x+i, y, top, shade)
		c.set(x+i, y+h-1, bottom, shade)
	}
	for j := 1; j < h-1; j++ {
		c.set(x, y+j, side, shade)
		c.set(x+w-1, y+j, []rune(b.Right)[0], shade)
	}
	c.set(x, y, []rune(b.TopLeft)[0], shade)
	c.set(x+w-1, y, []rune(b.TopRight)[0], shade)
	c.set(x, y+h-1, []rune(b.BottomLeft)[0], shade)
	c.set(x+w-1, y+h-1, []rune(b.BottomRight)[0], shade)
	if title != "" && w > 4 {
		c.text(x+2, y, truncate(" "+title+" ", w-4), shade)
	}
}

func (c *canvas) String() string {
	var sb strings.Builder
	for y := 0; y < c.h; y++ {
		row := c.cells[y*c.w : (y+1)*c.w]
		for i := 0; i < len(row); {
			j := i
			var run strings.Builder
			for j < len(row) && row[j].shade == row[i].shade {
				run.WriteRune(row[j].r)
				j++
			}
			sb.WriteString(shades[row[i].shade].Render(run.String()))
			i = j
		}
		if y < c.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
