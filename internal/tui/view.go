package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/notcome/lmtabstack/internal/database/repository"
	"github.com/notcome/lmtabstack/internal/page"
	"github.com/notcome/lmtabstack/internal/transitions"
	"github.com/notcome/lmtabstack/internal/values"
)

var (
	statusStyle = lipgloss.NewStyle().Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}
	h := max(a.height-footerHeight, 0)
	cv := newCanvas(a.width, h)

	pages := a.stack.Coordinator.Pages()
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Placement.ZIndex < pages[j].Placement.ZIndex })
	for _, p := range pages {
		if !p.Hidden {
			a.drawPage(cv, p)
		}
	}
	a.drawTabBar(cv, h-1)

	return lipgloss.JoinVertical(lipgloss.Left, cv.String(), a.renderFooter())
}

// value is the presented value of one channel, or def when nothing has been
// written to it.
func (a *App) value(ref page.Ref, key values.Key[float64], def float64) float64 {
	if v, ok := a.backend.Value(ref.KeyPath() + "." + key.Name()); ok {
		return v
	}
	return def
}

func (a *App) drawPage(cv *canvas, p *page.Page) {
	content, wrapper := page.Content(p.ID), page.Wrapper(p.ID)
	f := p.Placement.Frame
	sx, sy := a.value(content, values.ScaleX, 1), a.value(content, values.ScaleY, 1)
	w, h := f.Size.Width*sx, f.Size.Height*sy
	x := f.MidX() - w/2 + a.value(content, values.OffsetX, 0)
	y := f.MidY() - h/2 + a.value(content, values.OffsetY, 0)
	opacity := a.value(content, values.Opacity, 1) * a.value(wrapper, values.Opacity, 1)
	shade := shadeOf(opacity)
	if shade == 0 {
		return
	}

	bx, by, bw, bh := round(x), round(y), round(w), round(h)
	cv.box(bx, by, bw, bh, p.Spec.Title, shade)
	if bh < 3 || bw < 5 {
		return
	}

	row := by + 1
	if p.Runtime != nil {
		if title, ok := p.Runtime.MorphingViews[transitions.TitleView].(string); ok {
			morph := shadeOf(opacity * a.value(page.Morphing(p.ID, transitions.TitleView), values.Opacity, 1))
			cv.text(bx+2, row, truncate(strings.ToUpper(title), bw-4), morph)
			row++
		}
	}
	c := contentOf(p.Spec)
	for _, line := range c.Lines {
		if row >= by+bh-1 {
			return
		}
		cv.text(bx+2, row, truncate(line, bw-4), shade)
		row++
	}

	// cards only make sense at rest size; while scaled they are left out
	if math.Abs(sx-1) > 0.01 || math.Abs(sy-1) > 0.01 || p.Mounted == nil {
		return
	}
	for i, title := range c.Cards {
		r, ok := p.Mounted.TransitionElements[cardElement(i)]
		if !ok {
			break
		}
		el := page.Element(p.ID, cardElement(i))
		ex := round(r.MinX()-f.MinX()+x+a.value(el, values.OffsetX, 0))
		ey := round(r.MinY()-f.MinY()+y+a.value(el, values.OffsetY, 0))
		cv.box(ex, ey, round(r.Size.Width), round(r.Size.Height), "", shadeOf(opacity*a.value(el, values.Opacity, 1)))
		cv.text(ex+2, ey+1, truncate(title, round(r.Size.Width)-4), shade)
	}
}

func (a *App) drawTabBar(cv *canvas, row int) {
	if row < 0 {
		return
	}
	x := 1
	for _, tab := range a.stack.Model.Tabs {
		label := " " + tab.Title + " "
		shade := 2
		if tab.ID == a.stack.Model.ActiveTab {
			label, shade = "["+tab.Title+"]", 4
		}
		cv.text(x, row, label, shade)
		x += len([]rune(label)) + 1
	}
}

func (a *App) renderFooter() string {
	status := a.status
	if a.prompting {
		status = promptStyle.Render(":" + a.input + "_")
	} else if status == "" {
		status = fmt.Sprintf("stage %s, token %d", a.stack.Coordinator.Stage(), a.stack.Coordinator.Token())
	}
	lines := []string{statusStyle.Render(status), mutedStyle.Render(a.summary)}
	for i := 0; i < journalRows; i++ {
		if i < len(a.journal) {
			lines = append(lines, mutedStyle.Render(formatRun(a.journal[i])))
		} else {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}

func formatRun(r repository.TransitionRun) string {
	state := "running"
	switch {
	case r.Finished():
		state = "finished"
	case r.CommittedAt != nil:
		state = "committed"
	}
	return fmt.Sprintf("%s  %-11s token %-3d %4dms  %d pages  %s",
		r.StartedAt.Format("15:04:05.000"), r.Kind, r.Token, r.DurationMS, r.Pages, state)
}

func round(f float64) int { return int(math.Round(f)) }
