package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/notcome/lmtabstack/internal/animation"
	"github.com/notcome/lmtabstack/internal/config"
	"github.com/notcome/lmtabstack/internal/database/repository"
	"github.com/notcome/lmtabstack/internal/geom"
	"github.com/notcome/lmtabstack/internal/ids"
	"github.com/notcome/lmtabstack/internal/layout"
	"github.com/notcome/lmtabstack/internal/page"
	"github.com/notcome/lmtabstack/internal/service"
	"github.com/notcome/lmtabstack/internal/tabstack"
	"github.com/notcome/lmtabstack/internal/transitions"
)

// footerHeight is the number of rows below the stack: status, journal
// summary and the most recent runs.
const (
	footerHeight = 2 + journalRows
	journalRows  = 3
	// flingVelocity is in cells per second.
	flingVelocity = 80
)

type Services struct {
	Journal     *service.JournalService
	Maintenance *service.MaintenanceService
}

// App hosts a tab stack in the terminal. All coordinator calls happen in
// Update, which bubbletea runs on one goroutine; completions the coordinator
// schedules on ticks are delivered back to Update as messages.
type App struct {
	ctx      context.Context
	cfg      config.Config
	log      *slog.Logger
	stack    *tabstack.Stack
	ctl      *tabstack.Controller
	ticks    *Ticks
	services Services
	backend  *Terminal
	adapter  *animation.Adapter
	drag     *tabstack.Drag
	timing   animation.Timing
	frame    time.Duration

	width, height int
	ticking       bool
	journalStale  bool
	status        string
	prompting     bool
	input         string
	journal       []repository.TransitionRun
	summary       string
	pushed        int
}

// New wires the host to stack. The coordinator behind stack must schedule
// on ticks.
func New(ctx context.Context, cfg config.Config, stack *tabstack.Stack, ticks *Ticks, services Services, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	timing := animation.Default()
	if cfg.Animation.Duration > 0 {
		timing.Duration = cfg.Animation.Duration
	}
	if curve, err := animation.ParseCurve(cfg.Animation.Curve); err == nil {
		timing.Curve = curve
	} else if cfg.Animation.Curve != "" {
		logger.Warn("falling back to default curve", "err", err)
	}
	frame := time.Second / 60
	if cfg.UI.FrameRate > 0 {
		frame = time.Second / time.Duration(cfg.UI.FrameRate)
	}

	backend := NewTerminal(time.Now)
	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		log:      logger,
		stack:    stack,
		ctl:      tabstack.NewController(stack),
		ticks:    ticks,
		services: services,
		backend:  backend,
		adapter: animation.NewAdapter(backend,
			animation.WithSampleInterval(cfg.Velocity.SampleInterval),
			animation.WithReduceMotion(cfg.Animation.ReduceMotion)),
		timing: timing,
		frame:  frame,
	}
	a.drag = tabstack.NewDrag(a.ctl, &transitions.EdgeSwipe{
		Edge:          float64(max(cfg.UI.EdgeWidth, 1)),
		FlingVelocity: flingVelocity,
		Timing:        timing,
	}, cfg.Velocity.SampleInterval)
	stack.Coordinator.Observe(a)
	return a
}

func (a *App) Init() tea.Cmd {
	return a.loadJournal()
}

func (a *App) loadJournal() tea.Cmd {
	return func() tea.Msg {
		if a.services.Journal == nil {
			return nil
		}
		runs, err := a.services.Journal.Recent(a.ctx, journalRows)
		if err != nil {
			return errMsg{err}
		}
		summary, err := a.services.Journal.Summary(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return journalMsg{runs: runs, summary: summary}
	}
}

func (a *App) resetJournalCmd() tea.Cmd {
	return tea.Sequence(func() tea.Msg {
		if a.services.Maintenance == nil {
			return nil
		}
		if err := a.services.Maintenance.Reset(a.ctx); err != nil {
			return errMsg{err}
		}
		return statusMsg("journal cleared")
	}, a.loadJournal())
}

func (a *App) saveConfigCmd() tea.Cmd {
	cfg := a.cfg
	return func() tea.Msg {
		if err := config.Save(cfg); err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("reduce motion %v (saved)", cfg.Animation.ReduceMotion))
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		bounds := geom.R(0, 0, float64(m.Width), float64(max(m.Height-footerHeight, 0)))
		a.stack.Mutate(func(model *tabstack.Model) { model.Bounds = bounds })
	case tea.KeyMsg:
		if a.prompting {
			a.handlePromptKey(m)
			break
		}
		if cmd := a.handleKey(m); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case tea.MouseMsg:
		a.handleMouse(m)
	case frameMsg:
		a.ticking = false
	case tickMsg:
		m()
	case journalMsg:
		a.journal, a.summary = m.runs, m.summary
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
		a.log.Error("tui", "err", m.error)
	}

	a.sync()
	cmds = append(cmds, a.ticks.take()...)
	if cmd := a.nextFrame(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if a.journalStale {
		a.journalStale = false
		cmds = append(cmds, a.loadJournal())
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	switch m.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "n":
		a.push()
	case "backspace":
		a.pop()
	case "tab":
		a.cycle(1)
	case "shift+tab":
		a.cycle(-1)
	case "e":
		a.expandCard()
	case ":":
		a.prompting, a.input = true, ""
	case "m":
		a.cfg.Animation.ReduceMotion = !a.cfg.Animation.ReduceMotion
		a.adapter.SetReduceMotion(a.cfg.Animation.ReduceMotion)
		return a.saveConfigCmd()
	case "R":
		return a.resetJournalCmd()
	}
	return nil
}

func (a *App) handlePromptKey(m tea.KeyMsg) {
	switch m.Type {
	case tea.KeyEsc:
		a.prompting = false
	case tea.KeyEnter:
		a.prompting = false
		d, ok := closestPage(a.stack.Model, a.input)
		if !ok {
			a.status = fmt.Sprintf("no page like %q", a.input)
			return
		}
		a.status = "go to " + d.Title
		a.stack.Mutate(goTo(d))
	case tea.KeyBackspace:
		if r := []rune(a.input); len(r) > 0 {
			a.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		a.input += string(m.Runes)
	}
}

func (a *App) handleMouse(m tea.MouseMsg) {
	pt := geom.Point{X: float64(m.X), Y: float64(m.Y)}
	var err error
	switch m.Action {
	case tea.MouseActionPress:
		if m.Button != tea.MouseButtonLeft {
			return
		}
		_, err = a.drag.Began(pt)
	case tea.MouseActionMotion:
		err = a.drag.Changed(pt)
	case tea.MouseActionRelease:
		err = a.drag.Ended(pt)
	}
	switch {
	case errors.Is(err, tabstack.ErrBusy):
		a.status = "a transition is already running"
	case err != nil:
		a.status = "error: " + err.Error()
	}
}

func (a *App) push() {
	tab, ok := a.stack.Model.Active()
	if !ok {
		return
	}
	top, _ := tab.Top()
	a.pushed++
	spec := contentPage(fmt.Sprintf("Page %d", a.pushed), Content{Lines: []string{"pushed over " + top.Title}})
	a.stack.Coordinator.Register(transitions.StackNode(top.ID, spec.ID, a.timing))
	a.stack.Mutate(func(m *tabstack.Model) { m.Push(tab.ID, spec) })
}

func (a *App) pop() {
	if _, ok := a.stack.Model.Active(); !ok {
		return
	}
	a.stack.Mutate(func(m *tabstack.Model) {
		if _, ok := m.Pop(m.ActiveTab); !ok {
			a.status = "already at the root page"
		}
	})
}

func (a *App) cycle(delta int) {
	from, ok := a.stack.Model.Active()
	if !ok {
		return
	}
	next := a.stack.Model
	next.Cycle(delta)
	to, _ := next.Active()
	fromTop, _ := from.Top()
	toTop, _ := to.Top()
	if fromTop.ID != toTop.ID {
		a.stack.Coordinator.Register(transitions.TabNode(fromTop.ID, toTop.ID, a.timing))
	}
	a.stack.Mutate(func(m *tabstack.Model) { m.Cycle(delta) })
}

func (a *App) expandCard() {
	tab, ok := a.stack.Model.Active()
	if !ok {
		return
	}
	top, _ := tab.Top()
	cards := contentOf(top).Cards
	if len(cards) == 0 {
		a.status = top.Title + " has no cards"
		return
	}
	title := cards[0]
	detail := contentPage(title, Content{Lines: []string{"expanded from " + top.Title, "backspace collapses it"}})
	a.stack.Coordinator.Register(transitions.CardNode(top.ID, detail.ID, cardElement(0), title, a.timing))
	a.stack.Mutate(func(m *tabstack.Model) { m.Push(tab.ID, detail) })
}

// sync reports geometry for every page that has none yet, or whose frame
// moved, and then draws pending updates.
func (a *App) sync() {
	c := a.stack.Coordinator
	for _, p := range c.Pages() {
		if p.Hidden {
			continue
		}
		frame := p.Placement.Frame
		if p.HasLoaded && p.Mounted != nil && p.Mounted.PageFrame == frame {
			continue
		}
		if err := c.Mount(p.ID, measure(p.Spec, frame)); err != nil {
			a.log.Warn("mount page", "page", p.ID, "err", err)
		}
	}
	c.Render(a.apply)
}

func (a *App) apply(u page.EffectUpdate) {
	a.adapter.Apply(u.Ref.KeyPath(), u.Values, u.Animation, u.TracksVelocity)
}

// nextFrame keeps redrawing while anything moves.
func (a *App) nextFrame() tea.Cmd {
	if a.ticking {
		return nil
	}
	if !a.backend.Settle() && a.stack.Coordinator.Stage() == tabstack.StageNone {
		return nil
	}
	a.ticking = true
	return tea.Tick(a.frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (a *App) forget(pages []ids.PageID) {
	for _, id := range pages {
		prefix := page.Prefix(id)
		a.adapter.Forget(prefix)
		a.backend.Forget(prefix)
	}
}

func (a *App) TransitionResolved(run tabstack.Run) {
	a.log.Debug("transition resolved", "run", run.ID, "kind", run.Kind())
}

func (a *App) TransitionCommitted(tabstack.Run) {}

// TransitionFinished returns every page of the run to its resting look.
func (a *App) TransitionFinished(run tabstack.Run) {
	a.forget(run.Pages)
	a.journalStale = true
}

func (a *App) PagesRemoved(pages []ids.PageID) { a.forget(pages) }

var (
	_ tabstack.Observer        = (*App)(nil)
	_ tabstack.RemovalObserver = (*App)(nil)
)

// NewStrategy lays the stack out above a one-row tab bar.
func NewStrategy(cfg config.Config) layout.Strategy {
	return layout.StackStrategy{TabBarHeight: 1, KeepBeneath: cfg.UI.KeepBeneath}
}

type frameMsg time.Time

type journalMsg struct {
	runs    []repository.TransitionRun
	summary string
}

type statusMsg string

type errMsg struct{ error }
