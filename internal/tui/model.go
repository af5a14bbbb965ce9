// Package tui is the Bubble Tea front end of the console. Model is both
// the tea.Model driving the program and the console.Surface the console
// draws on.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/lineconsole/internal/buffer"
	"github.com/zjrosen/lineconsole/internal/console"
	"github.com/zjrosen/lineconsole/internal/keys"
	"github.com/zjrosen/lineconsole/internal/log"
	"github.com/zjrosen/lineconsole/internal/pubsub"
	"github.com/zjrosen/lineconsole/internal/watcher"
)

// Reloaded carries the settings re-read after the config file changed.
type Reloaded struct {
	Prompt  string
	Palette map[string]string
	NoColor bool
}

// Options configures a Model.
type Options struct {
	Palette map[string]string
	NoColor bool
	Keys    *keys.ConsoleKeyMap
	Logger  *log.Logger

	// Watcher and Changes deliver config file changes; Reload re-reads
	// the file. All three are optional.
	Watcher *watcher.Watcher
	Changes <-chan struct{}
	Reload  func() (Reloaded, error)
}

// postMsg runs fn on the Update goroutine.
type postMsg struct{ fn func() }

// Model renders a console in the terminal.
type Model struct {
	console *console.Console
	program *tea.Program
	ctx     context.Context
	cancel  context.CancelFunc
	events  *pubsub.ContinuousListener[console.Event]

	theme    Theme
	keys     keys.ConsoleKeyMap
	help     help.Model
	viewport viewport.Model
	logger   *log.Logger

	watcher *watcher.Watcher
	changes <-chan struct{}
	reload  func() (Reloaded, error)

	// Lines in display order. rows caches the rendering of every line
	// except the current one.
	order   []int
	lines   map[int]*buffer.Line
	rows    map[int][]string
	current int

	width, height int
	ready         bool
	inPlace       bool
	rowsWanted    int
	fullScreen    bool
	follow        bool
	showHelp      bool
	status        string
	queued        []tea.Cmd
}

// New creates a Model. Attach a console before running it.
func New(opts Options) *Model {
	km := keys.Console
	if opts.Keys != nil {
		km = *opts.Keys
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		ctx:     ctx,
		cancel:  cancel,
		theme:   NewTheme(opts.Palette, opts.NoColor),
		keys:    km,
		help:    help.New(),
		logger:  opts.Logger,
		watcher: opts.Watcher,
		changes: opts.Changes,
		reload:  opts.Reload,
		lines:   make(map[int]*buffer.Line),
		rows:    make(map[int][]string),
	}
}

// Attach binds c to the model, re-draws the lines it already has and
// starts key handling.
func (m *Model) Attach(c *console.Console) {
	m.console = c
	m.inPlace = c.InPlace()
	m.rowsWanted = c.Height()
	m.fullScreen = c.FullScreen()

	cur := c.Current()
	for _, l := range c.Lines() {
		m.Render(l, l == cur)
	}
	m.events = pubsub.NewFilteredListener(m.ctx, c.Broker(), console.ExecuteEvent, console.ClearEvent)
	c.Start()
}

// SetProgram lets Post deliver work through p.
func (m *Model) SetProgram(p *tea.Program) { m.program = p }

// Post runs fn on the goroutine driving the console. Without a program fn
// runs immediately.
func (m *Model) Post(fn func()) {
	if m.program == nil {
		fn()
		return
	}
	m.program.Send(postMsg{fn: fn})
}

// After runs fn on the driving goroutine once d has elapsed.
func (m *Model) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { m.Post(fn) })
}

// Render implements console.Surface.
func (m *Model) Render(line *buffer.Line, current bool) {
	id := line.ID()
	if _, ok := m.lines[id]; !ok {
		m.order = append(m.order, id)
	}
	m.lines[id] = line
	if current {
		m.current = id
		delete(m.rows, id)
		return
	}
	m.rows[id] = m.theme.RenderLine(line, noCursor, m.viewport.Width)
}

// ScrollIntoView implements console.Surface.
func (m *Model) ScrollIntoView() { m.follow = true }

// ToggleFullScreen implements console.Surface.
func (m *Model) ToggleFullScreen(on bool) {
	m.fullScreen = on
	if on {
		m.queued = append(m.queued, tea.EnterAltScreen)
	} else {
		m.queued = append(m.queued, tea.ExitAltScreen)
	}
	m.layout()
}

// Reset implements console.Surface.
func (m *Model) Reset() {
	m.order = nil
	clear(m.lines)
	clear(m.rows)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := m.drain()
	if m.events != nil {
		cmds = append(cmds, m.events.Listen())
	}
	if m.watcher != nil && m.changes != nil {
		cmds = append(cmds, m.watcher.WaitCmd(m.changes))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		m.follow = true

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.shutdown()
			return m, tea.Quit
		}
		m.handleKey(msg)

	case postMsg:
		msg.fn()

	case pubsub.Event[console.Event]:
		m.status = statusFor(msg)
		if m.events != nil {
			cmds = append(cmds, m.events.Listen())
		}

	case watcher.ChangedMsg:
		m.reloadConfig(msg.Path)
		if m.watcher != nil {
			cmds = append(cmds, m.watcher.WaitCmd(m.changes))
		}
	}

	m.refresh()
	cmds = append(cmds, m.drain()...)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	if m.console == nil {
		return
	}
	switch {
	case key.Matches(msg, m.keys.FullScreen):
		m.console.ToggleFullScreen()
	case key.Matches(msg, m.keys.Clear):
		if err := m.console.Clear(); err != nil {
			m.logger.ErrorErr(log.CatUI, "clear failed", err)
		}
	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.layout()
	default:
		for _, ev := range Translate(msg) {
			m.console.HandleKey(ev)
		}
	}
}

func statusFor(ev pubsub.Event[console.Event]) string {
	switch ev.Type {
	case console.ClearEvent:
		return "cleared"
	case console.ExecuteEvent:
		exec := ev.Payload.Exec
		if exec.Fallback {
			return fmt.Sprintf("%s: no such command", exec.Command)
		}
		return fmt.Sprintf("%s finished in %s", exec.Command, exec.Duration.Round(time.Millisecond))
	}
	return ""
}

func (m *Model) reloadConfig(path string) {
	if m.reload == nil || m.console == nil {
		return
	}
	r, err := m.reload()
	if err != nil {
		m.logger.ErrorErr(log.CatConfig, "reload failed", err, "path", path)
		m.status = "config reload failed"
		return
	}
	m.console.SetPrompt(r.Prompt)
	m.theme = NewTheme(r.Palette, r.NoColor)
	clear(m.rows)
	m.status = "config reloaded"
	m.logger.Info(log.CatConfig, "config reloaded", "path", path)
}

func (m *Model) shutdown() {
	m.cancel()
	if m.watcher != nil {
		if err := m.watcher.Stop(); err != nil {
			m.logger.ErrorErr(log.CatWatcher, "stopping watcher", err)
		}
	}
	if m.console != nil {
		m.console.Close()
	}
}

func (m *Model) drain() []tea.Cmd {
	cmds := m.queued
	m.queued = nil
	return cmds
}

// layout sizes the viewport for the window, footer and container.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	h := m.height - lipgloss.Height(m.footer())
	if !m.fullScreen && m.rowsWanted > 0 {
		frame := 0
		if !m.inPlace {
			frame = m.theme.border.GetVerticalFrameSize()
		}
		h = min(h, m.rowsWanted+frame)
	}
	w := m.width
	if !m.inPlace {
		w -= m.theme.border.GetHorizontalFrameSize()
		h -= m.theme.border.GetVerticalFrameSize()
	}
	w, h = max(w, 1), max(h, 1)

	if m.viewport.Width != w {
		clear(m.rows)
	}
	m.viewport.Width = w
	m.viewport.Height = h
}

// refresh pushes the rendered lines into the viewport.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	var all []string
	for _, id := range m.order {
		line := m.lines[id]
		if id == m.current {
			all = append(all, m.theme.RenderLine(line, m.cursorIndex(line), m.viewport.Width)...)
			continue
		}
		rows, ok := m.rows[id]
		if !ok {
			rows = m.theme.RenderLine(line, noCursor, m.viewport.Width)
			m.rows[id] = rows
		}
		all = append(all, rows...)
	}
	m.viewport.SetContent(strings.Join(all, "\n"))
	if m.follow {
		m.viewport.GotoBottom()
		m.follow = false
	}
}

func (m *Model) cursorIndex(line *buffer.Line) int {
	if m.console != nil && m.console.Current() == line {
		return m.console.Cursor().Index()
	}
	return line.Len()
}

func (m *Model) footer() string {
	helpView := m.help.View(m.keys)
	if m.status == "" {
		return helpView
	}
	return m.theme.muted.Render(m.status) + "  " + helpView
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return ""
	}
	body := m.viewport.View()
	if !m.inPlace {
		body = m.theme.border.Width(m.viewport.Width).Render(body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.footer())
}

// Console returns the attached console.
func (m *Model) Console() *console.Console { return m.console }

// Status returns the footer status text.
func (m *Model) Status() string { return m.status }
