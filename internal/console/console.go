// Package console ties the line buffer, key normalization, command
// dispatch and event bus together behind one facade that drives a Surface.
//
// A Console is not safe for concurrent use. Command handlers that finish
// their work on another goroutine must hand the completion back to the
// goroutine driving the console (see tui.Model.Post).
package console

import (
	"context"
	"fmt"

	"github.com/charmbracelet/x/ansi"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/lineconsole/internal/buffer"
	"github.com/zjrosen/lineconsole/internal/dispatch"
	"github.com/zjrosen/lineconsole/internal/flags"
	"github.com/zjrosen/lineconsole/internal/input"
	"github.com/zjrosen/lineconsole/internal/log"
	"github.com/zjrosen/lineconsole/internal/pubsub"
)

// DefaultPrompt is used when Config.Prompt is empty and NoPrompt is unset.
const DefaultPrompt = "$ "

// InterruptText is written by the Interrupt action.
const InterruptText = "^C"

// Transform rewrites text and color before a write reaches the buffer.
type Transform func(text, color string) (string, string)

// Config configures a Console. The zero value is usable.
type Config struct {
	Prompt     string
	NoPrompt   bool
	FullScreen bool
	// InPlace asks the surface to draw directly instead of inside its own
	// bordered container of Height rows.
	InPlace    bool
	Height     int
	Transform  Transform

	Logger   *log.Logger
	Tracer   trace.Tracer
	Flags    *flags.Registry
	Commands map[string]dispatch.Handler
}

// Console is an interactive line-editing console.
type Console struct {
	lines      *buffer.Log
	surface    Surface
	table      *dispatch.Table
	dispatcher *dispatch.Dispatcher
	normalizer *input.Normalizer
	bus        *pubsub.Bus[*Console, Event]
	broker     *pubsub.Broker[Event]
	logger     *log.Logger
	transform  Transform

	prompt     string
	fullScreen bool
	inPlace    bool
	height     int
	started    bool
}

// New creates a console drawing on surface. A nil surface runs headless.
// The first line is rendered immediately.
func New(surface Surface, cfg Config) *Console {
	if surface == nil {
		surface = nopSurface{}
	}

	prompt := cfg.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	if cfg.NoPrompt {
		prompt = ""
	}

	c := &Console{
		surface:    surface,
		table:      dispatch.NewTable(),
		normalizer: input.NewNormalizer(cfg.Logger, cfg.Flags.Enabled(flags.FlagTraceKeys)),
		broker:     pubsub.NewBroker[Event](),
		logger:     cfg.Logger,
		transform:  buildTransform(cfg.Transform, cfg.Flags.Enabled(flags.FlagStripANSI)),
		prompt:     prompt,
		inPlace:    cfg.InPlace,
		height:     cfg.Height,
	}
	c.bus = pubsub.NewBus[*Console, Event](c)
	c.dispatcher = dispatch.New(c.table, dispatch.Config{Logger: cfg.Logger, Tracer: cfg.Tracer})

	for name, h := range cfg.Commands {
		if err := c.table.Set(name, h); err != nil {
			c.logger.ErrorErr(log.CatDispatch, "skipping command", err, "command", name)
		}
	}

	c.lines = buffer.NewLog(prompt)
	c.surface.Render(c.lines.Current(), true)

	if cfg.FullScreen {
		c.fullScreen = true
		c.surface.ToggleFullScreen(true)
	}
	return c
}

func buildTransform(user Transform, stripANSI bool) Transform {
	if !stripANSI {
		return user
	}
	return func(text, color string) (string, string) {
		text = ansi.Strip(text)
		if user != nil {
			return user(text, color)
		}
		return text, color
	}
}

// Start enables key handling. Keys passed to HandleKey before Start or
// after Stop are ignored.
func (c *Console) Start() { c.started = true }

// Stop disables key handling.
func (c *Console) Stop() { c.started = false }

// Started reports whether key handling is enabled.
func (c *Console) Started() bool { return c.started }

// Close stops the console and closes every channel returned by Subscribe.
func (c *Console) Close() {
	c.Stop()
	c.broker.Close()
}

// Write inserts text at the cursor, one run per rune, tagged with color.
func (c *Console) Write(text, color string) error {
	if c.transform != nil {
		text, color = c.transform(text, color)
	}
	cur := c.lines.Cursor()
	for _, r := range text {
		cur.Insert(r, color)
	}
	c.surface.Render(c.lines.Current(), true)
	c.surface.ScrollIntoView()
	return c.emit(WriteEvent, Event{Text: text, Color: color})
}

// NewLine starts a new line showing the prompt.
func (c *Console) NewLine() error {
	return c.NewLineWith(true)
}

// NewLineWith starts a new line, with or without the prompt.
func (c *Console) NewLineWith(showPrompt bool) error {
	prev := c.lines.Current()
	line := c.lines.NewLine(c.linePrompt(showPrompt))
	c.surface.Render(prev, false)
	c.surface.Render(line, true)
	c.surface.ScrollIntoView()
	return c.emit(NewLineEvent, Event{Line: line})
}

// Clear discards every line and starts over with one fresh line.
func (c *Console) Clear() error {
	return c.ClearWith(true)
}

// ClearWith is Clear with control over the first line's prompt.
func (c *Console) ClearWith(showPrompt bool) error {
	c.surface.Reset()
	line := c.lines.Clear(c.linePrompt(showPrompt))
	c.surface.Render(line, true)
	c.surface.ScrollIntoView()
	return c.emit(ClearEvent, Event{Line: line})
}

func (c *Console) linePrompt(show bool) string {
	if !show {
		return ""
	}
	return c.prompt
}

// Execute dispatches the current line.
func (c *Console) Execute() error {
	return c.ExecuteContext(context.Background())
}

// ExecuteContext dispatches the current line. ctx parents the dispatch
// span. Errors from listeners notified before Execute returns are returned;
// errors from a continuation fired later are returned by that continuation.
func (c *Console) ExecuteContext(ctx context.Context) error {
	text := c.lines.CurrentText()
	if _, err := c.dispatcher.Execute(ctx, text, sink{c}); err != nil {
		return fmt.Errorf("executing %q: %w", text, err)
	}
	return nil
}

// sink routes dispatch effects back into the console.
type sink struct{ c *Console }

func (s sink) Write(text, color string) error { return s.c.Write(text, color) }
func (s sink) NewLine() error                 { return s.c.NewLine() }
func (s sink) Executed(exec dispatch.Execution) error {
	return s.c.emit(ExecuteEvent, Event{Exec: exec})
}

// Pending returns the number of dispatched commands whose handler has not
// completed yet.
func (c *Console) Pending() int { return c.dispatcher.Pending() }

// SetCommand registers h under name, replacing any existing handler.
func (c *Console) SetCommand(name string, h dispatch.Handler) error {
	return c.table.Set(name, h)
}

// SetCommandFunc registers a function handler.
func (c *Console) SetCommandFunc(name string, fn dispatch.HandlerFunc) error {
	return c.table.Set(name, fn)
}

// RemoveCommand unregisters name.
func (c *Console) RemoveCommand(name string) {
	c.table.Remove(name)
}

// SetCommands replaces the whole command table.
func (c *Console) SetCommands(handlers map[string]dispatch.Handler) error {
	return c.table.Replace(handlers)
}

// Commands returns the registered command names, sorted.
func (c *Console) Commands() []string {
	return c.table.Names()
}

// On registers a listener for eventType.
func (c *Console) On(eventType pubsub.EventType, fn Listener) Subscription {
	return c.bus.On(eventType, fn)
}

// Off removes a listener.
func (c *Console) Off(sub Subscription) bool {
	return c.bus.Off(sub)
}

// Subscribe returns a channel receiving every event asynchronously. Slow
// readers miss events rather than block the console.
func (c *Console) Subscribe(ctx context.Context) <-chan pubsub.Event[Event] {
	return c.broker.Subscribe(ctx)
}

// Broker exposes the async event broker, e.g. for pubsub.ListenCmd.
func (c *Console) Broker() *pubsub.Broker[Event] { return c.broker }

func (c *Console) emit(eventType pubsub.EventType, ev Event) error {
	c.broker.Publish(eventType, ev)
	if err := c.bus.Emit(eventType, ev); err != nil {
		c.logger.ErrorErr(log.CatEvents, "listener failed", err, "event", eventType)
		return err
	}
	return nil
}

// MoveChar moves the cursor one character.
func (c *Console) MoveChar(dir buffer.Direction) bool {
	return c.moved(c.lines.Cursor().MoveChar(dir))
}

// MoveWord moves the cursor one word.
func (c *Console) MoveWord(dir buffer.Direction) bool {
	return c.moved(c.lines.Cursor().MoveWord(dir))
}

// MoveToStart moves the cursor to the start of the line.
func (c *Console) MoveToStart() bool {
	return c.moved(c.lines.Cursor().MoveToStart())
}

// MoveToEnd moves the cursor to the end of the line.
func (c *Console) MoveToEnd() bool {
	return c.moved(c.lines.Cursor().MoveToEnd())
}

// DeleteForward removes the character after the cursor.
func (c *Console) DeleteForward() bool {
	return c.moved(c.lines.Cursor().DeleteForward())
}

// DeleteBackward removes the character before the cursor.
func (c *Console) DeleteBackward() bool {
	return c.moved(c.lines.Cursor().DeleteBackward())
}

func (c *Console) moved(changed bool) bool {
	if changed {
		c.logger.Debug(log.CatCursor, "cursor", "index", c.lines.Cursor().Index(), "len", c.lines.Current().Len())
		c.surface.Render(c.lines.Current(), true)
	}
	return changed
}

// HandleKey normalizes a raw key event and applies the resulting action.
// The returned Result tells the caller whether to suppress the key's
// default handling. Errors from listeners are logged.
func (c *Console) HandleKey(ev input.Event) input.Result {
	if !c.started {
		return input.Result{}
	}
	res := c.normalizer.Normalize(ev)
	if err := c.Apply(res.Action); err != nil {
		c.logger.ErrorErr(log.CatInput, "applying action", err, "action", res.Action)
	}
	return res
}

// Apply performs an edit action.
func (c *Console) Apply(a input.Action) error {
	switch a.Kind {
	case input.InsertChar:
		return c.Write(string(a.Char), "")
	case input.Submit:
		return c.Execute()
	case input.DeleteBackward:
		c.DeleteBackward()
	case input.DeleteForward:
		c.DeleteForward()
	case input.MoveChar:
		c.MoveChar(a.Dir)
	case input.MoveWord:
		c.MoveWord(a.Dir)
	case input.MoveToStart:
		c.MoveToStart()
	case input.MoveToEnd:
		c.MoveToEnd()
	case input.Interrupt:
		return c.Interrupt()
	}
	return nil
}

// Interrupt appends ^C to the current line and starts a new one.
func (c *Console) Interrupt() error {
	c.lines.Cursor().MoveToEnd()
	werr := c.Write(InterruptText, "")
	nerr := c.NewLine()
	if werr != nil {
		return werr
	}
	return nerr
}

// SetPrompt changes the prompt used by lines created from now on. An empty
// prompt disables it.
func (c *Console) SetPrompt(prompt string) {
	c.prompt = prompt
	c.logger.Debug(log.CatConfig, "prompt changed", "prompt", prompt)
}

// Prompt returns the prompt for new lines.
func (c *Console) Prompt() string { return c.prompt }

// ToggleFullScreen flips full-screen presentation.
func (c *Console) ToggleFullScreen() {
	c.fullScreen = !c.fullScreen
	c.surface.ToggleFullScreen(c.fullScreen)
}

// FullScreen reports whether full-screen presentation is on.
func (c *Console) FullScreen() bool { return c.fullScreen }

// InPlace reports whether the surface should draw without a container.
func (c *Console) InPlace() bool { return c.inPlace }

// Height returns the requested container height in rows; 0 means fill.
func (c *Console) Height() int { return c.height }

// Lines returns every line, oldest first.
func (c *Console) Lines() []*buffer.Line { return c.lines.Lines() }

// Current returns the editable line.
func (c *Console) Current() *buffer.Line { return c.lines.Current() }

// CurrentText returns the text of the editable line.
func (c *Console) CurrentText() string { return c.lines.CurrentText() }

// Cursor returns the cursor.
func (c *Console) Cursor() *buffer.Cursor { return c.lines.Cursor() }
