// Package builtins is the command set the lineconsole binary registers.
package builtins

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/lineconsole/internal/config"
	"github.com/zjrosen/lineconsole/internal/console"
	"github.com/zjrosen/lineconsole/internal/dispatch"
	"github.com/zjrosen/lineconsole/internal/log"
	"github.com/zjrosen/lineconsole/internal/store"
)

// ErrorColor tags failure results.
const ErrorColor = "red"

// Scheduler runs fn after d on the goroutine that drives the console.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, fn func())

// After calls f.
func (f SchedulerFunc) After(d time.Duration, fn func()) { f(d, fn) }

// blockingScheduler sleeps on the calling goroutine. Used when no
// Scheduler is supplied, so completions stay on the driving goroutine.
var blockingScheduler = SchedulerFunc(func(d time.Duration, fn func()) {
	time.Sleep(d)
	fn()
})

// Deps are the collaborators of the builtin commands. Zero values get
// working defaults.
type Deps struct {
	Scheduler Scheduler
	// ConfigPath is where `prompt` persists the new prompt. Empty disables
	// persistence.
	ConfigPath string
	Store      store.Store[string]
	Logger     *log.Logger
	Now        func() time.Time
	NewID      func() string
}

type builtin struct {
	name    string
	usage   string
	summary string
	handler dispatch.HandlerFunc
}

type commands struct {
	c    *console.Console
	deps Deps
	list []builtin
}

// Register installs the builtin commands and the "command not found"
// fallback on c. Existing commands with the same names are replaced.
func Register(c *console.Console, deps Deps) error {
	if deps.Scheduler == nil {
		deps.Scheduler = blockingScheduler
	}
	if deps.Store == nil {
		deps.Store = store.NewMemory[string]("builtins", store.DefaultCleanupInterval, deps.Logger)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}

	b := &commands{c: c, deps: deps}
	b.list = []builtin{
		{"clear", "clear", "clear the screen", b.clear},
		{"color", "color <tag> <text>", "print text in a color", b.color},
		{"date", "date", "print the current date and time", b.date},
		{"echo", "echo <text>", "print text", b.echo},
		{"fullscreen", "fullscreen", "toggle full screen", b.fullscreen},
		{"get", "get <key>", "print a stored value", b.get},
		{"help", "help", "list commands", b.help},
		{"prompt", "prompt [text]", "change the prompt (no text resets it)", b.prompt},
		{"set", "set <key> <value> [ttl]", "store a value, optionally expiring", b.set},
		{"sleep", "sleep <duration>", "answer after a delay", b.sleep},
		{"unset", "unset <key>", "remove a stored value", b.unset},
		{"uuid", "uuid", "print a random UUID", b.uuid},
	}

	for _, cmd := range b.list {
		if err := c.SetCommand(cmd.name, cmd.handler); err != nil {
			return fmt.Errorf("registering %s: %w", cmd.name, err)
		}
	}
	if err := c.SetCommand(dispatch.Fallback, dispatch.HandlerFunc(b.notFound)); err != nil {
		return fmt.Errorf("registering fallback: %w", err)
	}
	deps.Logger.Debug(log.CatBuiltin, "builtins registered", "count", len(b.list))
	return nil
}

func (b *commands) usage(complete dispatch.Complete, name string) {
	for _, cmd := range b.list {
		if cmd.name == name {
			_ = complete("usage: "+cmd.usage, dispatch.WithColor(ErrorColor))
			return
		}
	}
}

func (b *commands) echo(complete dispatch.Complete, args, _ string) {
	_ = complete(args)
}

func (b *commands) notFound(complete dispatch.Complete, _, command string) {
	b.deps.Logger.Debug(log.CatBuiltin, "unknown command", "command", command)
	_ = complete("command not found: "+command, dispatch.WithColor(ErrorColor))
}

func (b *commands) help(complete dispatch.Complete, _, _ string) {
	summaries := make(map[string]string, len(b.list))
	for _, cmd := range b.list {
		summaries[cmd.name] = cmd.summary
	}

	var names []string
	for _, name := range b.c.Commands() {
		if name != dispatch.Fallback {
			names = append(names, name)
		}
	}

	// Align summaries by display width so wide prompts/names line up.
	width := 0
	for _, name := range names {
		width = max(width, uniseg.StringWidth(name))
	}

	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(name)
		if summary := summaries[name]; summary != "" {
			sb.WriteString(strings.Repeat(" ", width-uniseg.StringWidth(name)+2))
			sb.WriteString(summary)
		}
	}
	_ = complete(sb.String())
}

func (b *commands) clear(complete dispatch.Complete, _, _ string) {
	if err := b.c.Clear(); err != nil {
		b.deps.Logger.ErrorErr(log.CatBuiltin, "clear", err)
	}
	_ = complete("", dispatch.NoNewLine())
}

func (b *commands) date(complete dispatch.Complete, _, _ string) {
	_ = complete(b.deps.Now().Format(time.RFC1123))
}

func (b *commands) uuid(complete dispatch.Complete, _, _ string) {
	_ = complete(b.deps.NewID())
}

func (b *commands) sleep(complete dispatch.Complete, args, command string) {
	d, err := time.ParseDuration(args)
	if err != nil || d < 0 {
		b.usage(complete, command)
		return
	}
	b.deps.Scheduler.After(d, func() {
		_ = complete("slept " + d.String())
	})
}

func (b *commands) set(complete dispatch.Complete, args, command string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		b.usage(complete, command)
		return
	}

	key, value, ttl := fields[0], fields[1:], time.Duration(0)
	if len(value) > 1 {
		if d, err := time.ParseDuration(value[len(value)-1]); err == nil && d > 0 {
			ttl = d
			value = value[:len(value)-1]
		}
	}

	b.deps.Store.Set(key, strings.Join(value, " "), ttl)
	if ttl == 0 {
		_ = complete(fmt.Sprintf("%s set", key))
		return
	}
	_ = complete(fmt.Sprintf("%s set for %s", key, ttl))
}

func (b *commands) get(complete dispatch.Complete, args, command string) {
	if args == "" {
		b.usage(complete, command)
		return
	}
	v, ok := b.deps.Store.Get(args)
	if !ok {
		_ = complete("not set: "+args, dispatch.WithColor(ErrorColor))
		return
	}
	_ = complete(v)
}

func (b *commands) unset(complete dispatch.Complete, args, command string) {
	if args == "" {
		b.usage(complete, command)
		return
	}
	if b.deps.Store.Delete(strings.Fields(args)...) == 0 {
		_ = complete("not set: "+args, dispatch.WithColor(ErrorColor))
		return
	}
	_ = complete("")
}

func (b *commands) color(complete dispatch.Complete, args, command string) {
	tag, text, ok := strings.Cut(args, " ")
	text = strings.TrimSpace(text)
	if !ok || text == "" {
		b.usage(complete, command)
		return
	}
	_ = complete(text, dispatch.WithColor(tag))
}

func (b *commands) prompt(complete dispatch.Complete, args, _ string) {
	prompt := config.DefaultPrompt
	if args != "" {
		prompt = args + " "
	}
	b.c.SetPrompt(prompt)

	if b.deps.ConfigPath == "" {
		_ = complete("")
		return
	}
	if err := config.SavePrompt(b.deps.ConfigPath, prompt); err != nil {
		b.deps.Logger.ErrorErr(log.CatBuiltin, "saving prompt", err, "path", b.deps.ConfigPath)
		_ = complete("prompt not saved: "+err.Error(), dispatch.WithColor(ErrorColor))
		return
	}
	_ = complete("")
}

func (b *commands) fullscreen(complete dispatch.Complete, _, _ string) {
	b.c.ToggleFullScreen()
	state := "off"
	if b.c.FullScreen() {
		state = "on"
	}
	_ = complete("full screen " + state)
}

