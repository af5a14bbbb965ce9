package builtins

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/lineconsole/internal/buffer"
	"github.com/zjrosen/lineconsole/internal/config"
	"github.com/zjrosen/lineconsole/internal/console"
	"github.com/zjrosen/lineconsole/internal/dispatch"
	"github.com/zjrosen/lineconsole/internal/store"
)

type pendingCall struct {
	d  time.Duration
	fn func()
}

// fakeScheduler queues calls until the test runs them.
type fakeScheduler struct {
	calls []pendingCall
}

func (s *fakeScheduler) After(d time.Duration, fn func()) {
	s.calls = append(s.calls, pendingCall{d, fn})
}

func newConsole(t *testing.T, deps Deps) *console.Console {
	t.Helper()
	c := console.New(nil, console.Config{})
	require.NoError(t, Register(c, deps))
	return c
}

// run submits line and returns the text of the line it was typed on.
func run(t *testing.T, c *console.Console, line string) string {
	t.Helper()
	require.NoError(t, c.Write(line, ""))
	before := len(c.Lines())
	require.NoError(t, c.Execute())
	lines := c.Lines()
	if len(lines) > before {
		return lines[before-1].Text()
	}
	return c.CurrentText()
}

// result strips the submitted command from a line's text.
func result(t *testing.T, c *console.Console, line string) string {
	t.Helper()
	out := run(t, c, line)
	require.True(t, strings.HasPrefix(out, line), out)
	return strings.TrimPrefix(strings.TrimPrefix(out, line), "\n")
}

func lastColor(line *buffer.Line) string {
	if line.Len() == 0 {
		return ""
	}
	return line.At(line.Len() - 1).Color
}

func TestRegister_Commands(t *testing.T) {
	c := newConsole(t, Deps{})
	require.Equal(t, []string{
		"clear", "color", "date", "echo", "fullscreen", "get", "help",
		"no command", "prompt", "set", "sleep", "unset", "uuid",
	}, c.Commands())
}

func TestEcho(t *testing.T) {
	c := newConsole(t, Deps{})
	require.Equal(t, "hello world", result(t, c, "echo hello world"))
}

func TestNotFound(t *testing.T) {
	c := newConsole(t, Deps{})

	require.Equal(t, "command not found: frob", result(t, c, "frob --x"))
	require.Equal(t, ErrorColor, lastColor(c.Lines()[0]))
}

func TestHelp_AlignedSummaries(t *testing.T) {
	c := newConsole(t, Deps{})
	require.NoError(t, c.SetCommandFunc("日本", func(dispatch.Complete, string, string) {}))

	out := result(t, c, "help")
	rows := strings.Split(out, "\n")

	require.NotContains(t, out, "no command")
	require.Contains(t, rows, "日本")
	var echoRow string
	for _, row := range rows {
		if strings.HasPrefix(row, "echo ") {
			echoRow = row
		}
	}
	// "fullscreen" (10 cells) is the widest name; summaries start at column 12.
	require.Equal(t, "echo"+strings.Repeat(" ", 8)+"print text", echoRow)
}

func TestClear(t *testing.T) {
	c := newConsole(t, Deps{})
	run(t, c, "echo a")
	run(t, c, "echo b")

	require.NoError(t, c.Write("clear", ""))
	require.NoError(t, c.Execute())

	require.Len(t, c.Lines(), 1)
	require.Equal(t, "", c.CurrentText())
}

func TestDate(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	c := newConsole(t, Deps{Now: func() time.Time { return now }})

	require.Equal(t, "Tue, 04 Mar 2025 05:06:07 UTC", result(t, c, "date"))
}

func TestUUID(t *testing.T) {
	c := newConsole(t, Deps{NewID: func() string { return "fixed-id" }})
	require.Equal(t, "fixed-id", result(t, c, "uuid"))

	random := newConsole(t, Deps{})
	require.Len(t, result(t, random, "uuid"), 36)
}

func TestSleep_Async(t *testing.T) {
	sched := &fakeScheduler{}
	c := newConsole(t, Deps{Scheduler: sched})

	require.NoError(t, c.Write("sleep 2s", ""))
	require.NoError(t, c.Execute())

	require.Len(t, sched.calls, 1)
	require.Equal(t, 2*time.Second, sched.calls[0].d)
	require.Equal(t, 1, c.Pending())
	require.Len(t, c.Lines(), 1)

	sched.calls[0].fn()

	require.Equal(t, 0, c.Pending())
	require.Equal(t, "sleep 2s\nslept 2s", c.Lines()[0].Text())
}

func TestSleep_DefaultSchedulerBlocks(t *testing.T) {
	c := newConsole(t, Deps{})
	require.Equal(t, "slept 1ms", result(t, c, "sleep 1ms"))
}

func TestSleep_BadDuration(t *testing.T) {
	c := newConsole(t, Deps{})
	require.Equal(t, "usage: sleep <duration>", result(t, c, "sleep soon"))
	require.Equal(t, ErrorColor, lastColor(c.Lines()[0]))
}

func TestSetGet(t *testing.T) {
	kv := store.NewMemory[string]("test", store.DefaultCleanupInterval, nil)
	c := newConsole(t, Deps{Store: kv})

	require.Equal(t, "greeting set", result(t, c, "set greeting hello there"))
	require.Equal(t, "hello there", result(t, c, "get greeting"))

	require.Equal(t, "token set for 1h0m0s", result(t, c, "set token abc 1h"))
	_, expiry, ok := kv.GetWithExpiration("token")
	require.True(t, ok)
	require.False(t, expiry.IsZero())

	require.Equal(t, "not set: missing", result(t, c, "get missing"))
	require.Equal(t, "usage: set <key> <value> [ttl]", result(t, c, "set lonely"))
	require.Equal(t, "usage: get <key>", result(t, c, "get"))
}

func TestSet_Expires(t *testing.T) {
	c := newConsole(t, Deps{})

	result(t, c, "set k v 1ms")
	time.Sleep(5 * time.Millisecond)

	require.Equal(t, "not set: k", result(t, c, "get k"))
}

func TestUnset(t *testing.T) {
	kv := store.NewMemory[string]("test", store.DefaultCleanupInterval, nil)
	c := newConsole(t, Deps{Store: kv})
	kv.Set("a", "1", 0)
	kv.Set("b", "2", 0)

	require.Equal(t, "", result(t, c, "unset a b"))
	require.Empty(t, kv.Keys())
	require.Equal(t, "not set: a", result(t, c, "unset a"))
	require.Equal(t, "usage: unset <key>", result(t, c, "unset"))
}

func TestColor(t *testing.T) {
	c := newConsole(t, Deps{})

	require.Equal(t, "all good", result(t, c, "color green all good"))
	require.Equal(t, "green", lastColor(c.Lines()[0]))

	require.Equal(t, "usage: color <tag> <text>", result(t, c, "color green"))
}

func TestPrompt_SetsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := newConsole(t, Deps{ConfigPath: path})

	require.Equal(t, "", result(t, c, "prompt λ"))
	require.Equal(t, "λ ", c.Prompt())
	require.Equal(t, "λ ", c.Current().Prompt())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `prompt: "λ "`)

	result(t, c, "prompt")
	require.Equal(t, config.DefaultPrompt, c.Prompt())
}

func TestPrompt_SaveFailureReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not a mapping\n"), 0o644))
	c := newConsole(t, Deps{ConfigPath: path})

	out := result(t, c, "prompt >")

	require.True(t, strings.HasPrefix(out, "prompt not saved: "), out)
	require.Equal(t, "> ", c.Prompt(), "prompt still changes for this session")
}

func TestFullscreen(t *testing.T) {
	c := newConsole(t, Deps{})
	require.Equal(t, "full screen on", result(t, c, "fullscreen"))
	require.True(t, c.FullScreen())
	require.Equal(t, "full screen off", result(t, c, "fullscreen"))
}
