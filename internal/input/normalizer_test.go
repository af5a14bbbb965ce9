package input

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/lineconsole/internal/buffer"
	"github.com/zjrosen/lineconsole/internal/log"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		ev      Event
		want    Action
		prevent bool
	}{
		// Rule 1: alt swallows everything
		{"alt char", Event{Channel: Primary, Char: 'a', Mods: ModAlt}, Action{}, false},
		{"alt enter", Event{Channel: Secondary, Code: CodeEnter, Mods: ModAlt}, Action{}, false},

		// Rule 2: secondary channel allow-set
		{"enter", Event{Channel: Secondary, Code: CodeEnter}, Action{Kind: Submit}, true},
		{"backspace", Event{Channel: Secondary, Code: CodeBackspace}, Action{Kind: DeleteBackward}, true},
		{"delete", Event{Channel: Secondary, Code: CodeDelete}, Action{Kind: DeleteForward}, true},
		{"left", Event{Channel: Secondary, Code: CodeLeft}, Action{Kind: MoveChar, Dir: buffer.Previous}, true},
		{"right", Event{Channel: Secondary, Code: CodeRight}, Action{Kind: MoveChar, Dir: buffer.Next}, true},
		{"ctrl+left", Event{Channel: Secondary, Code: CodeLeft, Mods: ModCtrl}, Action{Kind: MoveWord, Dir: buffer.Previous}, true},
		{"ctrl+right", Event{Channel: Secondary, Code: CodeRight, Mods: ModCtrl}, Action{Kind: MoveWord, Dir: buffer.Next}, true},
		{"home", Event{Channel: Secondary, Code: CodeHome}, Action{Kind: MoveToStart}, true},
		{"end", Event{Channel: Secondary, Code: CodeEnd}, Action{Kind: MoveToEnd}, true},
		{"up is outside allow-set", Event{Channel: Secondary, Code: CodeUp}, Action{}, false},
		{"tab is outside allow-set", Event{Channel: Secondary, Code: CodeTab}, Action{}, false},
		{"secondary char ignored", Event{Channel: Secondary, Char: 'x'}, Action{}, false},

		// Rule 3: primary backspace suppressed without action
		{"primary backspace", Event{Channel: Primary, Code: CodeBackspace}, Action{}, true},

		// Rule 4: primary without printable char defers
		{"primary no char", Event{Channel: Primary, Code: CodeLeft}, Action{}, false},

		// Rule 5: character events
		{"letter", Event{Channel: Primary, Char: 'a'}, Action{Kind: InsertChar, Char: 'a'}, true},
		{"space", Event{Channel: Primary, Char: ' '}, Action{Kind: InsertChar, Char: ' '}, true},
		{"tilde", Event{Channel: Primary, Char: '~'}, Action{Kind: InsertChar, Char: '~'}, true},
		{"shift letter", Event{Channel: Primary, Char: 'A', Mods: ModShift}, Action{Kind: InsertChar, Char: 'A'}, true},
		{"meta char", Event{Channel: Primary, Char: 'c', Mods: ModMeta}, Action{}, false},
		{"ctrl+c", Event{Channel: Primary, Char: 'c', Mods: ModCtrl}, Action{Kind: Interrupt}, true},
		{"ctrl+C", Event{Channel: Primary, Char: 'C', Mods: ModCtrl | ModShift}, Action{Kind: Interrupt}, true},
		{"ctrl+meta+c", Event{Channel: Primary, Char: 'c', Mods: ModCtrl | ModMeta}, Action{}, false},
		{"ctrl other", Event{Channel: Primary, Char: 'a', Mods: ModCtrl}, Action{}, false},
		{"carriage return", Event{Channel: Primary, Char: '\r'}, Action{}, false},
		{"delete char 127", Event{Channel: Primary, Char: 127}, Action{}, false},
		{"non-ascii", Event{Channel: Primary, Char: 'é'}, Action{}, false},
	}

	n := NewNormalizer(nil, false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := n.Normalize(tt.ev)
			require.Equal(t, tt.want, res.Action)
			require.Equal(t, tt.prevent, res.PreventDefault)
		})
	}
}

func TestNormalize_BackspaceOnBothChannelsActsOnce(t *testing.T) {
	n := NewNormalizer(nil, false)

	actions := 0
	for _, ch := range []Channel{Primary, Secondary} {
		if res := n.Normalize(Event{Channel: ch, Code: CodeBackspace}); res.Action.Kind != None {
			actions++
		}
	}

	require.Equal(t, 1, actions)
}

func TestNormalize_TraceKeysLogs(t *testing.T) {
	var buf bytes.Buffer
	n := NewNormalizer(log.New(&buf), true)

	n.Normalize(Event{Channel: Secondary, Code: CodeLeft, Mods: ModCtrl})

	out := buf.String()
	require.Contains(t, out, "[input] key")
	require.Contains(t, out, "channel=secondary")
	require.Contains(t, out, "code=left")
	require.Contains(t, out, "mods=ctrl")
	require.Contains(t, out, "action=move-word(previous)")
}

func TestNormalize_NoTraceByDefault(t *testing.T) {
	var buf bytes.Buffer
	n := NewNormalizer(log.New(&buf), false)

	n.Normalize(Event{Channel: Primary, Char: 'a'})

	require.Empty(t, buf.String())
}

func TestProperty_PrintableASCIIInserts(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ch := rune(rapid.IntRange(32, 126).Draw(t, "char"))
		res := normalize(Event{Channel: Primary, Char: ch})
		assert.Equal(t, Action{Kind: InsertChar, Char: ch}, res.Action)
		assert.True(t, res.PreventDefault)
	})
}

func TestProperty_AltAlwaysIgnored(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ev := Event{
			Channel: Channel(rapid.IntRange(0, 1).Draw(t, "channel")),
			Code:    Code(rapid.IntRange(0, 64).Draw(t, "code")),
			Char:    rune(rapid.IntRange(0, 200).Draw(t, "char")),
			Mods:    Modifiers(rapid.IntRange(0, 15).Draw(t, "mods")) | ModAlt,
		}
		assert.Equal(t, Result{}, normalize(ev))
	})
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "primary", Primary.String())
	assert.Equal(t, "secondary", Secondary.String())
	assert.Equal(t, "enter", CodeEnter.String())
	assert.Equal(t, "code(99)", Code(99).String())
	assert.Equal(t, "none", Modifiers(0).String())
	assert.Equal(t, "ctrl+alt", (ModAlt | ModCtrl).String())
	assert.Equal(t, `insert-char('x')`, Action{Kind: InsertChar, Char: 'x'}.String())
	assert.Equal(t, "submit", Action{Kind: Submit}.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
