// Package input turns raw key events into canonical edit actions.
//
// Hosts deliver keys through two channels that do not agree on which keys
// they carry: the primary channel fires once per producible character, the
// secondary channel fires for keys without a printable character. Some
// hosts report backspace on both. Normalize reconciles them so that every
// physical key press yields at most one action.
package input

import (
	"fmt"
	"strings"

	"github.com/zjrosen/lineconsole/internal/buffer"
)

// Channel identifies which host event source delivered a key.
type Channel int

const (
	Primary Channel = iota
	Secondary
)

func (c Channel) String() string {
	if c == Secondary {
		return "secondary"
	}
	return "primary"
}

// Code is a navigational/control key code. Values follow the classic
// keyboard key codes so host adapters can pass them straight through.
type Code int

const (
	CodeNone      Code = 0
	CodeBackspace Code = 8
	CodeTab       Code = 9
	CodeEnter     Code = 13
	CodeEscape    Code = 27
	CodeEnd       Code = 35
	CodeHome      Code = 36
	CodeLeft      Code = 37
	CodeUp        Code = 38
	CodeRight     Code = 39
	CodeDown      Code = 40
	CodeDelete    Code = 46
)

var codeNames = map[Code]string{
	CodeNone:      "none",
	CodeBackspace: "backspace",
	CodeTab:       "tab",
	CodeEnter:     "enter",
	CodeEscape:    "escape",
	CodeEnd:       "end",
	CodeHome:      "home",
	CodeLeft:      "left",
	CodeUp:        "up",
	CodeRight:     "right",
	CodeDown:      "down",
	CodeDelete:    "delete",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Modifiers is a bitset of held modifier keys.
type Modifiers uint8

const (
	ModAlt Modifiers = 1 << iota
	ModCtrl
	ModMeta
	ModShift
)

// Has reports whether every modifier in m2 is set.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

func (m Modifiers) String() string {
	var parts []string
	for _, p := range []struct {
		mod  Modifiers
		name string
	}{{ModCtrl, "ctrl"}, {ModAlt, "alt"}, {ModMeta, "meta"}, {ModShift, "shift"}} {
		if m.Has(p.mod) {
			parts = append(parts, p.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// Event is one raw key event as delivered by the host.
// Char is 0 when the event carries no character.
type Event struct {
	Channel Channel
	Code    Code
	Char    rune
	Mods    Modifiers
}

// Kind enumerates canonical edit actions.
type Kind int

const (
	None Kind = iota
	InsertChar
	Submit
	DeleteBackward
	DeleteForward
	MoveChar
	MoveWord
	MoveToStart
	MoveToEnd
	Interrupt
)

var kindNames = [...]string{
	None:           "none",
	InsertChar:     "insert-char",
	Submit:         "submit",
	DeleteBackward: "delete-backward",
	DeleteForward:  "delete-forward",
	MoveChar:       "move-char",
	MoveWord:       "move-word",
	MoveToStart:    "move-to-start",
	MoveToEnd:      "move-to-end",
	Interrupt:      "interrupt",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Action is a canonical edit action. Char is set for InsertChar; Dir for
// MoveChar and MoveWord.
type Action struct {
	Kind Kind
	Char rune
	Dir  buffer.Direction
}

func (a Action) String() string {
	switch a.Kind {
	case InsertChar:
		return fmt.Sprintf("%s(%q)", a.Kind, a.Char)
	case MoveChar, MoveWord:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Dir)
	default:
		return a.Kind.String()
	}
}

// Result is the outcome of normalizing one event. PreventDefault tells the
// host to suppress its own handling of the key.
type Result struct {
	Action         Action
	PreventDefault bool
}
