package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/lineconsole/internal/input"
)

var secondaryCodes = map[tea.KeyType]struct {
	code input.Code
	mods input.Modifiers
}{
	tea.KeyEnter:          {input.CodeEnter, 0},
	tea.KeyDelete:         {input.CodeDelete, 0},
	tea.KeyLeft:           {input.CodeLeft, 0},
	tea.KeyRight:          {input.CodeRight, 0},
	tea.KeyCtrlLeft:       {input.CodeLeft, input.ModCtrl},
	tea.KeyCtrlRight:      {input.CodeRight, input.ModCtrl},
	tea.KeyShiftLeft:      {input.CodeLeft, input.ModShift},
	tea.KeyShiftRight:     {input.CodeRight, input.ModShift},
	tea.KeyCtrlShiftLeft:  {input.CodeLeft, input.ModCtrl | input.ModShift},
	tea.KeyCtrlShiftRight: {input.CodeRight, input.ModCtrl | input.ModShift},
	tea.KeyHome:           {input.CodeHome, 0},
	tea.KeyEnd:            {input.CodeEnd, 0},
	tea.KeyCtrlHome:       {input.CodeHome, input.ModCtrl},
	tea.KeyCtrlEnd:        {input.CodeEnd, input.ModCtrl},
	tea.KeyUp:             {input.CodeUp, 0},
	tea.KeyDown:           {input.CodeDown, 0},
	tea.KeyTab:            {input.CodeTab, 0},
	tea.KeyEsc:            {input.CodeEscape, 0},
}

// Translate turns a Bubble Tea key message into the raw events a browser
// style host would deliver. Printable characters arrive on the primary
// channel, navigation keys on the secondary channel, and backspace on both.
func Translate(msg tea.KeyMsg) []input.Event {
	var alt input.Modifiers
	if msg.Alt {
		alt = input.ModAlt
	}

	switch {
	case msg.Type == tea.KeyRunes:
		events := make([]input.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, input.Event{Channel: input.Primary, Char: r, Mods: alt})
		}
		return events

	case msg.Type == tea.KeySpace:
		return []input.Event{{Channel: input.Primary, Char: ' ', Mods: alt}}

	case msg.Type == tea.KeyBackspace || msg.Type == tea.KeyCtrlH:
		return []input.Event{
			{Channel: input.Primary, Code: input.CodeBackspace, Mods: alt},
			{Channel: input.Secondary, Code: input.CodeBackspace, Mods: alt},
		}
	}

	if sc, ok := secondaryCodes[msg.Type]; ok {
		return []input.Event{{Channel: input.Secondary, Code: sc.code, Mods: sc.mods | alt}}
	}

	// ctrl+a .. ctrl+z; tab, enter and ctrl+h were handled above.
	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		ch := 'a' + rune(msg.Type-tea.KeyCtrlA)
		return []input.Event{{Channel: input.Primary, Char: ch, Mods: input.ModCtrl | alt}}
	}
	return nil
}
