package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/lineconsole/internal/input"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []input.Event
	}{
		{
			name: "runes",
			msg:  tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")},
			want: []input.Event{
				{Channel: input.Primary, Char: 'a'},
				{Channel: input.Primary, Char: 'b'},
			},
		},
		{
			name: "alt rune",
			msg:  tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true},
			want: []input.Event{{Channel: input.Primary, Char: 'x', Mods: input.ModAlt}},
		},
		{
			name: "space",
			msg:  tea.KeyMsg{Type: tea.KeySpace},
			want: []input.Event{{Channel: input.Primary, Char: ' '}},
		},
		{
			name: "backspace on both channels",
			msg:  tea.KeyMsg{Type: tea.KeyBackspace},
			want: []input.Event{
				{Channel: input.Primary, Code: input.CodeBackspace},
				{Channel: input.Secondary, Code: input.CodeBackspace},
			},
		},
		{
			name: "enter",
			msg:  tea.KeyMsg{Type: tea.KeyEnter},
			want: []input.Event{{Channel: input.Secondary, Code: input.CodeEnter}},
		},
		{
			name: "ctrl+left",
			msg:  tea.KeyMsg{Type: tea.KeyCtrlLeft},
			want: []input.Event{{Channel: input.Secondary, Code: input.CodeLeft, Mods: input.ModCtrl}},
		},
		{
			name: "home",
			msg:  tea.KeyMsg{Type: tea.KeyHome},
			want: []input.Event{{Channel: input.Secondary, Code: input.CodeHome}},
		},
		{
			name: "tab",
			msg:  tea.KeyMsg{Type: tea.KeyTab},
			want: []input.Event{{Channel: input.Secondary, Code: input.CodeTab}},
		},
		{
			name: "ctrl+c",
			msg:  tea.KeyMsg{Type: tea.KeyCtrlC},
			want: []input.Event{{Channel: input.Primary, Char: 'c', Mods: input.ModCtrl}},
		},
		{
			name: "ctrl+a",
			msg:  tea.KeyMsg{Type: tea.KeyCtrlA},
			want: []input.Event{{Channel: input.Primary, Char: 'a', Mods: input.ModCtrl}},
		},
		{
			name: "unmapped",
			msg:  tea.KeyMsg{Type: tea.KeyF5},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Translate(tt.msg))
		})
	}
}

func TestTranslate_NormalizesToOneAction(t *testing.T) {
	n := input.NewNormalizer(nil, false)

	var actions []input.Action
	for _, ev := range Translate(tea.KeyMsg{Type: tea.KeyBackspace}) {
		if a := n.Normalize(ev).Action; a.Kind != input.None {
			actions = append(actions, a)
		}
	}

	require.Equal(t, []input.Action{{Kind: input.DeleteBackward}}, actions)
}
