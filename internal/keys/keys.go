// Package keys contains the host-level keybindings of the terminal console.
// These are matched before a key reaches the line editor.
package keys

import "github.com/charmbracelet/bubbles/key"

// ConsoleKeyMap holds the keys the terminal program handles itself.
type ConsoleKeyMap struct {
	Quit       key.Binding
	FullScreen key.Binding
	Clear      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Help       key.Binding
}

// DefaultConsoleKeyMap returns the default host keybindings.
func DefaultConsoleKeyMap() ConsoleKeyMap {
	return ConsoleKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "quit"),
		),
		FullScreen: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "full screen"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
	}
}

// Console is the keymap used by the terminal program.
var Console = DefaultConsoleKeyMap()

// ShortHelp implements help.KeyMap.
func (k ConsoleKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k ConsoleKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Clear, k.FullScreen},
		{k.ScrollUp, k.ScrollDown},
		{k.Help, k.Quit},
	}
}
