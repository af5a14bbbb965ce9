package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme maps color tags to styles.
type Theme struct {
	renderer *lipgloss.Renderer
	styles   map[string]lipgloss.Style
	plain    lipgloss.Style
	cursor   lipgloss.Style
	border   lipgloss.Style
	muted    lipgloss.Style
}

// NewTheme builds styles for palette (tag -> hex or ANSI number). With
// noColor every style renders as plain text.
func NewTheme(palette map[string]string, noColor bool) Theme {
	r := lipgloss.DefaultRenderer()
	if noColor {
		r = lipgloss.NewRenderer(io.Discard)
		r.SetColorProfile(termenv.Ascii)
	}

	t := Theme{
		renderer: r,
		styles:   make(map[string]lipgloss.Style, len(palette)),
		plain:    r.NewStyle(),
		cursor:   r.NewStyle().Reverse(true),
		border: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#696969")),
		muted: r.NewStyle().Foreground(lipgloss.Color("#696969")),
	}
	for tag, color := range palette {
		t.styles[tag] = r.NewStyle().Foreground(lipgloss.Color(color))
	}
	return t
}

// Style returns the style for a color tag. Untagged and unknown tags are
// plain.
func (t Theme) Style(tag string) lipgloss.Style {
	if s, ok := t.styles[tag]; ok {
		return s
	}
	return t.plain
}
