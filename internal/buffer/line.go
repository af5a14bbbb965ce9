// Package buffer holds the console's editable text model: runs of
// optionally colored characters grouped into lines, a cursor index into the
// current line, and the chronological log of lines.
package buffer

import "strings"

// Run is one character cell, optionally tagged with a display color.
// An empty Color means the surface's default.
type Run struct {
	Char  rune
	Color string
}

// Line is an ordered sequence of runs. Only the current line of a Log can
// be edited; once superseded it is frozen.
type Line struct {
	id     int
	prompt string
	runs   []Run
	frozen bool
}

// ID is the line's position in creation order, stable across edits.
func (l *Line) ID() int { return l.id }

// Prompt returns the prompt the line was created with ("" for none).
func (l *Line) Prompt() string { return l.prompt }

// HasPrompt reports whether the line shows a prompt.
func (l *Line) HasPrompt() bool { return l.prompt != "" }

// Frozen reports whether the line has been superseded.
func (l *Line) Frozen() bool { return l.frozen }

// Len returns the number of runs.
func (l *Line) Len() int { return len(l.runs) }

// Runs returns a copy of the line's runs.
func (l *Line) Runs() []Run {
	out := make([]Run, len(l.runs))
	copy(out, l.runs)
	return out
}

// At returns the run at index i.
func (l *Line) At(i int) Run { return l.runs[i] }

// Text concatenates the run characters in order.
func (l *Line) Text() string {
	var sb strings.Builder
	sb.Grow(len(l.runs))
	for _, r := range l.runs {
		sb.WriteRune(r.Char)
	}
	return sb.String()
}

func (l *Line) insert(i int, r Run) {
	l.runs = append(l.runs, Run{})
	copy(l.runs[i+1:], l.runs[i:])
	l.runs[i] = r
}

func (l *Line) remove(i int) {
	l.runs = append(l.runs[:i], l.runs[i+1:]...)
}
