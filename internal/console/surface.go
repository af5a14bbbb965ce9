package console

import "github.com/zjrosen/lineconsole/internal/buffer"

// Surface displays the console. Every method is called from the goroutine
// driving the console.
type Surface interface {
	// Render is called whenever a line is created or its content or cursor
	// changes. current reports whether line is the editable line.
	Render(line *buffer.Line, current bool)
	// ScrollIntoView is called after every write and new line.
	ScrollIntoView()
	// ToggleFullScreen is a presentation hint.
	ToggleFullScreen(on bool)
	// Reset drops every rendered line. Called by Clear before the fresh
	// line is rendered.
	Reset()
}

// nopSurface backs a headless console.
type nopSurface struct{}

func (nopSurface) Render(*buffer.Line, bool) {}
func (nopSurface) ScrollIntoView()           {}
func (nopSurface) ToggleFullScreen(bool)     {}
func (nopSurface) Reset()                    {}
