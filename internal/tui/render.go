package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/zjrosen/lineconsole/internal/buffer"
)

// noCursor renders a line without a cursor cell.
const noCursor = -1

// RenderLine draws line as terminal rows. Runs sharing a color tag are
// styled together, '\n' starts a new row and the cell at cursor is drawn
// reversed. A cursor equal to line.Len() sits after the last character.
// Rows wider than width are cut; width <= 0 disables cutting.
func (t Theme) RenderLine(line *buffer.Line, cursor, width int) []string {
	var (
		rows     []string
		row      strings.Builder
		seg      strings.Builder
		segColor string
	)
	flush := func() {
		if seg.Len() > 0 {
			row.WriteString(t.Style(segColor).Render(seg.String()))
			seg.Reset()
		}
	}
	endRow := func() {
		flush()
		r := row.String()
		if width > 0 {
			r = truncate.String(r, uint(width))
		}
		rows = append(rows, r)
		row.Reset()
	}

	if line.HasPrompt() {
		row.WriteString(t.Style("prompt").Render(line.Prompt()))
	}

	runs := line.Runs()
	for i, run := range runs {
		if i == cursor {
			flush()
			row.WriteString(t.cursorCell(run.Char))
			if run.Char == '\n' {
				endRow()
			}
			continue
		}
		if run.Char == '\n' {
			endRow()
			continue
		}
		if run.Color != segColor {
			flush()
			segColor = run.Color
		}
		seg.WriteRune(run.Char)
	}
	if cursor == len(runs) {
		flush()
		row.WriteString(t.cursor.Render(" "))
	}
	endRow()
	return rows
}

// cursorCell draws the reversed cell for ch. Characters that occupy no
// cell get a blank cursor in front of them.
func (t Theme) cursorCell(ch rune) string {
	if ch == '\n' {
		return t.cursor.Render(" ")
	}
	if runewidth.RuneWidth(ch) == 0 {
		return t.cursor.Render(" ") + string(ch)
	}
	return t.cursor.Render(string(ch))
}
