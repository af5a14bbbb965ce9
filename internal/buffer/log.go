package buffer

// Log is the ordered collection of lines. The last line is the current,
// editable one and owns the cursor. A Log is never empty.
type Log struct {
	lines  []*Line
	cursor Cursor
	nextID int
}

// NewLog creates a log holding one empty current line.
func NewLog(prompt string) *Log {
	l := &Log{}
	l.NewLine(prompt)
	return l
}

// NewLine freezes the current line and appends a fresh one carrying
// prompt ("" for no prompt). The cursor moves to its start.
func (l *Log) NewLine(prompt string) *Line {
	if cur := l.Current(); cur != nil {
		cur.frozen = true
	}
	line := &Line{id: l.nextID, prompt: prompt}
	l.nextID++
	l.lines = append(l.lines, line)
	l.cursor.reset(line)
	return line
}

// Clear discards every line and starts over with a single fresh line.
// Line IDs keep increasing so surfaces never confuse old and new lines.
func (l *Log) Clear(prompt string) *Line {
	for _, line := range l.lines {
		line.frozen = true
	}
	l.lines = l.lines[:0:0]
	return l.NewLine(prompt)
}

// Current returns the editable line.
func (l *Log) Current() *Line {
	if len(l.lines) == 0 {
		return nil
	}
	return l.lines[len(l.lines)-1]
}

// CurrentText returns the characters of the current line.
func (l *Log) CurrentText() string {
	return l.Current().Text()
}

// Cursor returns the cursor of the current line.
func (l *Log) Cursor() *Cursor { return &l.cursor }

// Lines returns the lines in chronological order.
func (l *Log) Lines() []*Line {
	out := make([]*Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len returns the number of lines.
func (l *Log) Len() int { return len(l.lines) }
