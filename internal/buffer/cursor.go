package buffer

// Direction selects which neighbour of the cursor an operation looks at.
type Direction int

const (
	Previous Direction = iota
	Next
)

func (d Direction) String() string {
	if d == Next {
		return "next"
	}
	return "previous"
}

// Cursor is an insertion point between two runs of the current line,
// represented as an index in 0..Len(). Mutating methods report whether
// anything changed; edges are silent no-ops.
type Cursor struct {
	line *Line
	pos  int
}

// Line returns the line the cursor belongs to.
func (c *Cursor) Line() *Line { return c.line }

// Index returns the cursor position.
func (c *Cursor) Index() int { return c.pos }

func (c *Cursor) reset(l *Line) {
	c.line = l
	c.pos = 0
}

// Insert adds a run immediately before the cursor and advances past it.
func (c *Cursor) Insert(ch rune, color string) {
	c.line.insert(c.pos, Run{Char: ch, Color: color})
	c.pos++
}

// DeleteForward removes the run after the cursor.
func (c *Cursor) DeleteForward() bool {
	if c.pos >= c.line.Len() {
		return false
	}
	c.line.remove(c.pos)
	return true
}

// DeleteBackward removes the run before the cursor.
func (c *Cursor) DeleteBackward() bool {
	if c.pos == 0 {
		return false
	}
	c.pos--
	c.line.remove(c.pos)
	return true
}

// MoveChar moves one run in dir if there is one.
func (c *Cursor) MoveChar(dir Direction) bool {
	if _, ok := c.neighbour(c.pos, dir); !ok {
		return false
	}
	c.pos = step(c.pos, dir)
	return true
}

// MoveWord jumps to the next word boundary in dir.
//
// A word is a maximal stretch of runs whose character is not ' '. Walking
// away from the cursor, leading spaces are passed over, every non-space run
// records a target (the index after it going forward, its own index going
// backward) and the first space after a recorded target ends the walk.
// Going forward always commits, landing at line end when nothing was
// recorded; going backward without a target stays put.
func (c *Cursor) MoveWord(dir Direction) bool {
	target := -1
	for i := c.pos; ; i = step(i, dir) {
		r, ok := c.neighbour(i, dir)
		if !ok {
			break
		}
		if r.Char == ' ' {
			if target >= 0 {
				break
			}
			continue
		}
		if dir == Next {
			target = i + 1
		} else {
			target = i - 1
		}
	}

	switch {
	case target >= 0:
	case dir == Next:
		target = c.line.Len()
	default:
		return false
	}

	moved := target != c.pos
	c.pos = target
	return moved
}

// MoveToStart puts the cursor before the first run.
func (c *Cursor) MoveToStart() bool {
	moved := c.pos != 0
	c.pos = 0
	return moved
}

// MoveToEnd puts the cursor after the last run.
func (c *Cursor) MoveToEnd() bool {
	end := c.line.Len()
	moved := c.pos != end
	c.pos = end
	return moved
}

// neighbour returns the run adjacent to index i in dir.
func (c *Cursor) neighbour(i int, dir Direction) (Run, bool) {
	if dir == Next {
		if i >= c.line.Len() {
			return Run{}, false
		}
		return c.line.At(i), true
	}
	if i <= 0 {
		return Run{}, false
	}
	return c.line.At(i - 1), true
}

func step(i int, dir Direction) int {
	if dir == Next {
		return i + 1
	}
	return i - 1
}
