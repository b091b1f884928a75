package core

import "github.com/halcyon-cli/edit/internal/strutil"

// Cursor is the position marker paired with a Line. It caches nothing
// itself (the design's "lazily cached column" is recomputed on demand
// from the line's newlines, which is cheap enough at interactive sizes
// and avoids a second piece of state to keep consistent under undo).
type Cursor struct {
	line *Line
	pos  int
	mark int
}

// NewCursor returns a cursor bound to line, positioned at 0 with no mark.
func NewCursor(line *Line) *Cursor {
	return &Cursor{line: line, mark: -1}
}

// Pos returns the current cursor position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Set moves the cursor to an absolute position, clamped to the line.
func (c *Cursor) Set(pos int) {
	c.pos = clamp(pos, 0, c.line.Len())
}

// Move applies a relative delta, clamped to the line, and returns the
// delta actually applied.
func (c *Cursor) Move(delta int) int {
	before := c.pos
	c.Set(c.pos + delta)

	return c.pos - before
}

// Inc moves the cursor one position forward, without crossing the end.
func (c *Cursor) Inc() {
	c.Set(c.pos + 1)
}

// Dec moves the cursor one position backward, without crossing zero.
func (c *Cursor) Dec() {
	c.Set(c.pos - 1)
}

// Mark returns the last position marked with SetMark, or -1 if none.
func (c *Cursor) Mark() int {
	return c.mark
}

// SetMark records the current position as the insertion-mode mark (used
// by vi-goto-mark and vi-kill-line).
func (c *Cursor) SetMark() {
	c.mark = c.pos
}

// ResetMark clears the recorded mark.
func (c *Cursor) ResetMark() {
	c.mark = -1
}

// SetMarkTo records pos directly as the mark, used by
// exchange-point-and-mark to swap point and mark without an
// intervening read of the old cursor position.
func (c *Cursor) SetMarkTo(pos int) {
	c.mark = pos
}

// Line returns the zero-based index of the line (as delimited by '\n')
// the cursor currently sits on.
func (c *Cursor) Line() int {
	count := 0

	for i, r := range *c.line {
		if i >= c.pos {
			break
		}

		if r == '\n' {
			count++
		}
	}

	return count
}

// LineMove moves the cursor up (negative n) or down (positive n) by
// |n| lines, preserving its column as closely as possible.
func (c *Cursor) LineMove(n int) {
	col := c.column()

	target := c.Line() + n
	lines := splitLines(*c.line)

	if target < 0 {
		target = 0
	}

	if target > len(lines)-1 {
		target = len(lines) - 1
	}

	start, _ := lineBoundsIndex(lines, target)

	targetLen := len(lines[target])
	if col > targetLen {
		col = targetLen
	}

	c.Set(start + col)
}

// column returns the cursor's column on its current line.
func (c *Cursor) column() int {
	start, _ := lineBounds(*c.line, c.pos)

	return c.pos - start
}

// BeginningOfLine moves the cursor to the first column of its line.
func (c *Cursor) BeginningOfLine() {
	start, _ := lineBounds(*c.line, c.pos)
	c.Set(start)
}

// EndOfLine moves the cursor to the last column of its line (the
// position of the trailing newline, or line length if last line).
func (c *Cursor) EndOfLine() {
	_, end := lineBounds(*c.line, c.pos)
	c.Set(end)
}

// EndOfLineAppend moves one past EndOfLine, for commands (y$, d$) that
// must include the very last character of the line in their span.
func (c *Cursor) EndOfLineAppend() {
	_, end := lineBounds(*c.line, c.pos)
	c.Set(end + 1)
}

// AtBeginningOfLine reports whether the cursor sits at column 0.
func (c *Cursor) AtBeginningOfLine() bool {
	start, _ := lineBounds(*c.line, c.pos)

	return c.pos == start
}

// AtEndOfLine reports whether the cursor sits at the last column.
func (c *Cursor) AtEndOfLine() bool {
	_, end := lineBounds(*c.line, c.pos)

	return c.pos == end
}

// OnEmptyLine reports whether the cursor's line has zero length.
func (c *Cursor) OnEmptyLine() bool {
	start, end := lineBounds(*c.line, c.pos)

	return start == end
}

// ToFirstNonSpace moves the cursor to the first non-blank rune of its
// line. If after is false and the line is entirely blank, it stays put.
func (c *Cursor) ToFirstNonSpace(after bool) {
	start, end := lineBounds(*c.line, c.pos)

	pos := start
	for pos < end && strutil.IsSpace((*c.line)[pos]) {
		pos++
	}

	if pos < end || after {
		c.Set(pos)
	}
}

// CheckCommand clamps the cursor so it never sits past the last
// character of the line, the invariant vi-command-mode requires.
func (c *Cursor) CheckCommand() {
	if c.line.Len() == 0 {
		c.Set(0)
		return
	}

	if c.pos >= c.line.Len() {
		c.Set(c.line.Len() - 1)
	}
}

// CheckAppend clamps the cursor to the line length, the (looser)
// invariant insert modes use, allowing a position just past the end.
func (c *Cursor) CheckAppend() {
	if c.pos > c.line.Len() {
		c.Set(c.line.Len())
	}
}

func lineBoundsIndex(lines [][]rune, idx int) (start, end int) {
	for i := 0; i < idx; i++ {
		start += len(lines[i]) + 1
	}

	end = start + len(lines[idx])

	return start, end
}
