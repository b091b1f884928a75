// Package display implements the redisplay collaborator: it takes the
// input line, the active hint and the completion grid and repaints
// them below the prompt on every loop iteration. Like the cursor-motion
// helpers it is grounded on, it favors a full clear-then-redraw cycle
// over true line diffing: at interactive sizes a full redraw after
// every keystroke is imperceptible, and it sidesteps tracking every
// possible partial-update case a true differential redisplay would
// need.
package display

import (
	"fmt"
	"strings"

	"github.com/halcyon-cli/edit/internal/completion"
	"github.com/halcyon-cli/edit/internal/core"
	"github.com/halcyon-cli/edit/internal/strutil"
	"github.com/halcyon-cli/edit/internal/term"
	"github.com/halcyon-cli/edit/internal/ui"
)

// Highlighter recolors the input line for display without changing its
// contents (a syntax highlighter).
type Highlighter func(line []rune) string

// Engine is the Display collaborator: it owns no state of its own
// beyond what it needs to erase its own previous output.
type Engine struct {
	prompt    *ui.Prompt
	line      *core.Line
	cursor    *core.Cursor
	hint      *ui.Hint
	completer *completion.Engine

	highlighter Highlighter

	// belowRows is how many terminal rows below the input line's first
	// row were used by the previous render (wrapped line continuation,
	// the hint line, the completion grid), so the next Refresh knows
	// how far down it must clear before redrawing.
	belowRows int
	// lastRow is the row (relative to the input line's first row) the
	// previous render left the terminal cursor on, so Refresh knows how
	// far up it must move to reach the start of the input line before
	// erasing.
	lastRow int
}

// New returns a display engine rendering line/cursor/hint/completer
// state below prompt's output.
func New(prompt *ui.Prompt, line *core.Line, cursor *core.Cursor, hint *ui.Hint, completer *completion.Engine) *Engine {
	return &Engine{
		prompt:    prompt,
		line:      line,
		cursor:    cursor,
		hint:      hint,
		completer: completer,
	}
}

// Init resets redisplay state at the start of a new read loop and
// installs a syntax highlighter (nil disables highlighting).
func Init(e *Engine, highlighter Highlighter) {
	e.highlighter = highlighter
	e.belowRows = 0
	e.lastRow = 0
}

// Refresh erases whatever the previous Refresh printed and redraws the
// input line, hint and completion grid, leaving the terminal cursor at
// the position corresponding to the buffer's cursor.
func (e *Engine) Refresh() {
	e.clear()
	e.render()
}

// RefreshTransient erases the helper output and leaves only the
// transient prompt (if configured) followed by the accepted line,
// called once when Readline is about to return.
func (e *Engine) RefreshTransient() {
	e.clear()
	e.prompt.TransientPrint()
}

// AcceptLine erases the helper output and leaves the cursor on the
// line that just row-wrapped past its last line, called once when a
// line is accepted so the shell's own output starts on a fresh row.
func (e *Engine) AcceptLine() {
	e.clear()
	e.prompt.LastPrint()
	fmt.Print(string(*e.line))
	fmt.Print("\r\n")
	e.belowRows = 0
	e.lastRow = 0
}

// ResetHelpers clears the hint and completion grid printed below the
// input line without touching the line itself, used by widgets that
// change mode or cancel a pending operation.
func (e *Engine) ResetHelpers() {
	e.hint.Reset()
	e.completer.ResetForce()
}

// ClearScreen wipes the whole physical screen and redraws the prompt,
// line, hint and completion grid from the top-left corner, for the
// clear-screen widget: unlike Refresh, which only erases the region its
// own previous render touched, this discards everything above it too.
func (e *Engine) ClearScreen() {
	fmt.Print(term.ClearScreen)
	fmt.Print(term.CursorTopLeft)

	e.belowRows = 0
	e.lastRow = 0

	e.render()
}

func (e *Engine) clear() {
	term.MoveCursorBackwards(term.GetWidth())

	if e.lastRow > 0 {
		term.MoveCursorUp(e.lastRow)
	}

	fmt.Print(term.ClearLineAfter)

	if e.belowRows > 0 {
		fmt.Print("\r\n" + term.ClearScreenBelow)
		term.MoveCursorUp(e.belowRows)
	}
}

func (e *Engine) render() {
	width := term.GetWidth()
	if width <= 0 {
		width = 80
	}

	startCol := e.prompt.LastUsed()
	if startCol < 0 {
		startCol = 0
	}

	e.prompt.LastPrint()

	text := string(*e.line)
	if e.highlighter != nil {
		text = e.highlighter([]rune(text))
	}

	e.printLine(text)

	lineRows, cursorRow, cursorCol := layout(string(*e.line), e.cursor.Pos(), startCol, width)

	if lineRows == 1 {
		e.prompt.RightPrint(startCol+strutil.RealLength(text), false)
	}

	below := 0

	if hintText := e.hint.Text(); hintText != "" {
		fmt.Print("\r\n" + hintText)
		below++
	}

	if comp := e.completer.Display(); comp != "" {
		for _, line := range strings.Split(strings.TrimRight(comp, "\n"), "\n") {
			fmt.Print("\r\n" + line)
			below++
		}
	}

	e.belowRows = below

	// Move back up to the cursor's row within the (possibly wrapped)
	// input line, then across to its column.
	upFromBottom := (lineRows - 1 - cursorRow) + below
	if upFromBottom > 0 {
		term.MoveCursorUp(upFromBottom)
	}

	term.MoveCursorBackwards(width)

	if cursorCol > 0 {
		term.MoveCursorForward(cursorCol)
	}

	e.lastRow = cursorRow + below
}

// printLine writes the line to the terminal, prefixing every
// continuation row produced by an embedded newline (not one produced
// by terminal wrapping) with the configured secondary prompt. This is
// what makes a multi-line buffer kept open by AcceptMultiline read
// like a real shell's "> " continuation instead of a bare second line.
func (e *Engine) printLine(text string) {
	rows := strings.Split(text, "\n")

	fmt.Print(rows[0])

	secondary := e.prompt.SecondaryText()

	for _, row := range rows[1:] {
		fmt.Print("\r\n" + secondary + row)
	}
}

// layout computes how many terminal rows the line occupies when
// wrapped at width starting at column startCol, and the (row,col) the
// cursor sits at within that wrapped layout.
func layout(line string, pos, startCol, width int) (rows, cursorRow, cursorCol int) {
	col := startCol
	row := 0

	runes := []rune(line)

	for i, r := range runes {
		if i == pos {
			cursorRow, cursorCol = row, col
		}

		w := strutil.RuneWidth(r)

		if col+w >= width {
			row++
			col = 0
		} else {
			col += w
		}
	}

	if pos >= len(runes) {
		cursorRow, cursorCol = row, col
	}

	return row + 1, cursorRow, cursorCol
}
