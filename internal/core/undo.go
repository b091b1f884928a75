package core

// undoSnapshot is a single recorded line state, captured before a
// change-producing command runs.
type undoSnapshot struct {
	line string
	pos  int
}

// Undo is a linear undo/redo stack of whole-line snapshots. It does
// not attempt to diff or coalesce consecutive insertions into a single
// undo step: every Save whose line differs from the one last recorded
// gets its own entry, matching the per-command granularity vi's 'u' uses.
type Undo struct {
	stack []undoSnapshot
	redo  []undoSnapshot
	last  string // line content at the last Save, to skip no-op saves
}

// NewUndo returns an empty undo stack.
func NewUndo() *Undo {
	return &Undo{}
}

// Save records the current state as an undo point, unless it is
// identical to the last recorded state (consecutive no-op commands,
// such as repeated Escape, must not grow the stack).
func (u *Undo) Save(line *Line, cursor *Cursor) {
	content := string(*line)
	if content == u.last && len(u.stack) > 0 {
		return
	}

	u.stack = append(u.stack, undoSnapshot{line: content, pos: cursor.Pos()})
	u.last = content
	u.redo = u.redo[:0]
}

// Undo applies the most recent snapshot whose line differs from the
// current one, pushing the pre-undo state onto the redo stack. Newer
// snapshots equal to the current line (Save runs after every command)
// are dropped first; the restored snapshot stays on the stack as the
// new current state. It reports whether an earlier state was available.
func (u *Undo) Undo(line *Line, cursor *Cursor) bool {
	current := undoSnapshot{line: string(*line), pos: cursor.Pos()}

	for len(u.stack) > 1 && u.stack[len(u.stack)-1].line == current.line {
		u.stack = u.stack[:len(u.stack)-1]
	}

	if len(u.stack) == 0 || u.stack[len(u.stack)-1].line == current.line {
		return false
	}

	u.redo = append(u.redo, current)

	snap := u.stack[len(u.stack)-1]
	u.last = snap.line

	line.Set([]rune(snap.line)...)
	cursor.Set(snap.pos)

	return true
}

// Redo pops the most recent undone snapshot, if any, reapplying it.
func (u *Undo) Redo(line *Line, cursor *Cursor) bool {
	if len(u.redo) == 0 {
		return false
	}

	current := undoSnapshot{line: string(*line), pos: cursor.Pos()}
	u.stack = append(u.stack, current)
	u.last = current.line

	snap := u.redo[len(u.redo)-1]
	u.redo = u.redo[:len(u.redo)-1]

	line.Set([]rune(snap.line)...)
	cursor.Set(snap.pos)

	return true
}

// Reset clears both stacks, done at the start of each new line (vi's
// undo history does not persist across Enter).
func (u *Undo) Reset() {
	u.stack = u.stack[:0]
	u.redo = u.redo[:0]
	u.last = ""
}

// Pos reports how many undo snapshots are currently stacked, so a
// caller can tell whether 'u' has anything to undo back to.
func (u *Undo) Pos() int {
	return len(u.stack)
}

// SkipSave marks the current line content as already recorded without
// pushing a new snapshot, used by commands that must not themselves
// become an undo boundary (repeated motions between edits).
func (u *Undo) SkipSave(line *Line) {
	u.last = string(*line)
}
