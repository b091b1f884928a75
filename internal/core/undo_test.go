package core

import "testing"

// TestUndoLaw checks the undo law: Undo() followed by Redo() restores
// exactly the state that existed immediately before the Undo call.
func TestUndoLaw(t *testing.T) {
	line := Line([]rune("hello"))
	cur := NewCursor(&line)
	cur.Set(5)

	u := NewUndo()
	u.Save(&line, cur)

	line.Insert(5, []rune(" world")...)
	cur.Set(line.Len())
	u.Save(&line, cur)

	beforeUndo := string(line)
	beforePos := cur.Pos()

	if !u.Undo(&line, cur) {
		t.Fatalf("Undo() reported no snapshot available")
	}

	if string(line) != "hello" || cur.Pos() != 5 {
		t.Fatalf("after Undo, got %q@%d, want hello@5", string(line), cur.Pos())
	}

	if !u.Redo(&line, cur) {
		t.Fatalf("Redo() reported no snapshot available")
	}

	if string(line) != beforeUndo || cur.Pos() != beforePos {
		t.Fatalf("after Redo, got %q@%d, want %q@%d", string(line), cur.Pos(), beforeUndo, beforePos)
	}
}

func TestUndoSkipsNoOpSaves(t *testing.T) {
	line := Line([]rune("same"))
	cur := NewCursor(&line)

	u := NewUndo()
	u.Save(&line, cur)
	u.Save(&line, cur)
	u.Save(&line, cur)

	if u.Pos() != 1 {
		t.Fatalf("Pos() = %d, want 1 (repeated no-op saves must coalesce)", u.Pos())
	}
}

func TestUndoResetClearsStacks(t *testing.T) {
	line := Line([]rune("x"))
	cur := NewCursor(&line)

	u := NewUndo()
	u.Save(&line, cur)
	line.Insert(1, 'y')
	u.Save(&line, cur)
	u.Undo(&line, cur)

	u.Reset()

	if u.Pos() != 0 {
		t.Fatalf("Pos() after Reset = %d, want 0", u.Pos())
	}

	if u.Undo(&line, cur) {
		t.Fatalf("Undo() after Reset should report nothing to undo")
	}

	if u.Redo(&line, cur) {
		t.Fatalf("Redo() after Reset should report nothing to redo")
	}
}
