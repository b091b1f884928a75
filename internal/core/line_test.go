package core

import (
	"testing"
	"unicode/utf8"
)

// TestCursorBounds checks invariant 1: 0 <= cursor <= length after any
// sequence of inserts, deletes and moves.
func TestCursorBounds(t *testing.T) {
	line := Line([]rune("hello"))
	cur := NewCursor(&line)

	ops := []func(){
		func() { line.Insert(cur.Pos(), 'x') },
		func() { cur.Move(100) },
		func() { cur.Move(-100) },
		func() { line.Backspace(cur.Pos(), 3) },
		func() { line.Delete(cur.Pos(), 3) },
		func() { cur.Set(-5) },
		func() { cur.Set(9999) },
	}

	for i, op := range ops {
		op()

		if cur.Pos() < 0 || cur.Pos() > line.Len() {
			t.Fatalf("op %d: cursor %d out of bounds [0,%d]", i, cur.Pos(), line.Len())
		}
	}
}

// TestInsertDeleteRoundTrip checks invariant 2: toString() reflects
// exactly what was inserted minus what was deleted.
func TestInsertDeleteRoundTrip(t *testing.T) {
	var line Line

	line.Insert(0, []rune("hello world")...)
	if string(line) != "hello world" {
		t.Fatalf("got %q", string(line))
	}

	cut := line.Cut(5, 11)
	if cut != " world" {
		t.Fatalf("cut = %q", cut)
	}

	if string(line) != "hello" {
		t.Fatalf("after cut, got %q", string(line))
	}
}

// TestBackspaceReturnsActualCount checks invariant 3: backspace(n)
// returns min(n, cursor_before).
func TestBackspaceReturnsActualCount(t *testing.T) {
	tests := []struct {
		name string
		line string
		pos  int
		n    int
		want int
	}{
		{"within bounds", "hello", 5, 2, 2},
		{"clamped at start", "hello", 2, 10, 2},
		{"at zero", "hello", 0, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := Line([]rune(tt.line))

			got := line.Backspace(tt.pos, tt.n)
			if got != tt.want {
				t.Fatalf("Backspace(%d,%d) = %d, want %d", tt.pos, tt.n, got, tt.want)
			}
		})
	}
}

// TestDeleteReturnsActualCount checks invariant 4: delete(n) returns
// min(n, length_before - cursor_before).
func TestDeleteReturnsActualCount(t *testing.T) {
	tests := []struct {
		name string
		line string
		pos  int
		n    int
		want int
	}{
		{"within bounds", "hello", 0, 2, 2},
		{"clamped at end", "hello", 3, 10, 2},
		{"at end", "hello", 5, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := Line([]rune(tt.line))

			got := line.Delete(tt.pos, tt.n)
			if got != tt.want {
				t.Fatalf("Delete(%d,%d) = %d, want %d", tt.pos, tt.n, got, tt.want)
			}
		})
	}
}

// TestCopySetFromRoundTrip checks invariant 5: copy() followed by
// setFrom(copy) on a different line yields byte-identical state.
func TestCopySetFromRoundTrip(t *testing.T) {
	orig := Line([]rune("the quick brown fox"))
	snap := orig.Copy()

	var other Line
	other.Insert(0, []rune("unrelated content")...)
	other.SetFrom(snap)

	if string(other) != string(orig) {
		t.Fatalf("SetFrom did not restore content: got %q, want %q", string(other), string(orig))
	}

	// Mutating the original after the copy was taken must not affect
	// the restored line: Copy must be a deep copy, not aliased.
	orig.Insert(0, 'Z')
	if string(other) == string(orig) {
		t.Fatalf("copy aliases original storage")
	}
}

// TestMoveRoundTrip checks invariant 6: move(k) followed by move(-k)
// restores the cursor to its original position.
func TestMoveRoundTrip(t *testing.T) {
	line := Line([]rune("abcdefghij"))
	cur := NewCursor(&line)
	cur.Set(4)

	for _, k := range []int{1, 3, -2, 5} {
		before := cur.Pos()
		cur.Move(k)
		cur.Move(-k)

		if cur.Pos() != before {
			t.Fatalf("move(%d);move(%d) left cursor at %d, want %d", k, -k, cur.Pos(), before)
		}
	}
}

// TestInsertOverwriteGrowsOnlyPastEnd exercises the byte/rune distinction:
// multi-byte runes must not be split by Insert.
func TestInsertOverwriteGrowsOnlyPastEnd(t *testing.T) {
	line := Line([]rune("héllo"))

	if got := line.Len(); got != utf8.RuneCountInString("héllo") {
		t.Fatalf("Len() = %d, want %d", got, utf8.RuneCountInString("héllo"))
	}

	line.InsertOverwrite(0, 'H')
	if string(line) != "Héllo" {
		t.Fatalf("got %q", string(line))
	}
}
