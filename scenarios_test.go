package edit

import (
	"testing"
	"time"

	"github.com/halcyon-cli/edit/internal/completion"
	"github.com/halcyon-cli/edit/internal/history"
	"github.com/halcyon-cli/edit/internal/keymap"
)

// fakeReader feeds a pre-scripted key sequence to an Editor's core.Keys,
// standing in for the real terminal reader so a scenario can be driven
// deterministically through rl.readLine() without a tty.
type fakeReader struct {
	runes []rune
	pos   int
}

func newFakeReader(seq string) *fakeReader {
	return &fakeReader{runes: []rune(seq)}
}

func (f *fakeReader) ReadRune() (rune, bool) {
	if f.pos >= len(f.runes) {
		return 0, false
	}

	r := f.runes[f.pos]
	f.pos++

	return r, true
}

func (f *fakeReader) PeekRune(_ time.Duration) (rune, bool) {
	if f.pos >= len(f.runes) {
		return 0, false
	}

	return f.runes[f.pos], true
}

func (f *fakeReader) CursorPosition() (int, int) {
	return -1, -1
}

// newScenarioEditor returns an Editor wired to a scripted key sequence
// instead of the terminal, ready to drive through readLine() directly.
func newScenarioEditor(seq string) *Editor {
	rl := New()
	rl.keys.SetReader(newFakeReader(seq))

	return rl
}

func seedHistory(rl *Editor, lines ...string) history.Source {
	src := history.NewInMemoryHistory()
	rl.AddHistory("scenario", src)

	for _, line := range lines {
		src.Write(line)
	}

	return src
}

// Scenario 1: basic editing - move left twice and insert a character.
func TestScenarioBasicEditing(t *testing.T) {
	rl := newScenarioEditor("hello" + "\x1b[D" + "\x1b[D" + "X" + "\r")

	line, err := rl.readLine()
	if err != nil {
		t.Fatalf("readLine: %v", err)
	}

	if line != "helXlo" {
		t.Fatalf("got %q, want %q", line, "helXlo")
	}
}

// Scenario 2: kill a word at the start of the line, then yank it back,
// reconstructing the original line.
func TestScenarioKillAndYank(t *testing.T) {
	rl := newScenarioEditor("one two three" + ctrl('a') + meta('d') + ctrl('y') + "\r")

	line, err := rl.readLine()
	if err != nil {
		t.Fatalf("readLine: %v", err)
	}

	if line != "one two three" {
		t.Fatalf("got %q, want %q", line, "one two three")
	}
}

// Scenario 3: incremental reverse history search, cycling past the
// first match to land on an older one.
func TestScenarioHistorySearch(t *testing.T) {
	rl := newScenarioEditor(ctrl('r') + "git" + ctrl('r') + "\r")

	seedHistory(rl, "git status", "git log -1", "make test")

	line, err := rl.readLine()
	if err != nil {
		t.Fatalf("readLine: %v", err)
	}

	if line != "git status" {
		t.Fatalf("got %q, want %q", line, "git status")
	}
}

// Scenario 4: tab completion fills in the unambiguous common prefix of
// several candidates and stops there when the menu is cancelled.
func TestScenarioTabCompletion(t *testing.T) {
	rl := newScenarioEditor("foo" + ctrl('i') + "\x1b" + "\r")

	rl.completer.Register("words", func(line []rune, pos int) completion.Values {
		vals := completion.NewValues()
		vals.Add("word", "foobar", "foobaz")

		return vals
	})

	line, err := rl.readLine()
	if err != nil {
		t.Fatalf("readLine: %v", err)
	}

	if line != "fooba" {
		t.Fatalf("got %q, want %q", line, "fooba")
	}
}

// Scenario 5: vi "cw" changes to the end of the current word, matching
// vim's classic exception to plain forward-word motion.
func TestScenarioViChangeWord(t *testing.T) {
	rl := newScenarioEditor("alpha beta" + "\x1b" + "0" + "c" + "w" + "gamma" + "\x1b" + ctrl('m'))
	rl.keymaps.SetMain(keymap.ViIns)

	line, err := rl.readLine()
	if err != nil {
		t.Fatalf("readLine: %v", err)
	}

	if line != "gamma beta" {
		t.Fatalf("got %q, want %q", line, "gamma beta")
	}
}

// Scenario 6: "!!" expands to the previous history line before the line
// is accepted.
func TestScenarioEventExpansion(t *testing.T) {
	rl := newScenarioEditor("!! two" + "\r")

	seedHistory(rl, "echo one")

	line, err := rl.readLine()
	if err != nil {
		t.Fatalf("readLine: %v", err)
	}

	if line != "echo one two" {
		t.Fatalf("got %q, want %q", line, "echo one two")
	}
}
