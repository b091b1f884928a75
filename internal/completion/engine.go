package completion

import (
	"regexp"

	"github.com/halcyon-cli/edit/internal/core"
	"github.com/halcyon-cli/edit/internal/keymap"
	"github.com/halcyon-cli/edit/internal/ui"
)

// Engine is the CompletionEngine: it holds the registered completers,
// the candidates generated from the last invocation, the interactive
// menu's selection state, and (while active) the isearch/non-isearch
// minibuffer.
type Engine struct {
	line      *core.Line
	cursor    *core.Cursor
	selection *core.Selection
	keymaps   *keymap.Keymap
	hint      *ui.Hint

	completers map[string]Completer
	matchers   []Matcher

	cached  Values
	columns *Columnizer
	menu    bool
	cursorI int // index into columns.Flat(), -1 if nothing selected

	selected   *Candidate
	completed  *core.Line
	compCursor *core.Cursor

	isearch          *regexp.Regexp
	isearchInsert    bool
	isearchBuf       *core.Line
	isearchCur       *core.Cursor
	isearchName      string
	isearchForward   bool
	isearchSubstring bool
	isearchModeExit  keymap.Mode
}

// New returns a completion engine operating on line/cursor/selection,
// reporting through hint and consulting keymaps for local-mode state.
func New(line *core.Line, cursor *core.Cursor, selection *core.Selection, keymaps *keymap.Keymap, hint *ui.Hint) *Engine {
	return &Engine{
		line:       line,
		cursor:     cursor,
		selection:  selection,
		keymaps:    keymaps,
		hint:       hint,
		completers: make(map[string]Completer),
		matchers:   []Matcher{PrefixMatcher, SubstringMatcher, TypoMatcher},
		cursorI:    -1,
	}
}

// Register adds a named completer (history, file paths, a custom
// command tree, a carapace adapter) to the engine's completer set.
func (e *Engine) Register(name string, completer Completer) {
	e.completers[name] = completer
}

// SetMatchers overrides the default prefix/substring/typo pipeline.
func (e *Engine) SetMatchers(matchers ...Matcher) {
	e.matchers = matchers
}

// Generate runs every registered completer against the current line
// and lays the combined, matched results out for display.
func (e *Engine) Generate() {
	word, start := currentWord(*e.line, e.cursor.Pos())

	all := NewValues()
	all.Prefix = word

	for _, c := range e.completers {
		all.Merge(c(*e.line, e.cursor.Pos()))
	}

	e.GenerateWith(all)
	_ = start
}

// GenerateWith lays out an already-produced candidate set, applying
// the matcher pipeline and (if isearch is active) the isearch filter.
func (e *Engine) GenerateWith(all Values) {
	e.cached = all

	matched := Pipeline(all, all.Prefix, e.matchers...)

	if e.isearch != nil {
		filtered := matched
		filtered.Candidates = nil

		for _, c := range matched.Candidates {
			if e.isearch.MatchString(c.Value) {
				filtered.Candidates = append(filtered.Candidates, c)
			}
		}

		matched = filtered
	}

	e.columns = Columnize(matched)
	e.cursorI = -1
}

// Matches returns how many candidates the last Generate/GenerateWith
// call produced after matching/filtering.
func (e *Engine) Matches() int {
	if e.columns == nil {
		return 0
	}

	return len(e.columns.Flat())
}

// Display renders the current candidate grid as plain text, for the
// display package to place below the input line.
func (e *Engine) Display() string {
	if e.columns == nil {
		return ""
	}

	return e.columns.Render()
}

// MenuActive reports whether the interactive completion menu is
// currently cycling through candidates.
func (e *Engine) MenuActive() bool {
	return e.menu
}

// Select moves the menu cursor by delta candidates (wrapping) and
// virtually inserts the chosen candidate into a scratch copy of the
// line, without committing it.
func (e *Engine) Select(delta int) {
	flat := e.flatOrNil()
	if len(flat) == 0 {
		return
	}

	e.menu = true

	if e.cursorI == -1 {
		e.cursorI = 0
	} else {
		e.cursorI = ((e.cursorI+delta)%len(flat) + len(flat)) % len(flat)
	}

	cand := flat[e.cursorI]
	e.selected = &cand

	line := e.line.Copy()
	start, _ := currentWordBounds(line, e.cursor.Pos())
	line.Cut(start, e.cursor.Pos())
	line.Insert(start, []rune(cand.Value)...)

	e.completed = &line
	e.compCursor = core.NewCursor(e.completed)
	e.compCursor.Set(start + len([]rune(cand.Value)))
}

func (e *Engine) flatOrNil() []Candidate {
	if e.columns == nil {
		return nil
	}

	return e.columns.Flat()
}

// UpdateInserted is a no-op: it returns without touching the
// selection or the virtually-inserted line, whether or not the menu
// is active.
func UpdateInserted(e *Engine) {
	if e == nil || !e.menu {
		return
	}
}

// Accept commits the currently selected candidate into the real line
// and exits the menu.
func (e *Engine) Accept() {
	if e.selected == nil {
		e.Reset()
		return
	}

	start, _ := currentWordBounds(*e.line, e.cursor.Pos())
	e.line.Cut(start, e.cursor.Pos())
	e.line.Insert(start, []rune(e.selected.Value)...)
	e.cursor.Set(start + len([]rune(e.selected.Value)))

	e.Reset()
}

// CommonPrefix returns the longest prefix shared by every candidate
// from the last Generate/GenerateWith call, or "" if there were none
// or they share nothing.
func (e *Engine) CommonPrefix() string {
	flat := e.flatOrNil()
	if len(flat) == 0 {
		return ""
	}

	prefix := flat[0].Value

	for _, c := range flat[1:] {
		prefix = commonPrefixOf(prefix, c.Value)
		if prefix == "" {
			return ""
		}
	}

	return prefix
}

func commonPrefixOf(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	i := 0
	for i < n && a[i] == b[i] {
		i++
	}

	return a[:i]
}

// InsertCommonPrefix splices the longest common prefix of the current
// candidates into the line at the word being completed, reporting
// whether it extended the line (used by complete-word to fill in the
// unambiguous part of several candidates before opening the selection
// menu, e.g. "foobar"/"foobaz" -> "fooba").
func (e *Engine) InsertCommonPrefix() bool {
	prefix := e.CommonPrefix()
	if prefix == "" {
		return false
	}

	start, _ := currentWordBounds(*e.line, e.cursor.Pos())
	word := string((*e.line)[start:e.cursor.Pos()])

	if len(prefix) <= len(word) {
		return false
	}

	e.line.Cut(start, e.cursor.Pos())
	e.line.Insert(start, []rune(prefix)...)
	e.cursor.Set(start + len([]rune(prefix)))

	return true
}

// Reset clears the menu/selection state but keeps the keymap/hint
// untouched (used between commands that should not disturb the hint).
func (e *Engine) Reset() {
	e.menu = false
	e.selected = nil
	e.completed = nil
	e.compCursor = nil
	e.cursorI = -1
}

// ResetForce fully resets the engine, also exiting isearch/menu local
// keymaps and clearing the hint, used at the start of each new line.
func (e *Engine) ResetForce() {
	e.Reset()
	e.IsearchStop()
	e.NonIsearchStop()
	e.cached = Values{}
	e.columns = nil
}

func currentWord(line core.Line, pos int) (word string, start int) {
	start, end := currentWordBounds(line, pos)
	_ = end

	return string(line[start:pos]), start
}

func currentWordBounds(line core.Line, pos int) (start, end int) {
	start = pos

	for start > 0 && !isBlankRune(line[start-1]) {
		start--
	}

	end = pos

	for end < len(line) && !isBlankRune(line[end]) {
		end++
	}

	return start, end
}

func isBlankRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}
