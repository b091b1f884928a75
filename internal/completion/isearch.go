package completion

import (
	"regexp"
	"strings"

	"github.com/halcyon-cli/edit/internal/color"
	"github.com/halcyon-cli/edit/internal/core"
	"github.com/halcyon-cli/edit/internal/keymap"
)

// IsearchStart enters incremental search mode: name labels the hint
// ("history", "completion", ...), autoinsert controls whether the
// first match is virtually inserted into the line as the user types.
func (e *Engine) IsearchStart(name string, autoinsert bool) {
	e.keymaps.SetLocal(keymap.Isearch)
	e.isearchInsert = autoinsert

	e.isearchBuf = new(core.Line)
	e.isearchCur = core.NewCursor(e.isearchBuf)

	e.isearchName = name
	e.hint.Set(color.Bold + color.FgCyan + name + " (isearch): " + color.Reset)
}

// IsearchStop exits incremental search mode. The minibuffer contents
// are kept (commands like "search again" reuse the last pattern).
func (e *Engine) IsearchStop() {
	e.keymaps.ClearLocal()
	e.isearch = nil
	e.isearchCur = nil
}

// GetBuffer returns the line/cursor/selection the next command should
// operate on: the incremental-search minibuffer while searching, the
// completed line (candidate virtually inserted) while menu-selecting,
// or the plain input line otherwise.
func (e *Engine) GetBuffer() (*core.Line, *core.Cursor, *core.Selection) {
	if e.isearchCur != nil {
		return e.isearchBuf, e.isearchCur, core.NewSelection(e.isearchBuf, e.isearchCur)
	}

	if e.selected != nil {
		return e.completed, e.compCursor, e.selection
	}

	return e.line, e.cursor, e.selection
}

// UpdateIsearch recompiles the isearch buffer into a filter (a regexp
// in incremental mode, plain text in non-incremental mode) and
// refreshes the candidate/hint display accordingly.
func (e *Engine) UpdateIsearch() {
	if e.keymaps.Local() != keymap.Isearch && e.isearchCur == nil {
		return
	}

	if e.selected != nil {
		return
	}

	if e.keymaps.Local() == keymap.Isearch {
		e.updateIncrementalSearch()
	} else {
		e.updateNonIncrementalSearch()
	}
}

// NonIsearchStart starts a non-incremental search minibuffer (vi's "/"
// and "?"): it does not filter live completions, only collects a
// pattern the caller resolves once Enter is pressed.
func (e *Engine) NonIsearchStart(name string, repeat, forward, substring bool) {
	if !repeat || e.isearchBuf == nil {
		e.isearchBuf = new(core.Line)
	}

	e.isearchCur = core.NewCursor(e.isearchBuf)
	e.isearchCur.Set(e.isearchBuf.Len())

	e.isearchName = name
	e.isearchForward = forward
	e.isearchSubstring = substring
	e.isearchModeExit = e.keymaps.Main()

	if e.keymaps.Main() != keymap.Emacs && e.keymaps.Main() != keymap.ViIns {
		e.keymaps.SetMain(keymap.ViIns)
	}
}

// NonIsearchStop exits non-incremental search mode, restoring whatever
// main keymap was active before it started.
func (e *Engine) NonIsearchStop() {
	e.isearch = nil
	e.isearchCur = nil
	e.isearchForward = false
	e.isearchSubstring = false

	if e.keymaps.Main() != e.isearchModeExit && e.isearchModeExit != "" {
		e.keymaps.SetMain(e.isearchModeExit)
		e.isearchModeExit = ""
	}

	if e.keymaps.Main() == keymap.ViCmd {
		e.cursor.CheckCommand()
	}

	e.hint.Reset()
}

// NonIncrementallySearching reports whether a non-incremental search
// minibuffer is active, and in which direction/mode it is searching.
func (e *Engine) NonIncrementallySearching() (searching, forward, substring bool) {
	searching = e.isearchCur != nil && e.keymaps.Local() != keymap.Isearch

	return searching, e.isearchForward, e.isearchSubstring
}

// IsearchPattern returns the current minibuffer text, used by the
// caller to resolve a non-incremental search once Enter completes it.
func (e *Engine) IsearchPattern() string {
	if e.isearchBuf == nil {
		return ""
	}

	return string(*e.isearchBuf)
}

func (e *Engine) updateIncrementalSearch() {
	pattern := string(*e.isearchBuf)

	regexStr := pattern
	if !hasUpper(pattern) {
		regexStr = "(?i)" + pattern
	}

	re, err := regexp.Compile(regexStr)
	if err != nil {
		e.hint.Set(color.FgRed + "invalid search pattern")
	} else {
		e.isearch = re
	}

	e.GenerateWith(e.cached)

	hint := color.Bold + color.FgCyan + e.isearchName +
		" (inc-search): " + color.Reset + color.Bold + pattern
	e.hint.Set(hint)

	if e.isearchInsert && e.Matches() > 0 && len(pattern) > 0 {
		e.Select(0)
	}
}

func (e *Engine) updateNonIncrementalSearch() {
	hint := color.Bold + color.FgCyan + e.isearchName +
		" (non-inc-search): " + color.Reset + color.Bold + string(*e.isearchBuf)
	e.hint.Set(hint)
}

func hasUpper(s string) bool {
	return strings.ToLower(s) != s
}
