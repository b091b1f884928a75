package edit

import (
	"unicode"

	"github.com/halcyon-cli/edit/inputrc"
	"github.com/halcyon-cli/edit/internal/core"
	"github.com/halcyon-cli/edit/internal/keymap"
	"github.com/halcyon-cli/edit/internal/strutil"
)

// commands maps widget names to their implementation.
type commands map[string]func()

// viCommands returns all Vim commands.
// Under each comment are gathered all commands related to the comment's
// subject. When there are two subgroups separated by an empty line, the
// second one comprises commands that are not legacy readline commands.
//
// Modes
// Moving
// Changing text
// Killing and Yanking
// Selecting text
// Miscellaneous.
func (rl *Editor) viCommands() commands {
	return map[string]func(){
		// Modes
		"vi-append-mode":    rl.viAddNext,
		"vi-append-eol":     rl.viAddEol,
		"vi-insertion-mode": rl.viInsertMode,
		"vi-insert-beg":     rl.viInsertBol,
		"vi-movement-mode":  rl.viCommandMode,
		"vi-visual-mode":    rl.viVisualMode,
		"vi-editing-mode":   rl.viInsertMode,

		"vi-visual-line-mode": rl.viVisualLineMode,

		// Movement
		"vi-backward-char":    rl.viBackwardChar,
		"vi-forward-char":     rl.viForwardChar,
		"vi-prev-word":        rl.viBackwardWord,
		"vi-next-word":        rl.viForwardWord,
		"vi-backward-word":    rl.viBackwardWord,
		"vi-forward-word":     rl.viForwardWord,
		"vi-backward-bigword": rl.viBackwardBlankWord,
		"vi-forward-bigword":  rl.viForwardBlankWord,
		"vi-end-word":         rl.viForwardWordEnd,
		"vi-end-bigword":      rl.viForwardBlankWordEnd,
		"vi-match":            rl.viMatchBracket,
		"vi-column":           rl.viGotoColumn,
		"vi-end-of-line":      rl.viEndOfLine,
		"vi-back-to-indent":   rl.viBackToIndent,
		"vi-first-print":      rl.viFirstPrint,
		"vi-goto-mark":        rl.viGotoMark,

		"vi-backward-end-word":    rl.viBackwardWordEnd,
		"vi-backward-end-bigword": rl.viBackwardBlankWordEnd,

		// Changing text
		"vi-change-to":   rl.viChangeTo,
		"vi-delete-to":   rl.viDeleteTo,
		"vi-delete":      rl.viDeleteChar,
		"vi-change-char": rl.viChangeChar,
		"vi-replace":     rl.viReplace, // missing vi-overstrike-delete
		"vi-overstrike":  rl.viReplace,
		"vi-change-case": rl.viChangeCase,
		"vi-subst":       rl.viSubstitute,

		"vi-change-eol":      rl.viChangeEol,
		"vi-add-surround":    rl.viAddSurround,
		"vi-change-surround": rl.viChangeSurround,
		"vi-open-line-above": rl.viOpenLineAbove,
		"vi-open-line-below": rl.viOpenLineBelow,
		"vi-down-case":       rl.viDownCase,
		"vi-up-case":         rl.viUpCase,

		// Kill and Yanking
		"vi-kill-eol":         rl.viKillEol,
		"vi-unix-word-rubout": rl.backwardKillWord,
		"vi-rubout":           rl.viRubout,
		"vi-yank-to":          rl.viYankTo,
		"vi-yank-pop":         rl.yankPop,
		"vi-yank-arg":         rl.yankLastArg,

		"vi-kill-line":       rl.viKillLine,
		"vi-put":             rl.viPut,
		"vi-put-after":       rl.viPutAfter,
		"vi-put-before":      rl.viPutBefore,
		"vi-set-buffer":      rl.viSetBuffer,
		"vi-yank-whole-line": rl.viYankWholeLine,

		// Selecting text
		"select-a-blank-word":  rl.viSelectABlankWord,
		"select-a-shell-word":  rl.viSelectAShellWord,
		"select-a-word":        rl.viSelectAWord,
		"select-in-blank-word": rl.viSelectInBlankWord,
		"select-in-shell-word": rl.viSelectInShellWord,
		"select-in-word":       rl.viSelectInWord,
		"vi-select-surround":   rl.viSelectSurround,

		// Miscellaneous
		"vi-eof-maybe":                rl.viEOFMaybe,
		"vi-search":                   rl.viSearch,
		"vi-search-again":             rl.viSearchAgain,
		"vi-arg-digit":                rl.viArgDigit,
		"vi-char-search":              rl.viCharSearch,
		"vi-set-mark":                 rl.viSetMark,
		"vi-edit-and-execute-command": rl.viEditAndExecuteCommand,
		"vi-undo":                     rl.undoLast,
		"vi-redo":                     rl.viRedo,

		"vi-edit-command-line":     rl.viEditCommandLine,
		"vi-find-next-char":        rl.viFindNextChar,
		"vi-find-next-char-skip":   rl.viFindNextCharSkip,
		"vi-find-prev-char":        rl.viFindPrevChar,
		"vi-find-prev-char-skip":   rl.viFindPrevCharSkip,
		"vi-search-forward":        rl.viSearchForward,
		"vi-search-backward":       rl.viSearchBackward,
		"vi-search-again-forward":  rl.viSearchAgainForward,
		"vi-search-again-backward": rl.viSearchAgainBackward,
	}
}

//
// Modes ----------------------------------------------------------------
//

// Enter Vim insertion mode.
func (rl *Editor) viInsertMode() {
	rl.histories.Save()

	// Reset any visual selection and iterations.
	rl.selection.Reset()
	rl.iterations.Reset()

	// Change the keymap and mark the insertion point.
	rl.keymaps.SetLocal("")
	rl.keymaps.SetMain(keymap.ViIns)
	rl.cursor.SetMark()
}

// Enter Vim command mode.
func (rl *Editor) viCommandMode() {
	// Reset any visual selection and iterations.
	rl.iterations.Reset()
	rl.selection.Reset()

	// Cancel completions and hints if any, and reassign the
	// current line/cursor/selection for the cursor check below
	// to be effective. This is needed when in isearch mode.
	rl.hint.Reset()
	rl.completer.Reset()
	rl.line, rl.cursor, rl.selection = rl.completer.GetBuffer()

	// Only go back when leaving insert mode
	if rl.keymaps.Main() == keymap.ViIns && !rl.cursor.AtBeginningOfLine() {
		rl.cursor.Dec()
	}

	// Update the cursor position, keymap and insertion point.
	rl.cursor.CheckCommand()
	rl.keymaps.SetLocal("")
	rl.keymaps.SetMain(keymap.ViCmd)
}

// Enter Vim visual mode.
func (rl *Editor) viVisualMode() {
	rl.histories.SkipSave()
	rl.iterations.Reset()

	// Cancel completions and hints if any.
	rl.hint.Reset()
	rl.completer.Reset()

	// Mark the selection as visual at the current cursor position.
	rl.selection.Mark(rl.cursor.Pos())
	rl.selection.Visual(false)
	rl.keymaps.SetLocal(keymap.Visual)
}

// Enter Vim visual mode, selecting the entire
// line on which the cursor is currently.
func (rl *Editor) viVisualLineMode() {
	rl.histories.SkipSave()
	rl.iterations.Reset()

	rl.hint.Reset()
	rl.completer.Reset()

	// Mark the selection as visual at the current
	// cursor position, in visual line mode.
	rl.selection.Mark(rl.cursor.Pos())
	rl.selection.Visual(true)
	rl.keymaps.SetLocal(keymap.Visual)

	rl.keymaps.PrintCursor(keymap.Visual)
}

// Go to the beginning of the current line, and enter Vim insert mode.
func (rl *Editor) viInsertBol() {
	rl.iterations.Reset()
	rl.beginningOfLine()
	rl.viInsertMode()
}

// Enter insert mode on the next character.
func (rl *Editor) viAddNext() {
	if rl.line.Len() > 0 {
		rl.cursor.Inc()
	}

	rl.viInsertMode()
}

// Go to the end of the current line, and enter insert mode.
func (rl *Editor) viAddEol() {
	rl.iterations.Reset()

	if rl.keymaps.Local() == keymap.Visual {
		rl.cursor.Inc()
		rl.viInsertMode()
		return
	}

	rl.endOfLine()
	rl.viInsertMode()
}

//
// Movement -------------------------------------------------------------
//

// Move forward one character, without changing lines.
func (rl *Editor) viForwardChar() {
	// Only exception where we actually don't forward a character.
	if rl.config.GetBool("history-autosuggest") && rl.cursor.Pos() == rl.line.Len()-1 {
		rl.autosuggestAccept()
		return
	}

	rl.histories.SkipSave()

	// In vi-cmd-mode, we don't go further than the
	// last character in the line, hence rl.line-1
	if rl.keymaps.Main() != keymap.ViIns && rl.cursor.Pos() < rl.line.Len()-1 {
		vii := rl.iterations.Get()

		for i := 1; i <= vii; i++ {
			if (*rl.line)[rl.cursor.Pos()+1] == '\n' {
				break
			}

			rl.cursor.Inc()
		}
	}
}

// Move backward one character, without changing lines.
func (rl *Editor) viBackwardChar() {
	rl.histories.SkipSave()

	vii := rl.iterations.Get()

	if rl.cursor.Pos() == 0 {
		return
	}

	for i := 1; i <= vii; i++ {
		if (*rl.line)[rl.cursor.Pos()-1] == '\n' {
			break
		}

		rl.cursor.Dec()
	}
}

// viMoveWord moves the cursor by iterations.Get() words as split by
// tok, in the given direction. The four plain vi word motions
// (word/WORD, forward/backward) differ only in tokenizer and in
// whether the move is allowed to pull in an autosuggestion and open a
// fresh undo boundary, which only vi-next-word (forward, word-wise)
// does among the four.
func (rl *Editor) viMoveWord(tok bool, forward, autosuggest bool) {
	if autosuggest {
		rl.histories.Save()
	} else {
		rl.histories.SkipSave()
	}

	vii := rl.iterations.Get()
	for i := 1; i <= vii; i++ {
		if autosuggest {
			// When we have an autosuggested history and if we are at the
			// end of the line, insert the next word from this suggested line.
			rl.insertAutosuggestPartial(false)
		}

		if forward {
			rl.cursor.Move(rl.line.Forward(tok, rl.cursor.Pos()))
		} else {
			rl.cursor.Move(rl.line.Backward(tok, rl.cursor.Pos()))
		}
	}
}

// Move to the beginning of the previous word, vi-style.
func (rl *Editor) viBackwardWord() { rl.viMoveWord(core.Word, false, false) }

// Move to the beginning of the next word.
func (rl *Editor) viForwardWord() { rl.viMoveWord(core.Word, true, true) }

// Move backward one word, where a word is defined as a series of non-blank characters.
func (rl *Editor) viBackwardBlankWord() { rl.viMoveWord(core.Blank, false, false) }

// Move forward one word, where a word is defined as a series of non-blank characters.
func (rl *Editor) viForwardBlankWord() { rl.viMoveWord(core.Blank, true, false) }

// viMoveWordEndForward moves to the end of the current or next word as
// split by tok, for iterations.Get() repeats. Shared by vi-end-word and
// vi-end-bigword, which differ only in tokenizer.
func (rl *Editor) viMoveWordEndForward(tok bool) {
	rl.histories.SkipSave()

	vii := rl.iterations.Get()
	for i := 1; i <= vii; i++ {
		rl.cursor.Move(rl.line.ForwardEnd(tok, rl.cursor.Pos()))
	}
}

// Move to the end of the current word, or, if at the end of the
// current word, to the end of the next word.
func (rl *Editor) viForwardWordEnd() { rl.viMoveWordEndForward(core.Word) }

// Move to the end of the current word, or, if at the end
// of the current word, to the end of the next word, where
// a word is defined as a series of non-blank characters.
func (rl *Editor) viForwardBlankWordEnd() { rl.viMoveWordEndForward(core.Blank) }

// viMoveWordEndBackward implements vi's "ge"/"gE" (move to the end of
// the previous word as split by tok). adjustPunct matches vi's
// word-wise quirk of nudging off a punctuation character before
// re-extending to the word's end; WORD (blank-delimited) boundaries
// already swallow punctuation, so vi-backward-end-bigword skips it.
func (rl *Editor) viMoveWordEndBackward(tok bool, adjustPunct bool) {
	rl.histories.SkipSave()

	vii := rl.iterations.Get()

	for i := 1; i <= vii; i++ {
		rl.cursor.Inc()

		rl.cursor.Move(rl.line.Backward(tok, rl.cursor.Pos()))
		rl.cursor.Move(rl.line.Backward(tok, rl.cursor.Pos()))

		if adjustPunct && strutil.IsPunctuation((*rl.line)[rl.cursor.Pos()]) {
			rl.cursor.Dec()
		}

		rl.cursor.Move(rl.line.ForwardEnd(tok, rl.cursor.Pos()))
	}
}

// Move to the end of the previous word, vi-style.
func (rl *Editor) viBackwardWordEnd() { rl.viMoveWordEndBackward(core.Word, true) }

// Move to the end of the previous word, where a word is defined as a series of non-blank characters.
func (rl *Editor) viBackwardBlankWordEnd() { rl.viMoveWordEndBackward(core.Blank, false) }

// Move to the bracket character (one of {}, () or []) that matches the one under
// the cursor. If the cursor is not on a bracket character, move forward without
// going past the end of the line to find one, and then go to the matching bracket.
func (rl *Editor) viMatchBracket() {
	rl.histories.SkipSave()

	nextPos := rl.cursor.Pos()
	found := false

	// If we are on a bracket/brace/parenthesis, we just find the matcher
	if !strutil.IsBracket((*rl.line)[rl.cursor.Pos()]) {
		for i := rl.cursor.Pos() + 1; i < rl.line.Len(); i++ {
			char := (*rl.line)[i]
			if strutil.IsBracket(char) {
				nextPos = i - rl.cursor.Pos()
				found = true

				break
			}
		}

		if !found {
			return
		}

		rl.cursor.Move(nextPos)
	}

	var adjust int

	split, index, pos := rl.line.TokenizeBlock(rl.cursor.Pos())

	switch {
	case len(split) == 0:
		return
	case pos == 0:
		adjust = len(split[index]) - 1
	default:
		adjust = pos * -1
	}

	rl.cursor.Move(adjust)
}

// Move to the column specified by the numeric argument.
func (rl *Editor) viGotoColumn() {
	rl.histories.SkipSave()

	column := rl.iterations.Get()

	if column < 0 {
		return
	}

	cpos := rl.cursor.Pos()

	rl.cursor.BeginningOfLine()
	bpos := rl.cursor.Pos()
	rl.cursor.EndOfLine()
	epos := rl.cursor.Pos()

	rl.cursor.Set(cpos)

	switch {
	case column > epos-bpos:
		rl.cursor.Set(epos)
	default:
		rl.cursor.Set(bpos + column - 1)
	}
}

// Move to the end of the line, vi-style.
func (rl *Editor) viEndOfLine() {
	rl.histories.SkipSave()
	// We use append so that any y$ / d$
	// will include the last character.
	rl.cursor.EndOfLineAppend()
}

// Move to the first non-blank character in the line.
func (rl *Editor) viFirstPrint() {
	rl.cursor.BeginningOfLine()
	rl.cursor.ToFirstNonSpace(true)
}

// Move to the first non-blank character in the line.
func (rl *Editor) viBackToIndent() {
	rl.cursor.BeginningOfLine()
	rl.cursor.ToFirstNonSpace(true)
}

// Move to the specified mark.
func (rl *Editor) viGotoMark() {
	switch {
	case rl.selection.Active():
		// We either an active selection, in which case
		// we go to the position (begin or end) that is
		// set and not equal to the cursor.
		bpos, epos := rl.selection.Pos()
		if bpos != rl.cursor.Pos() {
			rl.cursor.Set(bpos)
		} else {
			rl.cursor.Set(epos)
		}

	case rl.cursor.Mark() != -1:
		// Or we go to the cursor mark, which was set when
		// entering insert mode. This might have no effect.
		rl.cursor.Set(rl.cursor.Mark())
	}
}

//
// Changing Text --------------------------------------------------------
//

// Read a movement command from the keyboard, and kill from the cursor
// position to the endpoint of the movement. Then enter insert mode.
// If the command is vi-change, change the current line.
func (rl *Editor) viChangeTo() {
	switch {
	case rl.keymaps.IsPending():
		// In vi operator pending mode, it's that we've been called
		// twice in a row (eg. `cc`), so copy the entire current line.
		rl.keymaps.CancelPending()

		rl.histories.Save()
		rl.histories.SkipSave()

		rl.selection.Mark(rl.cursor.Pos())
		rl.selection.Visual(true)
		rl.selection.Cut()
		rl.viInsertMode()

	case rl.selection.Active():
		// In visual mode, we have just have a selection to delete.
		rl.histories.Save()
		rl.histories.SkipSave()

		rl.adjustSelectionPending()
		cpos := rl.selection.Cursor()
		cut := rl.selection.Cut()
		rl.buffers.Write([]rune(cut)...)
		rl.cursor.Set(cpos)

		rl.viInsertMode()

	default:
		// First press: arm operator-pending mode and wait for the
		// motion that completes it (completeViOperator, called once
		// that motion has run), unless the next key is the "C"
		// shortcut for changing to end of line.
		key, _ := rl.keys.Peek()

		if key == 'C' {
			rl.viChangeEol()
			break
		}

		rl.keymaps.Pending("c")
		rl.selection.Mark(rl.cursor.Pos())
	}
}

// Read a movement command from the keyboard, and kill from the cursor
// position to the endpoint of the movement. If the command is vi-delete,
// kill the current line.
func (rl *Editor) viDeleteTo() {
	switch {
	case rl.keymaps.IsPending():
		// In vi operator pending mode, it's that we've been called
		// twice in a row (eg. `dd`), so delete the entire current line.
		rl.keymaps.CancelPending()

		rl.histories.Save()
		rl.histories.SkipSave()

		rl.selection.Mark(rl.cursor.Pos())
		rl.selection.Visual(true)
		cpos := rl.selection.Cursor()

		text := rl.selection.Cut()

		// Get buffer and add newline if there isn't one at the end
		if len(text) > 0 && rune(text[len(text)-1]) != inputrc.Newline {
			text += string(inputrc.Newline)
		}

		rl.buffers.Write([]rune(text)...)
		rl.cursor.Set(cpos)

	case rl.selection.Active():
		// In visual mode, or with a non-empty selection, just cut it.
		rl.histories.Save()
		rl.histories.SkipSave()

		rl.adjustSelectionPending()
		cpos := rl.selection.Cursor()
		cut := rl.selection.Cut()
		rl.buffers.Write([]rune(cut)...)
		rl.cursor.Set(cpos)

		rl.viCommandMode()

	default:
		// First press: arm operator-pending mode and wait for the
		// motion that completes it, unless the next key is the "D"
		// shortcut for killing to end of line.
		key, _ := rl.keys.Peek()

		if key == 'D' {
			rl.viKillEol()
			break
		}

		rl.keymaps.Pending("d")
		rl.selection.Mark(rl.cursor.Pos())
	}
}

// Delete the character under the cursor, without going past the end of the line.
func (rl *Editor) viDeleteChar() {
	if rl.line.Len() == 0 || rl.cursor.Pos() == rl.line.Len() {
		return
	}

	rl.histories.Save()

	cutBuf := make([]rune, 0)

	vii := rl.iterations.Get()

	for i := 1; i <= vii; i++ {
		if rl.cursor.Pos() >= rl.line.Len() {
			break
		}

		cutBuf = append(cutBuf, (*rl.line)[rl.cursor.Pos()])
		rl.line.CutRune(rl.cursor.Pos())
	}

	rl.buffers.Write(cutBuf...)
}

// Replace the character under the cursor with a character read from the keyboard.
func (rl *Editor) viChangeChar() {
	rl.histories.Save()

	// We read a character to use first.
	done := rl.keymaps.PendingCursor()
	defer done()

	key, isAbort := rl.keys.ReadArgument()
	if isAbort || len(key) == 0 {
		rl.histories.SkipSave()
		return
	}

	switch {
	case rl.selection.Active() && rl.selection.IsVisual():
		// In visual mode, we replace all chars of the selection
		rl.selection.ReplaceWith(func(r rune) rune {
			return key[0]
		})
	default:
		// Or simply the character under the cursor.
		rl.line.CutRune(rl.cursor.Pos())
		rl.line.Insert(rl.cursor.Pos(), []rune(key)...)
	}
}

// Enter overwrite mode.
func (rl *Editor) viReplace() {
	// We store the current line as an undo item first, but will not
	// store any intermediate changes (in the loop below) as undo items.
	rl.histories.Save()

	// All replaced characters are stored, to be used with backspace
	cache := make([]rune, 0)

	// Don't use the delete cache past the end of the line
	lineStart := rl.line.Len()

	done := rl.keymaps.PendingCursor()
	defer done()

	// The replace mode is quite special in that it does not escape back
	// to the main readline loop: it keeps reading characters and inserts
	// them as long as the escape key is not pressed.
	for {
		// We read a character to use first.
		keys, isAbort := rl.keys.ReadArgument()
		if isAbort {
			break
		}

		key := keys[0]

		// If the key is a backspace, we go back one character
		if string(key) == inputrc.Unescape(string(`\C-?`)) {
			if rl.cursor.Pos() > lineStart {
				rl.backwardDeleteChar()
			} else if rl.cursor.Pos() > 0 {
				rl.cursor.Dec()
			}

			// And recover the last replaced character
			if len(cache) > 0 && rl.cursor.Pos() < lineStart {
				key = cache[len(cache)-1]
				cache = cache[:len(cache)-1]
				(*rl.line)[rl.cursor.Pos()] = key
			}
		} else {
			// If the cursor is at the end of the line,
			// we insert the character instead of replacing.
			if rl.line.Len() == rl.cursor.Pos() {
				rl.line.Insert(rl.cursor.Pos(), key)
			} else {
				cache = append(cache, (*rl.line)[rl.cursor.Pos()])
				(*rl.line)[rl.cursor.Pos()] = key
			}

			rl.cursor.Inc()
		}

		// Update the line
		rl.display.Refresh()
	}

	// When exiting the replace mode, move the cursor back
	rl.cursor.Dec()
}

// Swap the case of the character under the cursor and move past it.
// If in visual mode, change the case of each character in the selection.
func (rl *Editor) viChangeCase() {
	switch {
	case rl.selection.Active() && rl.selection.IsVisual():
		rl.selection.ReplaceWith(func(char rune) rune {
			if unicode.IsLower(char) {
				return unicode.ToUpper(char)
			}

			return unicode.ToLower(char)
		})

	default:
		char := (*rl.line)[rl.cursor.Pos()]
		if unicode.IsLower(char) {
			char = unicode.ToUpper(char)
		} else {
			char = unicode.ToLower(char)
		}

		(*rl.line)[rl.cursor.Pos()] = char
		rl.cursor.Inc()
	}
}

// Substitute the next character(s).
func (rl *Editor) viSubstitute() {
	switch {
	case rl.selection.Active():
		// Delete the selection and enter insert mode.
		cpos := rl.selection.Cursor()
		rl.selection.Cut()
		rl.cursor.Set(cpos)
		rl.viInsertMode()

	default:
		// Delete next characters and enter insert mode.
		vii := rl.iterations.Get()
		for i := 1; i <= vii; i++ {
			rl.line.CutRune(rl.cursor.Pos())
		}

		rl.viInsertMode()
	}
}

// Kill to the end of the line and enter insert mode.
func (rl *Editor) viChangeEol() {
	rl.histories.Save()
	rl.histories.SkipSave()

	pos := rl.cursor.Pos()
	rl.selection.Mark(pos)
	rl.cursor.EndOfLineAppend()
	rl.selection.Cut()
	rl.cursor.Set(pos)

	rl.iterations.Reset()
	rl.display.ResetHelpers()
	rl.viInsertMode()
}

// Read a key from the keyboard, and add it to the lead and trail of the current
// selection. If the key is matcher type (quote/bracket/brace, etc), each of the
// matchers is used accordingly (an opening and closing one).
func (rl *Editor) viAddSurround() {
	// Get the surround character to change.
	done := rl.keymaps.PendingCursor()
	defer done()

	key, isAbort := rl.keys.ReadArgument()
	if isAbort {
		rl.histories.SkipSave()
		return
	}

	bchar, echar := strutil.MatchSurround(rune(key[0]))

	rl.histories.Save()

	// Surround the selection
	rl.selection.Surround(bchar, echar)
}

// Read a key from the keyboard, attempt to find a pair of this key around the cursor,
// and if found, read another key with which to replace the matched keys.
func (rl *Editor) viChangeSurround() {
	rl.histories.Save()
	rl.histories.SkipSave()

	// Read a key as a rune to search for
	done := rl.keymaps.PendingCursor()
	defer done()

	key, isAbort := rl.keys.ReadArgument()
	if isAbort {
		return
	}

	char := rune(key[0])

	// Find the corresponding enclosing chars
	bpos, epos, _, _ := rl.line.FindSurround(char, rl.cursor.Pos())
	if bpos == -1 || epos == -1 {
		return
	}

	// Add those two positions to highlighting and update.
	rl.selection.MarkSurround(bpos, epos)
	rl.display.Refresh()

	defer func() { rl.selection.Reset() }()

	// Now read another key
	done = rl.keymaps.PendingCursor()
	defer done()

	key, isAbort = rl.keys.ReadArgument()
	if isAbort {
		return
	}

	rl.histories.Save()

	rchar := rune(key[0])

	// There might be a matching equivalent.
	bchar, echar := strutil.MatchSurround(rchar)

	(*rl.line)[bpos] = bchar
	(*rl.line)[epos] = echar
}

// Create a new line above the current one, and enter insert mode.
func (rl *Editor) viOpenLineAbove() {
	rl.histories.Save()
	if !rl.cursor.OnEmptyLine() {
		rl.beginningOfLine()
	}
	rl.line.Insert(rl.cursor.Pos(), '\n')
	rl.viInsertMode()
}

// Create a new line below the current one, and enter insert mode.
func (rl *Editor) viOpenLineBelow() {
	rl.histories.Save()
	if !rl.cursor.OnEmptyLine() {
		rl.endOfLine()
	}
	rl.line.Insert(rl.cursor.Pos(), '\n')
	rl.cursor.Inc()
	rl.viInsertMode()
}

// viChangeCaseOperator implements vi's "u"/"U" operators: over a
// pending or visual selection it converts the spanned text and
// returns to command mode; bare, it arms operator-pending mode for the
// motion that follows (e.g. "uw").
func (rl *Editor) viChangeCaseOperator(op string, convert func(rune) rune) {
	rl.histories.SkipSave()

	switch {
	case rl.keymaps.IsPending():
		// In vi operator pending mode, it's that we've been called
		// twice in a row (eg. `uu`), so modify the entire current line.
		rl.histories.Save()
		rl.histories.SkipSave()

		rl.selection.Mark(rl.cursor.Pos())
		rl.selection.Visual(true)
		rl.selection.ReplaceWith(convert)
		rl.viCommandMode()

	case rl.selection.Active():
		rl.selection.ReplaceWith(convert)
		rl.viCommandMode()

	default:
		// Else if we are actually starting a yank action.
		rl.histories.SkipSave()
		rl.keymaps.Pending(op)
		rl.selection.Mark(rl.cursor.Pos())
	}
}

// Lowercase the text covered by the following motion, or the whole
// line when the key is doubled. If in visual mode, operate on the
// whole selection.
func (rl *Editor) viDownCase() { rl.viChangeCaseOperator("u", unicode.ToLower) }

// Uppercase the text covered by the following motion, or the whole
// line when the key is doubled. If in visual mode, operate on the
// whole selection.
func (rl *Editor) viUpCase() { rl.viChangeCaseOperator("U", unicode.ToUpper) }

//
// Killing & Yanking ----------------------------------------------------
//

// Kill from the cursor to the end of the line.
func (rl *Editor) viKillEol() {
	rl.histories.Save()
	rl.histories.SkipSave()

	pos := rl.cursor.Pos()
	rl.selection.Mark(rl.cursor.Pos())
	rl.cursor.EndOfLineAppend()

	cut := rl.selection.Cut()
	rl.buffers.Write([]rune(cut)...)
	rl.cursor.Set(pos)

	if !rl.cursor.AtBeginningOfLine() {
		rl.cursor.Dec()
	}

	rl.iterations.Reset()
	rl.display.ResetHelpers()
}

// Delete the character before the cursor (as many as the numeric
// argument, one by default), writing the deleted characters to the
// register, nearest to the cursor first.
func (rl *Editor) viRubout() {
	if rl.keymaps.Main() != keymap.ViIns {
		rl.histories.Save()
	}

	vii := rl.iterations.Get()

	cut := make([]rune, 0)

	// Delete the chars in the line anyway
	for i := 1; i <= vii; i++ {
		if rl.cursor.Pos() == 0 {
			break
		}

		rl.cursor.Dec()
		cut = append(cut, (*rl.line)[rl.cursor.Pos()])
		rl.line.CutRune(rl.cursor.Pos())
	}

	rl.buffers.Write(cut...)
}

// Read a movement command from the keyboard, and copy the region
// from the cursor position to the endpoint of the movement into
// the kill buffer. If the command is vi-yank, copy the current line.
func (rl *Editor) viYankTo() {
	rl.histories.SkipSave()

	switch {
	case rl.keymaps.IsPending():
		// In vi operator pending mode, it's that we've been called
		// twice in a row (eg. `yy`), so copy the entire current line.
		rl.keymaps.CancelPending()

		rl.selection.Mark(rl.cursor.Pos())
		rl.selection.Visual(true)

		// Get buffer and add newline if there isn't one at the end
		text, _, _, _ := rl.selection.Pop()
		if len(text) > 0 && rune(text[len(text)-1]) != inputrc.Newline {
			text += string(inputrc.Newline)
		}

		rl.buffers.Write([]rune(text)...)

	case rl.selection.Active():
		// In visual mode, or with a non-empty selection, just yank.
		rl.adjustSelectionPending()
		text, _, _, cpos := rl.selection.Pop()

		rl.buffers.Write([]rune(text)...)
		rl.cursor.Set(cpos)

		rl.viCommandMode()

	default:
		// First press: arm operator-pending mode and wait for the
		// motion that completes it, unless the next key is the "Y"
		// shortcut for yanking the whole line.
		key, _ := rl.keys.Peek()

		if key == 'Y' {
			rl.viYankWholeLine()
			break
		}

		rl.keymaps.Pending("y")
		rl.selection.Mark(rl.cursor.Pos())
	}
}

// Copy the current line into the kill buffer.
func (rl *Editor) viYankWholeLine() {
	rl.histories.SkipSave()

	// calculate line selection.
	rl.selection.Mark(rl.cursor.Pos())
	rl.selection.Visual(true)

	bpos, epos := rl.selection.Pos()

	// If selection has a new line, remove it.
	if (*rl.line)[epos-1] == '\n' {
		epos--
	}

	// Pass the buffer to register.
	buffer := (*rl.line)[bpos:epos]
	rl.buffers.Write(buffer...)

	// Done with any selection.
	rl.selection.Reset()
}

// Kill from the cursor back to wherever insert mode was last entered.
func (rl *Editor) viKillLine() {
	if rl.cursor.Pos() <= rl.cursor.Mark() || rl.cursor.Pos() == 0 {
		return
	}

	rl.histories.Save()
	rl.histories.SkipSave()

	mark := rl.cursor.Mark()
	rl.selection.MarkRange(mark, rl.cursor.Pos())
	rl.cursor.Dec()
	cut := rl.selection.Cut()
	rl.buffers.Write([]rune(cut)...)
	rl.cursor.Set(mark)
}

// Readline-compatible version dispatching to vi-put-after or vi-put-before.
func (rl *Editor) viPut() {
	key, _ := rl.keys.Peek()

	switch key {
	case 'P':
		rl.viPutBefore()
	case 'p':
		fallthrough
	default:
		rl.viPutAfter()
	}
}

// Insert the contents of the kill buffer after the cursor.
func (rl *Editor) viPutAfter() {
	rl.histories.Save()

	buffer := rl.buffers.Active()

	if len(buffer) == 0 {
		return
	}

	// Add newlines when pasting an entire line.
	if buffer[len(buffer)-1] == '\n' {
		if !rl.cursor.OnEmptyLine() {
			rl.cursor.EndOfLineAppend()
		}

		if rl.cursor.Pos() == rl.line.Len() {
			buffer = append([]rune{'\n'}, buffer[:len(buffer)-1]...)
		}
	}

	rl.cursor.Inc()
	pos := rl.cursor.Pos()

	vii := rl.iterations.Get()
	for i := 1; i <= vii; i++ {
		rl.line.Insert(pos, buffer...)
	}
}

// Insert the contents of the kill buffer before the cursor.
func (rl *Editor) viPutBefore() {
	rl.histories.Save()

	buffer := rl.buffers.Active()

	if len(buffer) == 0 {
		return
	}

	if buffer[len(buffer)-1] == '\n' {
		rl.cursor.BeginningOfLine()

		if rl.cursor.OnEmptyLine() {
			buffer = append(buffer, '\n')
			rl.cursor.Dec()
		}
	}

	pos := rl.cursor.Pos()

	vii := rl.iterations.Get()
	for i := 1; i <= vii; i++ {
		rl.line.Insert(pos, buffer...)
	}

	rl.cursor.Set(pos)
}

// Specify a buffer to be used in the following command. See the registers section in the Vim page.
func (rl *Editor) viSetBuffer() {
	rl.histories.SkipSave()

	// Always reset the active register.
	rl.buffers.Reset()

	// Then read a key to select the register
	done := rl.keymaps.PendingCursor()
	defer done()

	key, isAbort := rl.keys.ReadArgument()
	if isAbort {
		return
	}

	rl.buffers.SetActive(key[0])
}

//
// Selecting Text -------------------------------------------------------
//

// Select a word including adjacent blanks, where a word is defined as a series of non-blank characters.
func (rl *Editor) viSelectABlankWord() {
	rl.histories.SkipSave()
	rl.cursor.CheckCommand()

	rl.selection.SelectABlankWord()
}

// Select the current command argument applying the normal rules for quoting.
func (rl *Editor) viSelectAShellWord() {
	rl.histories.SkipSave()
	rl.cursor.CheckCommand()

	// First find the blank word under cursor,
	// and put or cursor at the beginning of it.
	bpos, _ := rl.line.SelectBlankWord(rl.cursor.Pos())
	rl.cursor.Set(bpos)

	// Then find any enclosing quotes, if valid.
	rl.selection.SelectAShellWord()
}

// Select a word including adjacent blanks, using the normal vi-style word definition.
func (rl *Editor) viSelectAWord() {
	rl.histories.SkipSave()
	rl.selection.SelectAWord()
}

// Select a word, where a word is defined as a series of non-blank characters.
func (rl *Editor) viSelectInBlankWord() {
	rl.histories.SkipSave()

	bpos, epos := rl.line.SelectBlankWord(rl.cursor.Pos())
	rl.cursor.Set(epos - 1)
	rl.selection.Mark(bpos)
}

// Select the current command argument applying the normal rules for quoting.
// If the argument begins and ends with matching quote characters, these are
// not included in the selection.
func (rl *Editor) viSelectInShellWord() {
	rl.histories.SkipSave()

	// First find the blank word under cursor,
	// and put or cursor at the beginning of it.
	bpos, _ := rl.line.SelectBlankWord(rl.cursor.Pos())
	rl.cursor.Set(bpos)

	// Then find any enclosing quotes, if valid.
	sBpos, sEpos := rl.line.SurroundQuotes(true, rl.cursor.Pos())
	dBpos, dEpos := rl.line.SurroundQuotes(false, rl.cursor.Pos())
	mark, cpos := strutil.AdjustSurroundQuotes(dBpos, dEpos, sBpos, sEpos)

	// If none matched, use blankword
	if mark == -1 && cpos == -1 {
		rl.viSelectInBlankWord()

		return
	}

	rl.cursor.Set(cpos - 2)

	// Select the range and return: the caller will decide what
	// to do with the cursor position and the selection itself.
	rl.selection.Mark(mark + 1)
}

// Select a word, using the normal vi-style word definition.
func (rl *Editor) viSelectInWord() {
	rl.histories.SkipSave()

	bpos, epos := rl.line.SelectWord(rl.cursor.Pos())
	rl.cursor.Set(epos - 1)
	rl.selection.Mark(bpos)
}

// Read a key from the keyboard, and attempt to select a region surrounded by those keys.
func (rl *Editor) viSelectSurround() {
	rl.histories.SkipSave()

	var inside bool

	// The surround can be either inside or around a surrounding
	// character, so we look at the input keys: the first one is
	// the only that triggered this command, so check the second.
	// Use the first key to know if inside/around is used.
	key, _ := rl.keys.Pop()
	switch key {
	case 'i':
		inside = true
	}

	// Then use the next key as the surrounding character.
	char, empty := rl.keys.Pop()
	if empty {
		return
	}

	bpos, epos, _, _ := rl.line.FindSurround(char, rl.cursor.Pos())
	if bpos == -1 && epos == -1 {
		return
	}

	if inside {
		bpos++
		epos--
	}

	// Select the range and return: the caller will decide what
	// to do with the cursor position and the selection itself.
	rl.selection.Mark(bpos)
	rl.cursor.Set(epos)
}

//
// Miscellaneous --------------------------------------------------------
//

// The character indicating end-of-file as set, for example,
// by “stty”.  If this character is read when there are no
// characters on the line, and point is at the beginning of
// the line, readline interprets it as the end of input and
// returns EOF.
func (rl *Editor) viEOFMaybe() {
	rl.endOfFile()
}

func (rl *Editor) viSearch() {
	var forward bool

	key, _ := rl.keys.Peek()

	switch key {
	case '/':
		forward = true
	case '?':
		forward = false
	}

	rl.completer.NonIsearchStart(rl.histories.Name()+" "+string(key), false, forward, true)
}

func (rl *Editor) viSearchAgain() {
	var forward bool
	var hint string

	key, _ := rl.keys.Peek()

	switch key {
	case 'n':
		forward = true
		hint = " /"
	case 'N':
		forward = false
		hint = " ?"
	}

	rl.completer.NonIsearchStart(rl.histories.Name()+hint, true, forward, true)

	line, cursor, _ := rl.completer.GetBuffer()

	rl.histories.InsertMatch(line, cursor, true, forward, true)
	rl.completer.NonIsearchStop()
}

// Start a new numeric argument, or add to the current one.
// This only works if bound to a key sequence ending in a decimal digit.
func (rl *Editor) viArgDigit() {
	rl.histories.SkipSave()

	keys := rl.keys.Matched()
	if len(keys) == 0 {
		return
	}

	rl.iterations.Add(keys[len(keys)-1])
}

// Readline-compatible command for F/f/T/t character search commands.
func (rl *Editor) viCharSearch() {
	var forward, skip bool

	// In order to keep readline compatibility,
	// we check the key triggering the command
	// so set the specific behavior.
	key, _ := rl.keys.Peek()

	switch key {
	case 'F':
		forward = false
		skip = false
	case 't':
		forward = true
		skip = true
	case 'T':
		forward = false
		skip = true
	case 'f':
		fallthrough
	default:
		forward = true
		skip = false
	}

	vii := rl.iterations.Get()

	for i := 1; i <= vii; i++ {
		rl.viFindChar(forward, skip)
	}
}

// Set the specified mark at the cursor position.
func (rl *Editor) viSetMark() {
	rl.histories.SkipSave()
	rl.selection.Mark(rl.cursor.Pos())
}

// Invoke an editor on the current command line, and execute the result as shell commands.
// Readline attempts to invoke $VISUAL, $EDITOR, and Vi as the editor, in that order.
func (rl *Editor) viEditAndExecuteCommand() {
	rl.editAndExecuteCommand()
}

// Incrementally redo undone text modifications.
// If at the beginning of the line changes, enter insert mode.
func (rl *Editor) viRedo() {
	if rl.histories.Pos() > 0 {
		rl.histories.Redo()
		return
	}

	// Enter insert mode when no redo possible.
	rl.viInsertMode()
}

// Invoke an editor on the current command line.
// Readline attempts to invoke $VISUAL, $EDITOR, and Vi as the editor, in that order.
func (rl *Editor) viEditCommandLine() {
	keymapCur := rl.keymaps.Main()

	rl.editCommandLine()

	// We're done with visual mode when we were in.
	switch keymapCur {
	case keymap.ViCmd, keymap.Vi:
		rl.viCommandMode()
	default:
		rl.viInsertMode()
	}
}

// Read a character from the keyboard, and move to the next occurrence of it in the line.
func (rl *Editor) viFindNextChar() {
	vii := rl.iterations.Get()

	for i := 1; i <= vii; i++ {
		rl.viFindChar(true, false)
	}
}

// Read a character from the keyboard, and move to the position just before the next occurrence of it in the line.
func (rl *Editor) viFindNextCharSkip() {
	vii := rl.iterations.Get()

	for i := 1; i <= vii; i++ {
		rl.viFindChar(true, true)
	}
}

// Read a character from the keyboard, and move to the previous occurrence of it in the line.
func (rl *Editor) viFindPrevChar() {
	vii := rl.iterations.Get()

	for i := 1; i <= vii; i++ {
		rl.viFindChar(false, false)
	}
}

// Read a character from the keyboard, and move to the position just after the previous occurrence of it in the line.
func (rl *Editor) viFindPrevCharSkip() {
	vii := rl.iterations.Get()

	for i := 1; i <= vii; i++ {
		rl.viFindChar(false, true)
	}
}

func (rl *Editor) viFindChar(forward, skip bool) {
	rl.histories.SkipSave()

	// Read the argument key to use as a pattern to search
	done := rl.keymaps.PendingCursor()
	defer done()

	key, esc := rl.keys.ReadArgument()
	if esc {
		return
	}

	char := key[0]
	times := rl.iterations.Get()

	for i := 1; i <= times; i++ {
		pos := rl.line.Find(char, rl.cursor.Pos(), forward)

		if pos == rl.cursor.Pos() || pos == -1 {
			break
		}

		if forward && skip {
			pos--
		} else if !forward && skip {
			pos++
		}

		rl.cursor.Set(pos)
	}
}

// Start a non-incremental search buffer, finds the first forward
// matching line (as a regexp), and makes it the current buffer.
func (rl *Editor) viSearchForward() {
	rl.completer.NonIsearchStart(rl.histories.Name()+" /", false, true, true)
}

// Start a non-incremental search buffer, finds the first backward
// matching line (as a regexp), and makes it the current buffer.
func (rl *Editor) viSearchBackward() {
	rl.completer.NonIsearchStart(rl.histories.Name()+" ?", false, false, true)
}

// Reuses the last vi-search buffer and finds the previous search match occurrence in the history.
func (rl *Editor) viSearchAgainForward() {
	rl.completer.NonIsearchStart(rl.histories.Name()+" /", true, true, true)

	line, cursor, _ := rl.completer.GetBuffer()

	rl.histories.InsertMatch(line, cursor, true, true, true)
	rl.completer.NonIsearchStop()
}

// Reuses the last vi-search buffer and finds the next search match occurrence in the history.
func (rl *Editor) viSearchAgainBackward() {
	rl.completer.NonIsearchStart(rl.histories.Name()+" ?", true, false, true)

	line, cursor, _ := rl.completer.GetBuffer()

	rl.histories.InsertMatch(line, cursor, true, false, true)
	rl.completer.NonIsearchStop()
}

//
// Utils ---------------------------------------------------------------
//

// completeViOperator finishes a vi operator (c/d/y/u/U) once the free
// motion that was supposed to satisfy it has run and left it pending:
// the doubled-key ("dd") and visual-mode forms clear IsPending inline
// and never reach here. The span consumed is the one the mark/cursor
// pair already describes, adjusted by adjustSelectionPending for the
// motion that just ran.
func (rl *Editor) completeViOperator() {
	op := rl.keymaps.PendingOp()
	motion := rl.keymaps.ActiveCommand().Action
	rl.keymaps.CancelPending()

	if op == "c" {
		rl.viChangeQuirk(motion)
	}

	rl.adjustSelectionPending()

	switch op {
	case "c":
		rl.histories.Save()
		rl.histories.SkipSave()

		cpos := rl.selection.Cursor()
		cut := rl.selection.Cut()
		rl.buffers.Write([]rune(cut)...)
		rl.cursor.Set(cpos)

		rl.viInsertMode()

	case "d":
		rl.histories.Save()
		rl.histories.SkipSave()

		cpos := rl.selection.Cursor()
		cut := rl.selection.Cut()
		rl.buffers.Write([]rune(cut)...)
		rl.cursor.Set(cpos)

	case "y":
		text, _, _, cpos := rl.selection.Pop()
		rl.buffers.Write([]rune(text)...)
		rl.cursor.Set(cpos)

	case "u":
		rl.selection.ReplaceWith(unicode.ToLower)
		rl.viCommandMode()

	case "U":
		rl.selection.ReplaceWith(unicode.ToUpper)
		rl.viCommandMode()
	}
}

// viChangeQuirk implements vi's "cw acts like ce" rule: when the change
// operator's motion was a plain forward-word (not already an end-word
// motion) and the mark didn't start on blank space, the change stops at
// the end of the current word instead of consuming into the next one,
// so "cw" never eats the trailing space a plain "dw" would.
func (rl *Editor) viChangeQuirk(motion string) {
	var tok bool

	switch motion {
	case "vi-forward-word":
		tok = core.Word
	case "vi-forward-bigword":
		tok = core.Blank
	default:
		return
	}

	mark := rl.selection.Cursor()
	if mark >= rl.line.Len() || strutil.IsSpace((*rl.line)[mark]) {
		return
	}

	rl.cursor.Set(mark + rl.line.ForwardEnd(tok, mark))
}

// Some commands accepting a pending operator command (yw/de... etc), must
// either encompass the character under cursor into the selection, or not.
// Note that when this command while a yank/delete command has been called
// in visual mode, no adjustments will take place, since the active command
// is not one of those in the below switch statement.
func (rl *Editor) adjustSelectionPending() {
	if !rl.selection.Active() {
		return
	}

	switch rl.keymaps.ActiveCommand().Action {
	// Movements
	case "vi-end-word", "vi-end-bigword":
		rl.selection.Visual(false)

		// Modifiers
	case "vi-change-to":
		rl.selection.Visual(false)

		// Selectors
	case "select-in-word", "select-a-word",
		"select-in-blank-word", "select-a-blank-word",
		"select-in-shell-word", "select-a-shell-word",
		"vi-select-surround":
		rl.selection.Visual(false)
	}
}
