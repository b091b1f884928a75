package edit

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode"

	"github.com/halcyon-cli/edit/internal/color"
	"github.com/halcyon-cli/edit/internal/core"
	"github.com/halcyon-cli/edit/internal/keymap"
)

// emacsCommands returns the baseline (non-vi, non-history) line-editing
// widgets: the set bound in the default emacs keymap, and shared where
// it makes sense (self-insert, the kill ring, completion) with vi
// insert mode.
//
// Motion
// Deletion and yanking
// Case and transposition
// Arguments and undo
// Completion and macros
// Miscellaneous.
func (rl *Editor) emacsCommands() commands {
	return map[string]func(){
		// Motion
		"beginning-of-line": rl.beginningOfLine,
		"end-of-line":       rl.endOfLine,
		"forward-char":      rl.forwardChar,
		"backward-char":     rl.backwardChar,
		"forward-word":      rl.forwardWord,
		"backward-word":     rl.backwardWord,

		// Deletion and yanking
		"backward-delete-char": rl.backwardDeleteChar,
		"delete-char":          rl.deleteChar,
		"kill-line":            rl.killLine,
		"kill-whole-line":      rl.killWholeLine,
		"unix-line-discard":    rl.unixLineDiscard,
		"backward-kill-word":   rl.backwardKillWord,
		"kill-word":            rl.killWord,
		"unix-word-rubout":     rl.unixWordRubout,
		"yank":                 rl.yank,
		"yank-pop":             rl.yankPop,

		"set-mark-command":        rl.setMarkCommand,
		"exchange-point-and-mark": rl.exchangePointAndMark,
		"copy-region-as-kill":     rl.copyRegionAsKill,
		"kill-region":             rl.killRegion,

		// Case and transposition
		"capitalize-word": rl.capitalizeWord,
		"upcase-word":     rl.upcaseWord,
		"downcase-word":   rl.downcaseWord,
		"transpose-chars": rl.transposeChars,
		"transpose-words": rl.transposeWords,

		// Arguments and undo
		"digit-argument":    rl.digitArgument,
		"universal-argument": rl.universalArgument,
		"negative-argument":  rl.negArgument,
		"undo":               rl.undoLast,
		"redo":               rl.emacsRedo,

		// Completion and macros
		"complete-word":          rl.completeWord,
		"possible-completions":   rl.possibleCompletions,
		"menu-complete":          rl.menuComplete,
		"reverse-menu-complete":  rl.reverseMenuComplete,
		"start-kbd-macro":        rl.startKbdMacro,
		"end-kbd-macro":          rl.endKbdMacro,
		"call-last-kbd-macro":    rl.callLastKbdMacro,

		// Miscellaneous
		"clear-screen":             rl.clearScreen,
		"self-insert":              rl.selfInsert,
		"quoted-insert":            rl.quotedInsert,
		"overwrite-mode":           rl.overwriteMode,
		"end-of-file":              rl.endOfFile,
		"keyboard-interrupt":       rl.interrupt,
		"edit-command-line":        rl.editCommandLine,
		"edit-and-execute-command": rl.editAndExecuteCommand,
	}
}

//
// Motion ----------------------------------------------------------------
//

// Move to the start of the line.
func (rl *Editor) beginningOfLine() {
	rl.histories.SkipSave()
	rl.cursor.BeginningOfLine()
}

// Move to the end of the line.
func (rl *Editor) endOfLine() {
	rl.histories.SkipSave()
	rl.cursor.EndOfLine()
}

// Move forward a character.
func (rl *Editor) forwardChar() {
	rl.histories.SkipSave()

	vii := rl.iterations.Get()
	for i := 1; i <= vii; i++ {
		rl.cursor.Inc()
	}
}

// Move backward a character.
func (rl *Editor) backwardChar() {
	rl.histories.SkipSave()

	vii := rl.iterations.Get()
	for i := 1; i <= vii; i++ {
		rl.cursor.Dec()
	}
}

// Move to the end of the next word.
func (rl *Editor) forwardWord() {
	rl.histories.SkipSave()

	vii := rl.iterations.Get()
	for i := 1; i <= vii; i++ {
		rl.insertAutosuggestPartial(true)

		forward := rl.line.ForwardEnd(core.Word, rl.cursor.Pos())
		rl.cursor.Move(forward + 1)
	}
}

// Move to the start of the previous word.
func (rl *Editor) backwardWord() {
	rl.histories.SkipSave()

	vii := rl.iterations.Get()
	for i := 1; i <= vii; i++ {
		rl.cursor.Move(rl.line.Backward(core.Word, rl.cursor.Pos()))
	}
}

//
// Deletion and yanking ----------------------------------------------------
//

// Delete the character before point.
func (rl *Editor) backwardDeleteChar() {
	rl.histories.Save()

	vii := rl.iterations.Get()
	pos := rl.cursor.Pos()

	deleted := rl.line.Backspace(pos, vii)
	rl.cursor.Set(pos - deleted)
}

// Delete the character under point.
func (rl *Editor) deleteChar() {
	rl.histories.Save()

	vii := rl.iterations.Get()
	rl.line.Delete(rl.cursor.Pos(), vii)
}

// Kill from point to the end of the line.
func (rl *Editor) killLine() {
	rl.histories.Save()

	pos := rl.cursor.Pos()
	rl.cursor.EndOfLine()
	end := rl.cursor.Pos()
	rl.cursor.Set(pos)

	cut := rl.line.Cut(pos, end)
	rl.buffers.Write([]rune(cut)...)

	rl.display.ResetHelpers()
}

// Kill the whole line under point, newline included, wherever point sits on it.
func (rl *Editor) killWholeLine() {
	rl.histories.Save()

	rl.cursor.BeginningOfLine()
	begin := rl.cursor.Pos()
	rl.cursor.EndOfLine()
	end := rl.cursor.Pos()

	if end < rl.line.Len() {
		end++
	}

	cut := rl.line.Cut(begin, end)
	rl.buffers.Write([]rune(cut)...)
	rl.cursor.Set(begin)

	rl.display.ResetHelpers()
}

// Kill backward from point to the beginning of the line.
func (rl *Editor) unixLineDiscard() {
	rl.histories.Save()

	end := rl.cursor.Pos()
	rl.cursor.BeginningOfLine()
	begin := rl.cursor.Pos()

	cut := rl.line.Cut(begin, end)
	rl.buffers.Prepend([]rune(cut)...)

	rl.display.ResetHelpers()
}

// Kill the word(s) before point.
func (rl *Editor) backwardKillWord() {
	rl.histories.Save()

	vii := rl.iterations.Get()
	pos := rl.cursor.Pos()

	for i := 1; i <= vii; i++ {
		pos += rl.line.Backward(core.Word, pos)
	}

	cut := rl.line.Cut(pos, rl.cursor.Pos())
	rl.buffers.Prepend([]rune(cut)...)
	rl.cursor.Set(pos)
}

// Kill the word(s) after point.
func (rl *Editor) killWord() {
	rl.histories.Save()

	vii := rl.iterations.Get()
	pos := rl.cursor.Pos()
	end := pos

	for i := 1; i <= vii; i++ {
		end += rl.line.Forward(core.Word, end)
	}

	cut := rl.line.Cut(pos, end)
	rl.buffers.Write([]rune(cut)...)
}

// Kill backward to the nearest whitespace, as opposed to backward-kill-word's
// alphanumeric boundary.
func (rl *Editor) unixWordRubout() {
	rl.histories.Save()

	vii := rl.iterations.Get()
	pos := rl.cursor.Pos()

	for i := 1; i <= vii; i++ {
		pos += rl.line.Backward(core.Blank, pos)
	}

	cut := rl.line.Cut(pos, rl.cursor.Pos())
	rl.buffers.Prepend([]rune(cut)...)
	rl.cursor.Set(pos)
}

// Insert the most recently killed text at point.
func (rl *Editor) yank() {
	rl.histories.Save()

	buffer := rl.buffers.Active()
	if len(buffer) == 0 {
		return
	}

	rl.line.Insert(rl.cursor.Pos(), buffer...)
	rl.cursor.Move(len(buffer))
	rl.lastYank = len(buffer)
}

// Replace the just-yanked text with the next older kill-ring entry.
func (rl *Editor) yankPop() {
	if rl.lastYank == 0 {
		return
	}

	rl.histories.Save()

	pos := rl.cursor.Pos()
	rl.line.Cut(pos-rl.lastYank, pos)
	rl.cursor.Set(pos - rl.lastYank)

	buffer := rl.buffers.Rotate()
	rl.line.Insert(rl.cursor.Pos(), buffer...)
	rl.cursor.Move(len(buffer))
	rl.lastYank = len(buffer)
}

// Set the mark at point (a negative argument clears it instead).
func (rl *Editor) setMarkCommand() {
	rl.histories.SkipSave()

	if rl.iterations.Get() < 0 {
		rl.selection.Reset()
		rl.cursor.ResetMark()

		return
	}

	rl.cursor.SetMark()
	rl.selection.Mark(rl.cursor.Pos())
}

// Swap point and the mark.
func (rl *Editor) exchangePointAndMark() {
	rl.histories.SkipSave()

	mark := rl.cursor.Mark()
	if mark == -1 {
		return
	}

	pos := rl.cursor.Pos()
	rl.cursor.Set(mark)
	rl.cursor.SetMarkTo(pos)

	if rl.iterations.Get() >= 0 {
		rl.selection.Mark(rl.cursor.Mark())
	}
}

// Copy the region between point and the mark onto the kill ring, without
// removing it from the line.
func (rl *Editor) copyRegionAsKill() {
	rl.histories.SkipSave()

	mark := rl.cursor.Mark()
	if mark == -1 {
		return
	}

	begin, end := rl.cursor.Pos(), mark
	if begin > end {
		begin, end = end, begin
	}

	rl.buffers.Write(rl.line.Substring(begin, end)...)
}

// Kill the region between point and the mark.
func (rl *Editor) killRegion() {
	rl.histories.Save()

	mark := rl.cursor.Mark()
	if mark == -1 {
		return
	}

	begin, end := rl.cursor.Pos(), mark
	if begin > end {
		begin, end = end, begin
	}

	cut := rl.line.Cut(begin, end)
	rl.buffers.Write([]rune(cut)...)
	rl.cursor.Set(begin)
	rl.cursor.ResetMark()
}

//
// Case and transposition --------------------------------------------------
//

// Uppercase the first letter of the next word and lowercase the rest.
func (rl *Editor) capitalizeWord() {
	rl.caseWord(nil, true)
}

// Uppercase the next word.
func (rl *Editor) upcaseWord() {
	rl.caseWord(unicode.ToUpper, false)
}

// Lowercase the next word.
func (rl *Editor) downcaseWord() {
	rl.caseWord(unicode.ToLower, false)
}

// caseWord walks the word at (or following) point, applying transform to
// each word rune (or, if titleCase, upcasing the first and downcasing the
// rest), and leaves point at the end of the word.
func (rl *Editor) caseWord(transform func(rune) rune, titleCase bool) {
	rl.histories.Save()

	vii := rl.iterations.Get()

	for i := 1; i <= vii; i++ {
		pos := rl.cursor.Pos()
		end := pos + rl.line.Forward(core.Word, pos)

		first := true

		for j := pos; j < end && j < rl.line.Len(); j++ {
			r := (*rl.line)[j]
			if !core.IsWordChar(r) {
				continue
			}

			switch {
			case titleCase && first:
				(*rl.line)[j] = unicode.ToUpper(r)
			case titleCase:
				(*rl.line)[j] = unicode.ToLower(r)
			default:
				(*rl.line)[j] = transform(r)
			}

			first = false
		}

		rl.cursor.Set(end)
	}
}

// Swap the character before point with the one at point, advancing past both.
func (rl *Editor) transposeChars() {
	rl.histories.Save()

	pos := rl.cursor.Pos()
	if pos == rl.line.Len() {
		pos--
	}

	rl.cursor.Set(rl.line.Transpose(pos))
}

// Swap the word before point with the word at (or following) point.
func (rl *Editor) transposeWords() {
	rl.histories.Save()

	pos := rl.cursor.Pos()

	end2 := pos + rl.line.ForwardEnd(core.Word, pos) + 1
	if end2 > rl.line.Len() {
		end2 = rl.line.Len()
	}

	start2 := end2 + rl.line.Backward(core.Word, end2)
	start1 := start2 + rl.line.Backward(core.Word, start2)
	end1 := start1 + rl.line.ForwardEnd(core.Word, start1) + 1

	if start1 >= start2 || end1 > start2 || start2 >= end2 {
		rl.cursor.Set(end2)
		return
	}

	word1 := string((*rl.line)[start1:end1])
	mid := string((*rl.line)[end1:start2])
	word2 := string((*rl.line)[start2:end2])

	rl.line.Cut(start1, end2)
	combined := word2 + mid + word1
	rl.line.Insert(start1, []rune(combined)...)
	rl.cursor.Set(start1 + len([]rune(combined)))
}

//
// Arguments and undo -------------------------------------------------------
//

// Start a new numeric argument, or add a digit to the current one.
func (rl *Editor) digitArgument() {
	rl.histories.SkipSave()

	keys := rl.keys.Matched()
	if len(keys) == 0 {
		return
	}

	rl.iterations.Add(keys[len(keys)-1])
}

// Multiply the accumulating numeric argument by four, or start one at
// four (bare C-u).
func (rl *Editor) universalArgument() {
	rl.histories.SkipSave()
	rl.iterations.Mul(4)
}

// Flip the sign of the accumulating numeric argument.
func (rl *Editor) negArgument() {
	rl.histories.SkipSave()
	rl.iterations.Negate()
}

// Undo the last text modification.
func (rl *Editor) undoLast() {
	rl.histories.SkipSave()
	rl.histories.Undo()
}

// Redo a text modification previously undone.
func (rl *Editor) emacsRedo() {
	rl.histories.SkipSave()
	rl.histories.Redo()
}

//
// Completion and macros -----------------------------------------------------
//

// Complete the word before point; inserts directly on a single match,
// opens the interactive menu on several.
func (rl *Editor) completeWord() {
	rl.histories.SkipSave()
	rl.completer.Generate()

	switch rl.completer.Matches() {
	case 0:
		return
	case 1:
		rl.completer.Select(0)
		rl.completer.Accept()
	default:
		// Several candidates still share more text than what's typed
		// (e.g. "foobar"/"foobaz" sharing "fooba"): fill that much in
		// before opening the menu to disambiguate the rest.
		if rl.completer.InsertCommonPrefix() {
			rl.completer.Generate()
		}

		rl.keymaps.SetLocal(keymap.MenuSelect)
		rl.completer.Select(0)
	}
}

// List every completion candidate without inserting any of them.
func (rl *Editor) possibleCompletions() {
	rl.histories.SkipSave()
	rl.completer.Generate()
}

// Open the interactive completion menu on the next candidate.
func (rl *Editor) menuComplete() {
	rl.histories.SkipSave()
	rl.completer.Generate()

	if rl.completer.Matches() == 0 {
		return
	}

	rl.keymaps.SetLocal(keymap.MenuSelect)
	rl.completer.Select(1)
}

// Open the interactive completion menu on the previous candidate.
func (rl *Editor) reverseMenuComplete() {
	rl.histories.SkipSave()
	rl.completer.Generate()

	if rl.completer.Matches() == 0 {
		return
	}

	rl.keymaps.SetLocal(keymap.MenuSelect)
	rl.completer.Select(-1)
}

// Begin recording a keyboard macro.
func (rl *Editor) startKbdMacro() {
	rl.histories.SkipSave()
	rl.macros.StartRecord("")
}

// Stop recording a keyboard macro.
func (rl *Editor) endKbdMacro() {
	rl.histories.SkipSave()
	rl.macros.StopRecord()
}

// Replay the most recently recorded keyboard macro.
func (rl *Editor) callLastKbdMacro() {
	rl.histories.SkipSave()
	rl.macros.Play("")
}

//
// Miscellaneous -------------------------------------------------------------
//

// Clear the screen and redraw the prompt and line from the top.
func (rl *Editor) clearScreen() {
	rl.histories.SkipSave()
	rl.display.ClearScreen()
}

// Insert the keys just read into the line at point.
func (rl *Editor) selfInsert() {
	rl.histories.Save()

	keys := rl.keys.Matched()
	if len(keys) == 0 {
		return
	}

	rl.line.Insert(rl.cursor.Pos(), keys...)
	rl.cursor.Move(len(keys))
}

// Insert the next key literally, bypassing any binding it would
// otherwise trigger.
func (rl *Editor) quotedInsert() {
	rl.histories.Save()

	key, isAbort := rl.keys.ReadArgument()
	if isAbort || len(key) == 0 {
		return
	}

	rl.line.Insert(rl.cursor.Pos(), key...)
	rl.cursor.Move(len(key))
}

// Enter overwrite mode: read keys and replace characters under point one
// by one until Escape is read.
func (rl *Editor) overwriteMode() {
	rl.histories.Save()

	done := rl.keymaps.PendingCursor()
	defer done()

	for {
		key, isAbort := rl.keys.ReadArgument()
		if isAbort {
			break
		}

		switch key[0] {
		case 0x7f, 0x08:
			rl.backwardDeleteChar()
		default:
			rl.line.InsertOverwrite(rl.cursor.Pos(), key[0])
			rl.cursor.Inc()
		}

		rl.display.Refresh()
	}
}

// End of input: deletes forward if the line holds text, otherwise signals
// end-of-file to the caller.
func (rl *Editor) endOfFile() {
	if rl.line.Len() > 0 {
		rl.deleteChar()
		return
	}

	rl.display.AcceptLine()
	rl.histories.Accept(false, false, ErrEOF)
}

// Cancel the current line, surfacing the partial buffer to the caller.
func (rl *Editor) interrupt() {
	rl.display.AcceptLine()
	rl.histories.Accept(false, true, ErrInterrupted)
}

// Open the current line in $VISUAL/$EDITOR (or vi), replacing it with
// whatever the editor leaves behind once it exits.
func (rl *Editor) editCommandLine() {
	rl.histories.Save()

	edited, err := rl.runExternalEditor(string(*rl.line))
	if err != nil {
		rl.hint.Set(color.FgRed + err.Error())
		return
	}

	rl.line.Set([]rune(edited)...)
	rl.cursor.Set(rl.line.Len())
	rl.display.ResetHelpers()
}

// editAndExecuteCommand is editCommandLine's accept-immediately sibling:
// once the external editor returns, the resulting line is accepted as
// though Enter had been pressed.
func (rl *Editor) editAndExecuteCommand() {
	rl.editCommandLine()
	rl.acceptLine()
}

// runExternalEditor round-trips text through a temp file and the user's
// configured editor, returning the file's contents once the editor exits.
func (rl *Editor) runExternalEditor(text string) (string, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = "vi"
	}

	file, err := os.CreateTemp("", "edit-cmdline-*.txt")
	if err != nil {
		return text, fmt.Errorf("creating scratch file: %w", err)
	}
	defer os.Remove(file.Name())

	if _, err := file.WriteString(text); err != nil {
		file.Close()
		return text, fmt.Errorf("writing scratch file: %w", err)
	}
	file.Close()

	cmd := exec.Command(editor, file.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return text, fmt.Errorf("running %s: %w", editor, err)
	}

	edited, err := os.ReadFile(file.Name())
	if err != nil {
		return text, fmt.Errorf("reading edited command: %w", err)
	}

	return strings.TrimRight(string(edited), "\n"), nil
}
