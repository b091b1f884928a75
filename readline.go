package edit

import (
	"fmt"
	"os"
	"unicode"

	"github.com/halcyon-cli/edit/inputrc"
	"github.com/halcyon-cli/edit/internal/color"
	"github.com/halcyon-cli/edit/internal/completion"
	"github.com/halcyon-cli/edit/internal/core"
	"github.com/halcyon-cli/edit/internal/display"
	"github.com/halcyon-cli/edit/internal/keymap"
	"github.com/halcyon-cli/edit/internal/macro"
	"github.com/halcyon-cli/edit/internal/term"
)

// Readline displays the prompt and reads a line of input. It returns
// when the user accepts the line (generally with Enter) or when a
// bound command signals it should return immediately (Ctrl-C, Ctrl-D),
// along with any error the bound command wants to report.
func (rl *Editor) Readline() (string, error) {
	descriptor := int(os.Stdin.Fd())

	state, err := term.MakeRaw(descriptor)
	if err != nil {
		return "", err
	}
	defer term.Restore(descriptor, state)

	return rl.readLine()
}

// readLine runs the read/dispatch loop itself, independent of whether
// the terminal has been put in raw mode. Split out from Readline so
// the loop can be driven directly against an injected core.Reader
// (see the package's scenario tests), which never has a real file
// descriptor to put in raw mode.
func (rl *Editor) readLine() (string, error) {
	rl.prompt.PrimaryPrint()
	defer rl.display.RefreshTransient()

	rl.init()

	for {
		// Whether or not the command is resolved, let the macro
		// engine record the keys if currently recording a macro.
		// This is done before flushing all used keys, on purpose.
		macro.RecordKeys(rl.macros)

		// Get rid of the keys that were consumed during the
		// previous command run. This may include keys that have
		// been consumed but did not match any command.
		rl.keys.FlushUsed()

		// Since we always update helpers after being asked to read
		// for user input again, we do it before actually reading it.
		rl.display.Refresh()

		// Block and wait for user input keys.
		rl.keys.WaitAvailableKeys()

		// A closed input leaves the queue empty: report end-of-file.
		if _, ok := rl.keys.PeekAt(0); !ok {
			return "", ErrEOF
		}

		// 1 - Local keymap (completion/isearch/viopp)
		bind, command, prefixed := keymap.MatchLocal(rl.keymaps)
		if prefixed {
			continue
		}

		accepted, line, err := rl.run(bind, command)
		if accepted {
			return line, err
		}

		if command != nil {
			continue
		}

		// Past the local keymap, our actions have a direct effect
		// on the line or on the cursor position, so we must first
		// "reset" or accept any completion state we're in, if any,
		// such as a virtually inserted candidate.
		completion.UpdateInserted(rl.completer)

		// 2 - Main keymap (vicmd/viins/emacs-*)
		bind, command, prefixed = keymap.MatchMain(rl.keymaps)
		if prefixed {
			continue
		}

		accepted, line, err = rl.run(bind, command)
		if accepted {
			return line, err
		}

		// Reaching this point means the last key/sequence has not
		// been dispatched down to a command: therefore this key is
		// undefined for the current local/main keymaps.
		rl.handleUndefined(bind, command)
	}
}

// init gathers all steps to perform at the beginning of the read loop.
func (rl *Editor) init() {
	rl.keys.FlushUsed()
	rl.line.Set()
	rl.cursor.Set(0)
	rl.cursor.ResetMark()
	rl.selection.Reset()
	rl.buffers.Reset()
	rl.histories.Reset()
	rl.histories.Save()
	rl.iterations.Reset()

	// Some accept-* commands must fetch a specific line outright, or
	// keep the accepted one.
	rl.histories.Init()

	rl.hint.Reset()
	rl.completer.ResetForce()
	display.Init(rl.display, rl.highlighter())
}

func (rl *Editor) highlighter() display.Highlighter {
	if rl.SyntaxHighlighter == nil {
		return nil
	}

	return display.Highlighter(rl.SyntaxHighlighter)
}

// run wraps the execution of a target command/sequence with the
// pre/post steps every dispatched command needs (buffer handoff to the
// completion system, cursor checks, iteration hints, history saves).
func (rl *Editor) run(bind inputrc.Bind, command func()) (bool, string, error) {
	// If the resolved bind is a macro itself, reinject its bound
	// sequence back into the key queue.
	if bind.Macro {
		expanded := inputrc.Unescape(bind.Action)
		rl.keys.Feed(false, []rune(expanded)...)
	}

	if command == nil {
		return false, "", nil
	}

	rl.keymaps.SetActive(bind)

	// The completion system might have control of the input line and
	// be using it with a virtual insertion, so it knows which line
	// and cursor we should work on.
	rl.line, rl.cursor, rl.selection = rl.completer.GetBuffer()

	rl.execute(command)

	rl.updatePosRunHints()

	// If the command just run was using the incremental search
	// buffer (acting on it), update the list of matches.
	rl.completer.UpdateIsearch()

	rl.line, rl.cursor, rl.selection = rl.completer.GetBuffer()

	// History: save the last action to the line history, and check if
	// the line has been accepted (entered), in which case this has
	// automatically written the history sources and set up the
	// errors/line value to return.
	rl.histories.SaveWithCommand(bind)

	return rl.histories.LineAccepted()
}

func (rl *Editor) execute(command func()) {
	wasPending := rl.keymaps.IsPending()

	command()

	// If an operator (c/d/y/u/U) was already pending before this
	// command ran and still is after, the command was the motion that
	// was supposed to satisfy it (e.g. the "w" of "dw"): complete it.
	// Doubled keys ("dd") and visual-mode selections clear IsPending
	// themselves inline and never reach this.
	if wasPending && rl.keymaps.IsPending() {
		rl.completeViOperator()
	}

	// Only run pending-operator commands when the command we just
	// executed has not had any influence on iterations.
	if !rl.iterations.IsPending() {
		rl.keymaps.RunPending()
	}

	switch rl.keymaps.Main() {
	case keymap.ViCommand, keymap.ViMove, keymap.Vi:
		rl.cursor.CheckCommand()
	default:
		rl.cursor.CheckAppend()
	}
}

func (rl *Editor) updatePosRunHints() {
	hint := rl.iterations.PostRunHint()
	rl.iterations.Reset()

	register, selected := rl.buffers.IsSelected()

	if hint == "" && !selected && !rl.macros.Recording() {
		rl.hint.ResetPersist()
		return
	}

	if hint != "" {
		rl.hint.Persist(hint)
	} else if selected {
		rl.hint.Persist(color.Dim + fmt.Sprintf("(register: %s)", string(register)))
	}
}

// handleUndefined is in charge of all actions to take when the last
// key/sequence was not dispatched down to a command.
func (rl *Editor) handleUndefined(bind inputrc.Bind, cmd func()) {
	if bind.Action != "" || cmd != nil {
		return
	}

	// Undefined keys in incremental-search mode cancel it.
	if rl.keymaps.Local() == keymap.Isearch {
		rl.hint.Reset()
		rl.completer.Reset()
		return
	}

	rl.selfInsertUndefined()
}

// selfInsertUndefined inserts a printable rune that reached here
// unmatched because keymap.Table's fixed 2048-slot dispatch trie only
// has self-insert seeded across the printable ASCII range (0x20-0x7e);
// any higher code point (accented letters, CJK, emoji) falls through
// to an undefined binding instead. Rather than drop typed text
// silently, insert it directly whenever the main keymap is one that
// accepts text (emacs, vi insert) the same way self-insert would.
func (rl *Editor) selfInsertUndefined() {
	switch rl.keymaps.Main() {
	case keymap.Emacs, keymap.ViIns:
	default:
		return
	}

	keys := rl.keys.Matched()
	if len(keys) != 1 || keys[0] < 0x80 || !unicode.IsPrint(keys[0]) {
		return
	}

	rl.selfInsert()
}
