package edit

import (
	"github.com/halcyon-cli/edit/inputrc"
	"github.com/halcyon-cli/edit/internal/keymap"
)

// ctrl returns the control-character rune for an ASCII letter (ctrl('a')
// == 0x01, matching readline's C-<letter> notation).
func ctrl(r rune) string {
	return string(rune(r &^ 0x60))
}

// meta returns the two-key Escape-prefixed sequence readline uses to
// express M-<char> on terminals that don't send a true Meta bit.
func meta(r rune) string {
	return "\x1b" + string(r)
}

// bindAll registers every (sequence -> action name) pair in table into
// km, pulling the action function for each name out of cmds and
// skipping names cmds does not define (lets a single binding table be
// shared across keymaps that only implement part of the action set).
func bindAll(table *keymap.Table, seqs map[string]string, cmds commands) {
	for seq, name := range seqs {
		action, ok := cmds[name]
		if !ok {
			continue
		}

		table.BindIfNotBound(seq, inputrc.Bind{Action: name}, action)
	}
}

// navSeqs returns the ANSI CSI/SS3 escape sequences a terminal sends
// for the arrow keys, Home/End and Delete, each pointing at the named
// action appropriate to the keymap calling it (emacs and vi insert
// mode want plain motion/history actions; vi command/move/visual want
// their vi- prefixed equivalents). Both the CSI ("\x1b[A") and the
// application-mode SS3 ("\x1bOA") forms are bound, since terminals
// disagree on which one they send for the arrow keys depending on
// cursor-key mode.
func navSeqs(up, down, left, right, home, end, del string) map[string]string {
	return map[string]string{
		"\x1b[A": up, "\x1bOA": up,
		"\x1b[B": down, "\x1bOB": down,
		"\x1b[C": right, "\x1bOC": right,
		"\x1b[D": left, "\x1bOD": left,
		"\x1b[H": home, "\x1bOH": home, "\x1b[1~": home,
		"\x1b[F": end, "\x1bOF": end, "\x1b[4~": end,
		"\x1b[3~": del,
	}
}

// bindRange binds every rune in [lo,hi] individually to the named
// action, used to seed self-insert across the printable ASCII range (no
// table in this package supports a wildcard/default entry).
func bindRange(table *keymap.Table, lo, hi rune, name string, cmds commands) {
	action, ok := cmds[name]
	if !ok {
		return
	}

	for r := lo; r <= hi; r++ {
		table.BindIfNotBound(string(r), inputrc.Bind{Action: name}, action)
	}
}

// BindDefaults installs the standard emacs and vi keybindings (the
// readline/bash defaults) across every keymap mode, backing off to
// whatever a caller has already bound via rl.Config() and a loaded
// inputrc file: every binding here goes through BindIfNotBound, so user
// overrides loaded before this call always win.
func BindDefaults(rl *Editor) {
	em := rl.emacsCommands()
	vi := rl.viCommands()
	hist := rl.historyCommands()

	all := make(commands, len(em)+len(vi)+len(hist))
	for name, fn := range em {
		all[name] = fn
	}

	for name, fn := range vi {
		all[name] = fn
	}

	for name, fn := range hist {
		all[name] = fn
	}

	rl.commands = all

	bindEmacs(rl, all, em, hist)
	bindViInsert(rl, all, em, hist)
	bindViCommand(rl, all, vi, hist)
	bindViMove(rl, all, vi)
	bindVisual(rl, all, vi)
	bindMenuSelect(rl)
	bindIsearch(rl, em)

	if rl.config.GetString("editing-mode") == "vi" {
		rl.keymaps.SetMain(keymap.ViCmd)
	} else {
		rl.keymaps.SetMain(keymap.Emacs)
	}
}

// bindEmacs wires the default emacs keymap: C-<letter> motion/editing,
// M-<letter> word-level variants, and the emacs-ctrl-x/emacs-meta
// sub-keymaps C-x and Escape lead into.
func bindEmacs(rl *Editor, all, em, hist commands) {
	table := rl.keymaps.Table(keymap.Emacs)

	bindRange(table, 0x20, 0x7e, "self-insert", all)
	table.BindIfNotBound("\x7f", inputrc.Bind{Action: "backward-delete-char"}, all["backward-delete-char"])

	seqs := map[string]string{
		ctrl('a'): "beginning-of-line",
		ctrl('b'): "backward-char",
		ctrl('e'): "end-of-line",
		ctrl('f'): "forward-char",
		ctrl('h'): "backward-delete-char",
		ctrl('i'): "complete-word", // Tab
		ctrl('j'): "accept-line",   // LF
		ctrl('k'): "kill-line",
		ctrl('l'): "clear-screen",
		ctrl('m'): "accept-line", // CR
		ctrl('n'): "next-history",
		ctrl('p'): "previous-history",
		ctrl('q'): "quoted-insert",
		ctrl('r'): "reverse-search-history",
		ctrl('s'): "forward-search-history",
		ctrl('t'): "transpose-chars",
		ctrl('u'): "unix-line-discard",
		ctrl('v'): "quoted-insert",
		ctrl('w'): "unix-word-rubout",
		ctrl('y'): "yank",
		ctrl('c'): "keyboard-interrupt",
		ctrl('_'): "undo",
	}

	bindAll(table, seqs, all)
	bindAll(table, navSeqs(
		"previous-history", "next-history", "backward-char", "forward-char",
		"beginning-of-line", "end-of-line", "delete-char",
	), all)

	// C-d deletes forward while the line holds text, and signals
	// end-of-file on an empty one; it is deliberately not a plain
	// delete-char binding.
	table.BindIfNotBound(ctrl('d'), inputrc.Bind{Action: "end-of-file"}, all["end-of-file"])

	bindEmacsMeta(rl, all)
	bindEmacsCtrlX(rl, all)

	table.BindIfNotBound("\x1b", inputrc.Bind{Action: "emacs-meta"}, func() {
		rl.keymaps.SetLocal(keymap.EmacsMeta)
	})
	table.BindIfNotBound(ctrl('x'), inputrc.Bind{Action: "emacs-ctrl-x"}, func() {
		rl.keymaps.SetLocal(keymap.EmacsCtrlX)
	})
}

// bindEmacsMeta wires the local keymap entered by a lone Escape: the
// next key completes an M-<key> binding, after which local dispatch
// reverts to the main keymap automatically (each action below clears
// the local keymap itself via the returned done()-less one-shot wrap).
func bindEmacsMeta(rl *Editor, all commands) {
	table := rl.keymaps.Table(keymap.EmacsMeta)

	seqs := map[string]string{
		"b": "backward-word",
		"f": "forward-word",
		"d": "kill-word",
		"t": "transpose-words",
		"u": "upcase-word",
		"l": "downcase-word",
		"c": "capitalize-word",
		"y": "yank-pop",
		"w": "copy-region-as-kill",
		".": "yank-last-arg",
		"_": "yank-last-arg",
		"<": "beginning-of-history",
		">": "end-of-history",
		"n": "non-incremental-forward-search-history",
		"p": "non-incremental-reverse-search-history",
	}

	oneShot := make(map[string]string, len(seqs))
	for seq, name := range seqs {
		oneShot[seq] = name
	}

	for seq, name := range oneShot {
		action, ok := all[name]
		if !ok {
			continue
		}

		bound := action

		table.BindIfNotBound(seq, inputrc.Bind{Action: name}, func() {
			bound()
			rl.keymaps.ClearLocal()
		})
	}

	for r := rune('0'); r <= '9'; r++ {
		table.BindIfNotBound(string(r), inputrc.Bind{Action: "digit-argument"}, func() {
			rl.digitArgument()
			rl.keymaps.ClearLocal()
		})
	}

	table.BindIfNotBound(ctrl('h'), inputrc.Bind{Action: "backward-kill-word"}, func() {
		rl.backwardKillWord()
		rl.keymaps.ClearLocal()
	})
	table.BindIfNotBound("\x7f", inputrc.Bind{Action: "backward-kill-word"}, func() {
		rl.backwardKillWord()
		rl.keymaps.ClearLocal()
	})
}

// bindEmacsCtrlX wires the local keymap entered by C-x: emacs's
// handful of C-x two-key commands.
func bindEmacsCtrlX(rl *Editor, all commands) {
	table := rl.keymaps.Table(keymap.EmacsCtrlX)

	seqs := map[string]string{
		ctrl('x'): "exchange-point-and-mark",
		ctrl('u'): "undo",
		ctrl('e'): "edit-and-execute-command",
	}

	for seq, name := range seqs {
		action, ok := all[name]
		if !ok {
			continue
		}

		bound := action

		table.BindIfNotBound(seq, inputrc.Bind{Action: name}, func() {
			bound()
			rl.keymaps.ClearLocal()
		})
	}
}

// bindViInsert wires vi insert mode: plain self-insert/editing plus
// Escape to drop into vi command mode.
func bindViInsert(rl *Editor, all, em, hist commands) {
	table := rl.keymaps.Table(keymap.ViIns)

	bindRange(table, 0x20, 0x7e, "self-insert", all)

	seqs := map[string]string{
		ctrl('a'): "beginning-of-line",
		ctrl('e'): "end-of-line",
		ctrl('d'): "vi-eof-maybe",
		ctrl('h'): "backward-delete-char",
		"\x7f":    "backward-delete-char",
		ctrl('i'): "complete-word",
		ctrl('j'): "accept-line",
		ctrl('m'): "accept-line",
		ctrl('k'): "kill-line",
		ctrl('l'): "clear-screen",
		ctrl('n'): "menu-complete",
		ctrl('p'): "reverse-menu-complete",
		ctrl('r'): "reverse-search-history",
		ctrl('t'): "transpose-chars",
		ctrl('u'): "unix-line-discard",
		ctrl('v'): "quoted-insert",
		ctrl('w'): "unix-word-rubout",
		ctrl('y'): "yank",
		ctrl('c'): "keyboard-interrupt",
		"\x1b":    "vi-movement-mode",
	}

	bindAll(table, seqs, all)
	bindAll(table, navSeqs(
		"previous-history", "next-history", "backward-char", "forward-char",
		"beginning-of-line", "end-of-line", "delete-char",
	), all)
}

// viCommandSeqs returns the hjkl-motion/operator/direct-action key table
// shared by vi command mode and vi visual mode: a visual selection is
// just the command-mode cursor riding alongside a mark, so the same
// motions extend it and the same operators (d/c/y/x/~/u/U) act on it
// whenever the widgets find `rl.selection.Active()` true.
func viCommandSeqs() map[string]string {
	return map[string]string{
		"h":      "vi-backward-char",
		"\x7f":   "vi-backward-char",
		"l":      "vi-forward-char",
		" ":      "vi-forward-char",
		"j":      "next-history",
		"k":      "previous-history",
		"w":      "vi-forward-word",
		"W":      "vi-forward-bigword",
		"b":      "vi-backward-word",
		"B":      "vi-backward-bigword",
		"e":      "vi-end-word",
		"E":      "vi-end-bigword",
		"0":      "beginning-of-line",
		"^":      "vi-first-print",
		"$":      "vi-end-of-line",
		"%":      "vi-match",
		"i":      "vi-insertion-mode",
		"I":      "vi-insert-beg",
		"a":      "vi-append-mode",
		"A":      "vi-append-eol",
		"o":      "vi-open-line-below",
		"O":      "vi-open-line-above",
		"v":      "vi-visual-mode",
		"V":      "vi-visual-line-mode",
		"x":      "vi-delete",
		"X":      "backward-delete-char",
		"r":      "vi-replace",
		"R":      "vi-overstrike",
		"~":      "vi-change-case",
		"s":      "vi-subst",
		"S":      "vi-change-eol",
		"C":      "vi-change-eol",
		"D":      "vi-kill-eol",
		"c":      "vi-change-to",
		"d":      "vi-delete-to",
		"y":      "vi-yank-to",
		"Y":      "vi-yank-whole-line",
		"p":      "vi-put-after",
		"P":      "vi-put-before",
		"\"":     "vi-set-buffer",
		"u":      "vi-undo",
		ctrl('r'): "vi-redo",
		"f":      "vi-find-next-char",
		"F":      "vi-find-prev-char",
		"t":      "vi-find-next-char-skip",
		"T":      "vi-find-prev-char-skip",
		";":      "vi-search-again-forward",
		",":      "vi-search-again-backward",
		"/":      "vi-search-forward",
		"?":      "vi-search-backward",
		"n":      "vi-search-again",
		"m":      "vi-set-mark",
		"`":      "vi-goto-mark",
		"'":      "vi-goto-mark",
		ctrl('d'): "vi-eof-maybe",
		ctrl('l'): "clear-screen",
		ctrl('c'): "keyboard-interrupt",
		"\x1b": "vi-movement-mode",
	}
}

// bindViCommand wires vi command (normal) mode: hjkl-style motion,
// operator-pending verbs and the handful of direct action keys.
func bindViCommand(rl *Editor, all, vi, hist commands) {
	table := rl.keymaps.Table(keymap.ViCmd)
	seqs := viCommandSeqs()
	seqs[ctrl('j')] = "accept-line"
	seqs[ctrl('m')] = "accept-line"

	table.BindIfNotBound("v"+ctrl('e'), inputrc.Bind{Action: "vi-edit-and-execute-command"}, vi["vi-edit-and-execute-command"])
	table.BindIfNotBound(ctrl('x')+ctrl('e'), inputrc.Bind{Action: "vi-edit-command-line"}, vi["vi-edit-command-line"])

	for r := rune('1'); r <= '9'; r++ {
		table.BindIfNotBound(string(r), inputrc.Bind{Action: "vi-arg-digit"}, vi["vi-arg-digit"])
	}

	bindAll(table, seqs, all)
	bindAll(table, navSeqs(
		"previous-history", "next-history", "vi-backward-char", "vi-forward-char",
		"beginning-of-line", "vi-end-of-line", "vi-delete",
	), all)
}

// bindVisual wires vi visual/visual-line mode: the same motions and
// operators as command mode (the selection rides the cursor against
// the mark set on entry), except v/V themselves leave visual mode
// instead of toggling character/line-wise selection, a simplification
// noted in DESIGN.md.
func bindVisual(rl *Editor, all, vi commands) {
	table := rl.keymaps.Table(keymap.Visual)
	seqs := viCommandSeqs()

	seqs["v"] = "vi-movement-mode"
	seqs["V"] = "vi-movement-mode"
	delete(seqs, "i")
	delete(seqs, "I")
	delete(seqs, "a")
	delete(seqs, "A")
	delete(seqs, "o")
	delete(seqs, "O")

	for r := rune('1'); r <= '9'; r++ {
		table.BindIfNotBound(string(r), inputrc.Bind{Action: "vi-arg-digit"}, vi["vi-arg-digit"])
	}

	bindAll(table, seqs, all)
	bindAll(table, navSeqs(
		"previous-history", "next-history", "vi-backward-char", "vi-forward-char",
		"beginning-of-line", "vi-end-of-line", "vi-delete",
	), all)
}

// bindViMove wires the vi-move local keymap: the same motion keys as
// vi command mode, entered while an operator (d/c/y) is pending so the
// following motion both moves and completes the operator.
func bindViMove(rl *Editor, all, vi commands) {
	table := rl.keymaps.Table(keymap.ViMove)

	seqs := map[string]string{
		"h":    "vi-backward-char",
		"l":    "vi-forward-char",
		"j":    "next-history",
		"k":    "previous-history",
		"w":    "vi-forward-word",
		"W":    "vi-forward-bigword",
		"b":    "vi-backward-word",
		"B":    "vi-backward-bigword",
		"e":    "vi-end-word",
		"E":    "vi-end-bigword",
		"0":    "beginning-of-line",
		"^":    "vi-first-print",
		"$":    "vi-end-of-line",
		"%":    "vi-match",
		"f":    "vi-find-next-char",
		"F":    "vi-find-prev-char",
		"t":    "vi-find-next-char-skip",
		"T":    "vi-find-prev-char-skip",
		"`":    "vi-goto-mark",
		"'":    "vi-goto-mark",
		"\x1b": "vi-movement-mode",
	}

	for r := rune('1'); r <= '9'; r++ {
		table.BindIfNotBound(string(r), inputrc.Bind{Action: "vi-arg-digit"}, vi["vi-arg-digit"])
	}

	bindAll(table, seqs, all)
	bindAll(table, navSeqs(
		"previous-history", "next-history", "vi-backward-char", "vi-forward-char",
		"beginning-of-line", "vi-end-of-line", "",
	), all)
}

// bindMenuSelect wires the interactive completion-menu local keymap:
// Tab/arrows move the selection, Enter accepts it, anything else
// cancels the menu and falls through to the main keymap.
func bindMenuSelect(rl *Editor) {
	table := rl.keymaps.Table(keymap.MenuSelect)

	accept := func() {
		rl.completer.Accept()
		rl.keymaps.ClearLocal()
	}

	next := func() { rl.completer.Select(1) }
	prev := func() { rl.completer.Select(-1) }

	cancel := func() {
		rl.completer.Reset()
		rl.keymaps.ClearLocal()
	}

	table.BindIfNotBound(ctrl('i'), inputrc.Bind{Action: "menu-complete"}, next)
	table.BindIfNotBound("\x1b[Z", inputrc.Bind{Action: "reverse-menu-complete"}, prev) // Shift-Tab
	table.BindIfNotBound(ctrl('n'), inputrc.Bind{Action: "menu-complete"}, next)
	table.BindIfNotBound(ctrl('p'), inputrc.Bind{Action: "reverse-menu-complete"}, prev)
	table.BindIfNotBound("\x1b[B", inputrc.Bind{Action: "menu-complete"}, next)
	table.BindIfNotBound("\x1b[A", inputrc.Bind{Action: "reverse-menu-complete"}, prev)
	table.BindIfNotBound(ctrl('m'), inputrc.Bind{Action: "accept-line"}, accept)
	table.BindIfNotBound(ctrl('j'), inputrc.Bind{Action: "accept-line"}, accept)
	table.BindIfNotBound(" ", inputrc.Bind{Action: "accept-line"}, accept)
	table.BindIfNotBound("\x1b", inputrc.Bind{Action: "abort"}, cancel)
	table.BindIfNotBound(ctrl('g'), inputrc.Bind{Action: "abort"}, cancel)
}

// bindIsearch wires the incremental-search local keymap: printable
// characters extend the search pattern (rl.line/rl.cursor are swapped
// to the isearch minibuffer for the duration, so the plain self-insert
// and backward-delete-char widgets work unmodified), Enter/Escape
// leave search mode, and C-s/C-r walk to the next/previous match.
func bindIsearch(rl *Editor, em commands) {
	table := rl.keymaps.Table(keymap.Isearch)

	bindRange(table, 0x20, 0x7e, "self-insert", em)

	cancel := func() {
		rl.hint.Reset()
		rl.completer.Reset()
	}

	table.BindIfNotBound(ctrl('h'), inputrc.Bind{Action: "backward-delete-char"}, em["backward-delete-char"])
	table.BindIfNotBound("\x7f", inputrc.Bind{Action: "backward-delete-char"}, em["backward-delete-char"])
	table.BindIfNotBound(ctrl('m'), inputrc.Bind{Action: "accept-line"}, rl.acceptLine)
	table.BindIfNotBound(ctrl('j'), inputrc.Bind{Action: "accept-line"}, rl.acceptLine)
	table.BindIfNotBound(ctrl('g'), inputrc.Bind{Action: "abort"}, cancel)
	table.BindIfNotBound("\x1b", inputrc.Bind{Action: "abort"}, cancel)
	// A repeat press while already searching advances to the next match
	// of the same pattern instead of restarting the search (which would
	// wipe the typed pattern via IsearchStart's fresh minibuffer).
	table.BindIfNotBound(ctrl('s'), inputrc.Bind{Action: "forward-search-history"}, func() {
		rl.completer.Select(-1)
	})
	table.BindIfNotBound(ctrl('r'), inputrc.Bind{Action: "reverse-search-history"}, func() {
		rl.completer.Select(1)
	})
}
