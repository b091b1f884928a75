// Package keymap implements the dispatch layer between raw key
// sequences and the widgets they trigger: a per-mode trie of bound
// sequences, the editor's current main/local mode pair, and the
// pending-operator state vi's multi-key operators (dw, ciw, ...) need.
package keymap

// Mode names one of the editor's named keymaps. A "main" mode is always
// active (emacs or one of the vi modes); a "local" mode, when set,
// takes dispatch priority over the main one (isearch, menu-select,
// vi visual, vi operator-pending).
type Mode string

const (
	// Emacs is the default (non-vi) main keymap.
	Emacs Mode = "emacs"
	// EmacsMeta holds bindings reachable after a leading Escape/Alt.
	EmacsMeta Mode = "emacs-meta"
	// EmacsCtrlX holds bindings reachable after Ctrl-X.
	EmacsCtrlX Mode = "emacs-ctrlx"

	// ViIns is vi insert mode, a main keymap.
	ViIns Mode = "vi-insert"
	// ViCmd (alias Vi/ViCommand) is vi command/normal mode, a main keymap.
	ViCmd Mode = "vi-command"
	// Vi is an alias of ViCmd kept for callers that match either name.
	Vi Mode = ViCmd
	// ViCommand is an alias of ViCmd.
	ViCommand Mode = ViCmd
	// ViMove is the operator-pending keymap (the "move" half of a
	// pending "d", "c" or "y" command), a local keymap.
	ViMove Mode = "vi-move"
	// Visual is vi visual/visual-line mode, a local keymap.
	Visual Mode = "vi-visual"

	// Isearch is the incremental history/completion search local keymap.
	Isearch Mode = "isearch"
	// MenuSelect is the interactive completion-menu local keymap.
	MenuSelect Mode = "menu-select"

	// None indicates no local keymap is active.
	None Mode = ""
)
