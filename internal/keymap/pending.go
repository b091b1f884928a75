package keymap

import (
	"fmt"

	"github.com/halcyon-cli/edit/inputrc"
)

// Pending arms the vi-move local keymap, marking that the widget which
// just ran (identified by op, e.g. "c", "d", "y", "u") is waiting on a
// motion to complete it. Calling it a second time while already pending
// is how a doubled widget ("dd", "yy", "uu") is told apart from a first
// invocation: the widget itself checks IsPending before calling Pending
// again.
func (km *Keymap) Pending(op string) {
	km.hasPending = true
	km.pendingOp = op
	km.SetLocal(ViMove)
}

// IsPending reports whether a widget is currently waiting on a motion
// to complete it.
func (km *Keymap) IsPending() bool {
	return km.hasPending
}

// PendingOp returns the operator letter passed to the Pending call that
// armed the current wait ("c", "d", "y", "u" or "U"), or "" if nothing
// is pending.
func (km *Keymap) PendingOp() string {
	return km.pendingOp
}

// CancelPending discards the pending state without running anything
// (the motion was itself Escape, or otherwise invalid).
func (km *Keymap) CancelPending() {
	km.hasPending = false
	km.pendingOp = ""

	if km.local == ViMove {
		km.ClearLocal()
	}
}

// ActiveCommand returns the binding of the command that was last
// dispatched (its Action is the widget name, e.g. "vi-end-word"), set
// by SetActive at the end of every successful match. Widgets use it to
// tell which motion just ran them when adjusting a pending selection.
func (km *Keymap) ActiveCommand() inputrc.Bind {
	return km.active
}

// PendingCursor signals that the next read is a single-character
// argument (vi's 'r', 'f', 'R' overwrite mode) rather than a bound
// command, switching the terminal cursor to the shape used for that,
// and returns a closure that restores the normal shape once the
// argument has been read.
func (km *Keymap) PendingCursor() func() {
	fmt.Print("\x1b[4 q")

	return func() {
		km.PrintCursor(km.main)
	}
}

// PrintCursor sets the terminal cursor shape appropriate for mode
// (a block in command/visual modes, a bar in insert mode).
func (km *Keymap) PrintCursor(mode Mode) {
	switch mode {
	case ViCmd, Visual, ViMove:
		fmt.Print("\x1b[2 q")
	default:
		fmt.Print("\x1b[6 q")
	}
}

// RunPending is the main loop's unconditional post-command hook. The
// doubled-key ("dd") and visual-mode forms of vi's operators clear
// their own pending state inline; completing an operator against a
// freestanding motion ("dw") is instead handled by the editor's
// completeViOperator, called from execute() once IsPending survives the
// motion that was supposed to satisfy it. Nothing needs to happen here,
// but the loop calls it regardless of which keymap is active so it does
// not need to know which commands are operator widgets.
func (km *Keymap) RunPending() {
}
