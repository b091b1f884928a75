// Package term is the default terminal collaborator: raw-mode
// acquisition, cursor motion escape sequences, terminal width queries
// and window-resize notification, plus a Reader adapting the raw byte
// stream into the code points core.Keys consumes.
package term

import "golang.org/x/crypto/ssh/terminal"

// State is an opaque terminal mode snapshot, returned by MakeRaw and
// consumed by Restore.
type State = terminal.State

// MakeRaw switches fd into raw mode (no echo, no line buffering,
// signals and control characters passed through uninterpreted) and
// returns the previous mode so it can be restored.
func MakeRaw(fd int) (*State, error) {
	return terminal.MakeRaw(fd)
}

// Restore reinstates a terminal mode previously returned by MakeRaw.
func Restore(fd int, state *State) error {
	return terminal.Restore(fd, state)
}

// IsTerminal reports whether fd refers to an interactive terminal.
func IsTerminal(fd int) bool {
	return terminal.IsTerminal(fd)
}
