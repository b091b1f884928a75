package keymap

import (
	"github.com/halcyon-cli/edit/internal/core"
	"github.com/halcyon-cli/edit/inputrc"
)

// maxSequence bounds how many keys a single dispatch attempt will read
// while following a chain of prefix nodes, guarding against a runaway
// read if a corrupt table ever formed a cycle.
const maxSequence = 32

// Keymap is the editor's live dispatch state: which main keymap is
// selected (emacs or one of the vi modes), which local keymap (if any)
// currently takes priority, the tables backing each named mode, and the
// vi operator-pending state a motion command completes or cancels.
type Keymap struct {
	main  Mode
	local Mode

	tables map[Mode]*Table
	keys   *core.Keys

	hasPending bool
	pendingOp  string
	active     inputrc.Bind
}

// SetActive records the binding the main loop just dispatched, so
// widgets that adjust their behavior based on what ran immediately
// before them (adjustSelectionPending and similar) can inspect it via
// ActiveCommand.
func (km *Keymap) SetActive(b inputrc.Bind) {
	km.active = b
}

// New returns a keymap with an empty table for every named mode,
// reading keys from keys.
func New(keys *core.Keys) *Keymap {
	km := &Keymap{
		tables: make(map[Mode]*Table),
		keys:   keys,
		main:   Emacs,
	}

	for _, m := range []Mode{Emacs, EmacsMeta, EmacsCtrlX, ViIns, ViCmd, ViMove, Visual, Isearch, MenuSelect} {
		km.tables[m] = NewTable()
	}

	return km
}

// Table returns the dispatch table for the named mode, creating one if
// it does not yet exist.
func (km *Keymap) Table(mode Mode) *Table {
	t, ok := km.tables[mode]
	if !ok {
		t = NewTable()
		km.tables[mode] = t
	}

	return t
}

// Main returns the currently selected main keymap.
func (km *Keymap) Main() Mode {
	return km.main
}

// SetMain switches the main keymap (e.g. entering/leaving vi insert
// mode). The local keymap is left as it is.
func (km *Keymap) SetMain(mode Mode) {
	km.main = mode
}

// Local returns the currently active local keymap, or None.
func (km *Keymap) Local() Mode {
	return km.local
}

// SetLocal pushes a local keymap (isearch, menu-select, vi-move,
// visual) that takes dispatch priority over the main one.
func (km *Keymap) SetLocal(mode Mode) {
	km.local = mode
}

// ClearLocal drops the active local keymap, returning dispatch to the
// main keymap alone.
func (km *Keymap) ClearLocal() {
	km.local = None
}

// MatchLocal attempts to resolve the next key sequence against the
// active local keymap. If no local keymap is active it reports no
// match and no prefix, leaving the keys untouched for MatchMain.
func MatchLocal(km *Keymap) (inputrc.Bind, func(), bool) {
	if km.local == None {
		return inputrc.Bind{}, nil, false
	}

	return match(km.keys, km.Table(km.local))
}

// MatchMain attempts to resolve the next key sequence against the
// active main keymap.
func MatchMain(km *Keymap) (inputrc.Bind, func(), bool) {
	return match(km.keys, km.Table(km.main))
}

// match builds up a candidate key sequence one peeked key at a time
// (without consuming any of them), tracking the longest complete
// binding seen so far. It commits exactly the keys belonging to that
// binding via MarkUsed, or, if no binding was ever found, commits a
// single key so the caller can report it as undefined and move on.
func match(keys *core.Keys, t *Table) (inputrc.Bind, func(), bool) {
	var buf []rune

	best := Result{}

	for len(buf) < maxSequence {
		r, ok := keys.PeekAt(len(buf))
		if !ok {
			break
		}

		buf = append(buf, r)

		res := t.lookup(buf)
		if res.Action != nil {
			best = res
		}

		if res.Prefixed {
			continue
		}

		break
	}

	if best.Action != nil {
		keys.MarkUsed(best.Matched)

		return best.Bind, best.Action, false
	}

	if len(buf) > 0 {
		keys.MarkUsed(1)
	}

	return inputrc.Bind{}, nil, false
}
