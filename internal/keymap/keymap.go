package keymap

import "github.com/halcyon-cli/edit/inputrc"

// slots is the fixed capacity of a keymap's dispatch table. 2048 is
// generously larger than any real key-sequence set a keymap accumulates
// (a few hundred entries at most across all of Emacs's or vi's default
// bindings plus user overrides), and keeps each node a flat, cheap-to-
// copy array rather than a map that needs nil-checking everywhere.
const slots = 2048

// entryKind distinguishes a terminal binding from an internal node that
// merely prefixes one or more longer bound sequences.
type entryKind int

const (
	empty entryKind = iota
	action
	prefix
)

type entry struct {
	kind   entryKind
	bind   inputrc.Bind
	action func()
	table  *Table // non-nil once a longer sequence has been bound through this key
}

// Table is a single named keymap's key-sequence dispatch trie: looking
// up a sequence walks one rune at a time, following prefix entries
// until it lands on an action or runs out of bound matches.
type Table struct {
	entries [slots]entry
	count   int
}

// NewTable returns an empty dispatch table.
func NewTable() *Table {
	return &Table{}
}

func slot(r rune) int {
	v := int(r) % slots
	if v < 0 {
		v += slots
	}

	return v
}

// Bind registers bind/action for seq. If seq is a strict prefix of an
// already-bound, longer sequence, or vice versa, both stay reachable:
// after the shorter one the dispatcher reads one more key, firing the
// longer binding if that key extends the sequence and the shorter one
// otherwise. That lookahead read has no timeout, so the shorter binding
// only fires once a further key arrives.
func (t *Table) Bind(seq string, bind inputrc.Bind, action func()) {
	if seq == "" {
		return
	}

	t.bindAt([]rune(seq), bind, action)
}

func (t *Table) bindAt(seq []rune, bind inputrc.Bind, action func()) {
	e := &t.entries[slot(seq[0])]

	if len(seq) == 1 {
		if e.kind == empty {
			t.count++
		}

		e.bind = bind
		e.action = action

		if e.kind != prefix {
			e.kind = action
		}

		return
	}

	if e.kind == empty {
		t.count++
	}

	if e.table == nil {
		e.table = NewTable()
	}

	if e.kind != action {
		e.kind = prefix
	}

	e.table.bindAt(seq[1:], bind, action)
}

// Unbind removes the binding for seq, if any. Prefix nodes created
// along the way to reach it are left in place; pruning them is not
// worth the complexity at this scale.
func (t *Table) Unbind(seq string) {
	if seq == "" {
		return
	}

	t.unbindAt([]rune(seq))
}

func (t *Table) unbindAt(seq []rune) {
	e := &t.entries[slot(seq[0])]
	if e.kind == empty {
		return
	}

	if len(seq) == 1 {
		e.bind = inputrc.Bind{}
		e.action = nil

		if e.table == nil {
			e.kind = empty
			t.count--
		} else {
			e.kind = prefix
		}

		return
	}

	if e.table == nil {
		return
	}

	e.table.unbindAt(seq[1:])
}

// BindIfNotBound is Bind's non-clobbering counterpart, used when
// loading default keymaps after user overrides so user bindings win.
func (t *Table) BindIfNotBound(seq string, bind inputrc.Bind, action func()) {
	if t.isBound([]rune(seq)) {
		return
	}

	t.Bind(seq, bind, action)
}

func (t *Table) isBound(seq []rune) bool {
	e := &t.entries[slot(seq[0])]

	switch {
	case e.kind == empty:
		return false
	case len(seq) == 1:
		return e.action != nil
	case e.table != nil:
		return e.table.isBound(seq[1:])
	default:
		return false
	}
}

// Result is the outcome of matching a key stream against a table.
type Result struct {
	Bind     inputrc.Bind
	Action   func()
	Matched  int  // number of keys consumed to reach Bind/Action
	Prefixed bool // true if more keys could extend the current match
}

// lookup walks keys against the table, returning the longest bound
// sequence found. If the walk ends on a node that prefixes a longer,
// still-possible sequence, Prefixed is true and the caller should wait
// for (or read) one more key before giving up and using Action.
func (t *Table) lookup(keys []rune) Result {
	cur := t
	best := Result{}

	for i, r := range keys {
		e := &cur.entries[slot(r)]

		if e.kind == empty {
			return best
		}

		if e.action != nil {
			best = Result{Bind: e.bind, Action: e.action, Matched: i + 1}
		}

		if e.table == nil {
			return best
		}

		cur = e.table
	}

	// Ran out of input keys while still sitting on a node that could
	// extend further: the caller should hold off and wait for more.
	best.Prefixed = true

	return best
}

// Count returns how many distinct sequences are bound across the table.
func (t *Table) Count() int {
	return len(t.Entries())
}

// Entries returns every bound sequence in the table together with its
// Bind, for callers that need to enumerate a keymap wholesale (the
// inputrc exporter, introspection/debugging).
func (t *Table) Entries() map[string]inputrc.Bind {
	out := make(map[string]inputrc.Bind, t.count)
	t.collect(nil, out)

	return out
}

func (t *Table) collect(prefix []rune, out map[string]inputrc.Bind) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.kind == empty {
			continue
		}

		seq := append(append([]rune{}, prefix...), rune(i))

		if e.action != nil {
			out[string(seq)] = e.bind
		}

		if e.table != nil {
			e.table.collect(seq, out)
		}
	}
}
