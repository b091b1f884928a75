package keymap

import (
	"testing"

	"github.com/halcyon-cli/edit/inputrc"
)

// TestPrefixPromotion checks that binding a longer sequence through an
// already-bound shorter one promotes the shorter entry to double as
// both an action and a prefix: the shorter sequence still fires on its
// own if no more matching keys arrive, and the longer one fires if
// they do. This is the mechanism arrow-key sequences like "\x1b[A"
// share with a lone Escape binding.
func TestPrefixPromotion(t *testing.T) {
	table := NewTable()

	var escFired, upFired bool

	table.Bind("\x1b", inputrc.Bind{Action: "vi-command-mode"}, func() { escFired = true })
	table.Bind("\x1b[A", inputrc.Bind{Action: "previous-history"}, func() { upFired = true })

	if !table.isBound([]rune("\x1b")) {
		t.Fatalf("bare escape no longer reports bound after a longer sequence shares its prefix")
	}

	result := table.lookup([]rune("\x1b"))
	if result.Action == nil || !result.Prefixed {
		t.Fatalf("lookup(ESC) = %+v, want a bound action with Prefixed=true (more keys could extend it)", result)
	}

	result.Action()
	if !escFired {
		t.Fatalf("escape action did not fire")
	}

	result = table.lookup([]rune("\x1b[A"))
	if result.Action == nil || result.Matched != 3 {
		t.Fatalf("lookup(ESC [ A) = %+v, want action matched over 3 keys", result)
	}

	result.Action()
	if !upFired {
		t.Fatalf("up-arrow action did not fire")
	}
}

func TestLookupStopsAtUnboundKey(t *testing.T) {
	table := NewTable()
	table.Bind("ab", inputrc.Bind{Action: "self-insert"}, func() {})

	result := table.lookup([]rune("ax"))
	if result.Action != nil {
		t.Fatalf("lookup(ax) matched an action, want none since only 'ab' is bound")
	}
}

func TestUnbindLeavesPrefixReachable(t *testing.T) {
	table := NewTable()
	table.Bind("\x1b", inputrc.Bind{Action: "vi-command-mode"}, func() {})
	table.Bind("\x1b[A", inputrc.Bind{Action: "previous-history"}, func() {})

	table.Unbind("\x1b")

	if table.isBound([]rune("\x1b")) {
		t.Fatalf("bare escape still reports bound after Unbind")
	}

	if !table.isBound([]rune("\x1b[A")) {
		t.Fatalf("longer sequence should remain bound after unbinding its prefix")
	}
}

func TestBindIfNotBoundDoesNotClobber(t *testing.T) {
	table := NewTable()

	var userFired, defaultFired bool
	table.Bind("a", inputrc.Bind{Action: "user-defined"}, func() { userFired = true })
	table.BindIfNotBound("a", inputrc.Bind{Action: "default"}, func() { defaultFired = true })

	result := table.lookup([]rune("a"))
	result.Action()

	if !userFired || defaultFired {
		t.Fatalf("BindIfNotBound clobbered an existing user binding")
	}
}

func TestCountTracksDistinctSequences(t *testing.T) {
	table := NewTable()
	if table.Count() != 0 {
		t.Fatalf("Count() = %d on empty table, want 0", table.Count())
	}

	table.Bind("a", inputrc.Bind{}, func() {})
	table.Bind("ab", inputrc.Bind{}, func() {})
	table.Bind("c", inputrc.Bind{}, func() {})

	if table.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", table.Count())
	}
}
