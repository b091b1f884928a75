package core

import "container/ring"

// KillRingMax bounds how many cuts the kill ring retains before the
// oldest entry is discarded, matching the limit kept by the liner
// lineage of this code.
const KillRingMax = 60

// Buffers is the kill ring plus the set of named vi registers ("a-"z,
// "0-"9, the unnamed register). Yanked/deleted text is always pushed
// onto the kill ring; a register write additionally stashes a copy
// under its single-letter name so a later '"ap' can retrieve exactly
// that cut regardless of what has been killed since.
type Buffers struct {
	ring   *ring.Ring
	size   int
	cur    *ring.Ring
	named  map[rune][]rune
	active rune // register selected by a preceding '"x', 0 if none
}

// NewBuffers returns an empty kill ring with no active register.
func NewBuffers() *Buffers {
	return &Buffers{named: make(map[rune][]rune)}
}

// Write pushes text onto the kill ring. If a register was selected
// with SetActive, the text is also stored under that name and the
// selection is cleared (a register selection is consumed by one write,
// matching vi's '"xdd' behavior).
func (b *Buffers) Write(text ...rune) {
	if len(text) == 0 {
		return
	}

	b.push(text)

	if b.active != 0 {
		b.named[b.active] = text
		b.active = 0
	}
}

// Prepend is like Write but, used by backward kills (vi's 'dh' style
// motions or repeated kill commands), accumulates onto the existing
// top-of-ring entry instead of pushing a new one.
func (b *Buffers) Prepend(text ...rune) {
	if len(text) == 0 {
		return
	}

	if b.cur == nil {
		b.push(text)
		return
	}

	merged := append(append([]rune{}, text...), b.cur.Value.([]rune)...)
	b.cur.Value = merged

	if b.active != 0 {
		b.named[b.active] = merged
		b.active = 0
	}
}

// Append accumulates onto the top-of-ring entry from behind, used by
// forward kills immediately following a previous kill (Emacs's
// kill-command coalescing).
func (b *Buffers) Append(text ...rune) {
	if len(text) == 0 {
		return
	}

	if b.cur == nil {
		b.push(text)
		return
	}

	merged := append(append([]rune{}, b.cur.Value.([]rune)...), text...)
	b.cur.Value = merged

	if b.active != 0 {
		b.named[b.active] = merged
		b.active = 0
	}
}

func (b *Buffers) push(text []rune) {
	entry := ring.New(1)
	entry.Value = append([]rune{}, text...)

	if b.ring == nil {
		b.ring = entry
		b.size = 1
	} else {
		// b.ring is the oldest entry: link the new one just before it,
		// i.e. right after the newest, so Prev walks toward older kills.
		b.ring.Prev().Link(entry)
		b.size++

		if b.size > KillRingMax {
			oldest := b.ring
			b.ring = oldest.Next()
			oldest.Prev().Unlink(1)
			b.size--
		}
	}

	b.cur = entry
}

// Active returns the most recently killed/yanked text (the top of the
// ring), the text vi's "p" and "P" paste by default.
func (b *Buffers) Active() []rune {
	if b.cur == nil {
		return nil
	}

	return b.cur.Value.([]rune)
}

// SetActive selects the named register reg for the next Write, and
// if reg already holds text, returns it so paste commands can use it
// immediately without waiting for a write.
func (b *Buffers) SetActive(reg rune) (text []rune, ok bool) {
	b.active = reg
	text, ok = b.named[reg]

	return text, ok
}

// IsSelected reports whether a named register is currently selected
// for the next write, and which one.
func (b *Buffers) IsSelected() (rune, bool) {
	return b.active, b.active != 0
}

// ClearSelection cancels a pending register selection without writing
// to it, used when the command following '"x' turns out not to cut
// anything.
func (b *Buffers) ClearSelection() {
	b.active = 0
}

// Rotate moves the ring cursor back one entry (older) and returns its
// text, implementing Emacs's yank-pop.
func (b *Buffers) Rotate() []rune {
	if b.cur == nil {
		return nil
	}

	b.cur = b.cur.Prev()

	return b.cur.Value.([]rune)
}

// Named returns the text stored in register reg, or nil if empty.
func (b *Buffers) Named(reg rune) []rune {
	return b.named[reg]
}

// Reset clears a pending register selection, leaving the kill ring and
// named registers themselves untouched (called at the top of every
// read loop, matching the teacher's per-line reset of transient state
// without losing yanked content across lines).
func (b *Buffers) Reset() {
	b.active = 0
}
