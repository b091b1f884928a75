package core

import (
	"time"
)

// Reader is the minimal terminal input collaborator Keys reads from: a
// non-blocking code-point stream, matching the Console collaborator's
// reader contract (§6 of the design).
type Reader interface {
	// ReadRune blocks until a code point is available, or returns ok=false
	// on EOF.
	ReadRune() (r rune, ok bool)
	// PeekRune waits up to timeout for a code point without consuming it.
	// ok is false on timeout or EOF.
	PeekRune(timeout time.Duration) (r rune, ok bool)
	// CursorPosition asks the terminal to report the cursor's (col,row),
	// or returns -1,-1 if the terminal did not answer within a short timeout.
	CursorPosition() (col, row int)
}

// Keys is the input queue sitting between the terminal Reader and the
// keymap-driven BindingReader: it accumulates code points read from the
// terminal, supports pushing keys back (for longest-match backtracking
// and for macro expansion), and records keystrokes when a macro is
// being captured.
type Keys struct {
	reader    Reader
	pending   []rune // keys read but not yet consumed by a binding match
	used      int    // how many of pending have been consumed this round
	recordBuf *[]rune
}

// NewKeys returns a key queue reading from reader.
func NewKeys(reader Reader) *Keys {
	return &Keys{reader: reader}
}

// SetReader rebinds the underlying terminal reader (used by tests and by
// embedders that swap consoles at runtime).
func (k *Keys) SetReader(reader Reader) {
	k.reader = reader
}

// WaitAvailableKeys blocks until at least one key is pending, reading
// one rune from the terminal if the queue is currently empty.
func (k *Keys) WaitAvailableKeys() {
	if len(k.pending) > k.used {
		return
	}

	if k.reader == nil {
		return
	}

	r, ok := k.reader.ReadRune()
	if !ok {
		return
	}

	k.pending = append(k.pending, r)
}

// FlushUsed drops keys already consumed by a completed binding match,
// keeping only the unconsumed remainder (pushed-back keys, or keys read
// ahead during an ambiguous prefix).
func (k *Keys) FlushUsed() {
	if k.used <= 0 {
		return
	}

	if k.used >= len(k.pending) {
		k.pending = k.pending[:0]
	} else {
		k.pending = append([]rune{}, k.pending[k.used:]...)
	}

	k.used = 0
}

// Feed injects keys directly into the queue, either ahead of (front) or
// after any unconsumed input. Macro playback and the longest-match
// backtracking path in the keymap reader both use this.
func (k *Keys) Feed(front bool, keys ...rune) {
	if len(keys) == 0 {
		return
	}

	if front {
		rest := k.pending[k.used:]
		merged := make([]rune, 0, len(keys)+len(rest))
		merged = append(merged, keys...)
		merged = append(merged, rest...)
		k.pending = append(k.pending[:k.used], merged...)
	} else {
		k.pending = append(k.pending, keys...)
	}
}

// ReadRune consumes and returns the next pending key, reading from the
// terminal if none is queued.
func (k *Keys) ReadRune() (rune, bool) {
	if k.used < len(k.pending) {
		r := k.pending[k.used]
		k.used++
		k.recordRune(r)

		return r, true
	}

	if k.reader == nil {
		return 0, false
	}

	r, ok := k.reader.ReadRune()
	if !ok {
		return 0, false
	}

	k.pending = append(k.pending, r)
	k.used++
	k.recordRune(r)

	return r, true
}

// Peek returns the next key without consuming it, reading from the
// terminal (and queuing the result) if none is pending.
func (k *Keys) Peek() (rune, bool) {
	if k.used < len(k.pending) {
		return k.pending[k.used], true
	}

	if k.reader == nil {
		return 0, false
	}

	r, ok := k.reader.ReadRune()
	if !ok {
		return 0, false
	}

	k.pending = append(k.pending, r)

	return r, true
}

// PeekTimeout waits up to timeout for a key without consuming it, used
// by the Escape-ambiguity and paste-burst detection logic.
func (k *Keys) PeekTimeout(timeout time.Duration) (rune, bool) {
	if k.used < len(k.pending) {
		return k.pending[k.used], true
	}

	if k.reader == nil {
		return 0, false
	}

	r, ok := k.reader.PeekRune(timeout)
	if !ok {
		return 0, false
	}

	k.pending = append(k.pending, r)

	return r, true
}

// PeekAt returns the i-th not-yet-marked-used pending key (0 being the
// next one ReadRune would return), reading from the terminal as needed
// to reach it without marking anything used. Used by the keymap
// dispatcher to build up a candidate sequence while it is still
// ambiguous, without committing to having consumed it.
func (k *Keys) PeekAt(i int) (rune, bool) {
	for len(k.pending)-k.used <= i {
		if k.reader == nil {
			return 0, false
		}

		r, ok := k.reader.ReadRune()
		if !ok {
			return 0, false
		}

		k.pending = append(k.pending, r)
	}

	return k.pending[k.used+i], true
}

// MarkUsed advances the used-key cursor by n, committing the next n
// peeked-but-not-yet-consumed keys as consumed (recording them if a
// macro capture is active). It is the commit half of the PeekAt-based
// dispatch loop: keys are only removed from the queue, by a later
// FlushUsed, once MarkUsed has confirmed they were part of a real match.
func (k *Keys) MarkUsed(n int) {
	for i := 0; i < n && k.used < len(k.pending); i++ {
		k.recordRune(k.pending[k.used])
		k.used++
	}
}

// PeekAll returns every currently queued, unconsumed key without
// consuming them.
func (k *Keys) PeekAll() ([]rune, bool) {
	rest := k.pending[k.used:]
	if len(rest) == 0 {
		return nil, true
	}

	out := make([]rune, len(rest))
	copy(out, rest)

	return out, false
}

// Matched returns the keys consumed by the dispatch that resolved the
// binding currently executing, available to the bound action itself
// (self-insert, digit-argument) before the next loop iteration's
// FlushUsed drops them from the queue.
func (k *Keys) Matched() []rune {
	out := make([]rune, k.used)
	copy(out, k.pending[:k.used])

	return out
}

// Pop consumes and returns exactly one key (terminal or queued).
func (k *Keys) Pop() (rune, bool) {
	return k.ReadRune()
}

// ReadArgument reads a single key to be used as a command argument
// (e.g. the character for vi-find-next-char, or the register name for
// vi-set-buffer). isAbort is true if Escape was read instead.
func (k *Keys) ReadArgument() ([]rune, bool) {
	r, ok := k.ReadRune()
	if !ok {
		return nil, true
	}

	if r == EscapeKey {
		return nil, true
	}

	return []rune{r}, false
}

// GetCursorPos asks the terminal for the real cursor position, used by
// the prompt package to learn how many columns a (possibly styled,
// possibly multi-line) prompt actually consumed.
func (k *Keys) GetCursorPos() (col, row int) {
	if k.reader == nil {
		return -1, -1
	}

	return k.reader.CursorPosition()
}

// StartRecording directs every key subsequently consumed through
// ReadRune into buf, for macro capture.
func (k *Keys) StartRecording(buf *[]rune) {
	k.recordBuf = buf
}

// StopRecording stops macro capture.
func (k *Keys) StopRecording() {
	k.recordBuf = nil
}

func (k *Keys) recordRune(r rune) {
	if k.recordBuf != nil {
		*k.recordBuf = append(*k.recordBuf, r)
	}
}

// EscapeKey is the rune value of the ASCII Escape character.
const EscapeKey = rune(0x1b)
