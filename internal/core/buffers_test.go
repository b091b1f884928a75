package core

import (
	"reflect"
	"testing"
)

// TestBuffersActiveIdempotent checks that reading the top of the ring
// with Active is idempotent: repeated reads without an intervening
// Write or Rotate return the same text.
func TestBuffersActiveIdempotent(t *testing.T) {
	b := NewBuffers()
	b.Write([]rune("first")...)

	first := b.Active()
	second := b.Active()

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Active() not idempotent: %q then %q", string(first), string(second))
	}
}

func TestBuffersWriteRotate(t *testing.T) {
	b := NewBuffers()
	b.Write([]rune("one")...)
	b.Write([]rune("two")...)
	b.Write([]rune("three")...)

	if got := string(b.Active()); got != "three" {
		t.Fatalf("Active() = %q, want three", got)
	}

	if got := string(b.Rotate()); got != "two" {
		t.Fatalf("Rotate() = %q, want two", got)
	}

	if got := string(b.Rotate()); got != "one" {
		t.Fatalf("Rotate() = %q, want one", got)
	}

	// Ring wraps back around to the newest entry.
	if got := string(b.Rotate()); got != "three" {
		t.Fatalf("Rotate() after wrap = %q, want three", got)
	}
}

func TestBuffersPrependAppendCoalesce(t *testing.T) {
	b := NewBuffers()
	b.Write([]rune("mid")...)
	b.Prepend([]rune("pre-")...)
	b.Append([]rune("-post")...)

	if got := string(b.Active()); got != "pre-mid-post" {
		t.Fatalf("coalesced kill = %q, want pre-mid-post", got)
	}
}

func TestBuffersNamedRegisterRoundTrip(t *testing.T) {
	b := NewBuffers()

	if _, ok := b.SetActive('a'); ok {
		t.Fatalf("register 'a' should start empty")
	}

	b.Write([]rune("register text")...)

	text, ok := b.SetActive('a')
	if !ok || string(text) != "register text" {
		t.Fatalf("second SetActive('a') = %q,%v, want %q,true", string(text), ok, "register text")
	}

	b.Write([]rune("more text")...)

	text, ok = b.SetActive('a')
	if !ok || string(text) != "more text" {
		t.Fatalf("SetActive('a') = %q,%v, want %q,true", string(text), ok, "more text")
	}
}

func TestBuffersMaxSizeEviction(t *testing.T) {
	b := NewBuffers()

	total := KillRingMax + 10
	for i := 0; i < total; i++ {
		b.Write([]rune{'a', rune('0' + i%10), rune('0' + (i/10)%10)}...)
	}

	seen := map[string]bool{string(b.Active()): true}

	count := 1
	for i := 0; i < total; i++ {
		key := string(b.Rotate())
		if seen[key] {
			break
		}

		seen[key] = true
		count++
	}

	if count > KillRingMax {
		t.Fatalf("ring retained %d entries, want at most %d", count, KillRingMax)
	}
}
