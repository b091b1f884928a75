package core

import "strconv"

// Iterations accumulates the numeric argument vi/emacs commands build
// up one digit at a time (e.g. the "3" in "3dw"), the operator-pending
// "times" that compose with it (the "2" in "2d3w" multiplies out to
// 6), and the sign toggled by a bare negative-argument.
type Iterations struct {
	digits   string
	negative bool
	active   bool
}

// Add appends a single digit typed while accumulating a repeat count.
// The leading digit may not be zero (a leading "0" is the
// beginning-of-line motion, not a count), but later digits may.
func (it *Iterations) Add(digit rune) {
	if digit == '0' && it.digits == "" {
		return
	}

	it.digits += string(digit)
	it.active = true
}

// Mul folds factor into the accumulated count, implementing Emacs's
// bare universal-argument: each consecutive, argument-less C-u
// multiplies the count by 4 instead of replacing it.
func (it *Iterations) Mul(factor int) {
	n := factor

	if it.digits != "" {
		n = it.Get() * factor
	}

	it.digits = strconv.Itoa(n)
	it.active = true
}

// Negate toggles the sign of the accumulated count, implementing
// Emacs's negative-argument (bound to M-- and C-u with no digits).
func (it *Iterations) Negate() {
	it.negative = !it.negative
	it.active = true
}

// IsSet reports whether a count is currently being accumulated or was
// left set by a previous command.
func (it *Iterations) IsSet() bool {
	return it.active && (it.digits != "" || it.negative)
}

// Get returns the accumulated count, defaulting to 1 if none was set.
// A negative-argument flips its sign with no digits flipping -1.
func (it *Iterations) Get() int {
	n := 1

	if it.digits != "" {
		if parsed, err := strconv.Atoi(it.digits); err == nil && parsed > 0 {
			n = parsed
		}
	}

	if it.negative {
		n = -n
	}

	return n
}

// Reset clears the accumulated count.
func (it *Iterations) Reset() {
	it.digits = ""
	it.negative = false
	it.active = false
}

// IsPending reports whether a count is still being accumulated this
// round (a digit key was just processed), so the caller can defer
// resolving a pending operator until the count is complete.
func (it *Iterations) IsPending() bool {
	return it.active
}

// PostRunHint returns the hint text to display after a command runs
// while a count is still accumulating (e.g. "(arg: 23)"), or "" if
// there is nothing to show.
func (it *Iterations) PostRunHint() string {
	if !it.IsSet() {
		return ""
	}

	sign := ""
	if it.negative {
		sign = "-"
	}

	return "(arg: " + sign + it.digits + ")"
}

// Pending combines this iterator with an operator-level count (the
// "2" of "2d3w"), per vi's count-multiplication rule, and resets both.
func (it *Iterations) Pending(operator int) int {
	n := it.Get() * operator
	it.Reset()

	return n
}
