package ui

// Hint is the one-line status area rendered just below the input line:
// transient command feedback (a register/iteration indicator, a "no
// matches" message) or a persisted message that survives until the
// next keystroke clears it, matching whichever of the two readline
// traditionally shows at a time.
type Hint struct {
	text     string
	persist  string
}

// NewHint returns an empty hint line.
func NewHint() *Hint {
	return &Hint{}
}

// Set displays text for the current command only; it is cleared the
// next time Reset runs (typically at the top of the read loop).
func (h *Hint) Set(text string) {
	h.text = text
}

// Persist displays text and keeps it across Reset calls until
// ResetPersist is called explicitly (used for the active-register and
// pending-iteration indicators, which should stay visible across
// several keystrokes).
func (h *Hint) Persist(text string) {
	h.persist = text
}

// Text returns whatever should currently be displayed: the persisted
// message if set, else the transient one.
func (h *Hint) Text() string {
	if h.persist != "" {
		return h.persist
	}

	return h.text
}

// Reset clears the transient hint, leaving any persisted one in place.
func (h *Hint) Reset() {
	h.text = ""
}

// ResetPersist clears both the transient and the persisted hint.
func (h *Hint) ResetPersist() {
	h.text = ""
	h.persist = ""
}

// Empty reports whether there is currently nothing to display.
func (h *Hint) Empty() bool {
	return h.text == "" && h.persist == ""
}
