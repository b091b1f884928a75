package strutil

import "github.com/reiver/go-caret"

// Caret renders a C0 control character in caret notation (e.g. '\x01'
// becomes "^A"), the form the display's width model (spec §4.5) and the
// inputrc bind-sequence printer use for unprintable characters.
func Caret(r rune) string {
	encoded := caret.Encode(string(r))

	return encoded
}

// Uncaret decodes a caret-notation string (e.g. "^A", "^[", "^?") back
// into its raw byte sequence, used when parsing inputrc key sequences
// that use caret rather than \C- notation.
func Uncaret(s string) (string, error) {
	return caret.Decode(s)
}
