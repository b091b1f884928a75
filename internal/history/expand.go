package history

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/halcyon-cli/edit/internal/strutil"
)

// ErrEventNotFound is returned by Expand when a history designator does
// not resolve to a line (an absolute/relative index past the history's
// bounds, or a "!?str?"/"!str" search with no match). Per spec §4.10,
// a failed designator is recoverable: the editor rings the bell,
// clears the buffer and surfaces a diagnostic rather than accepting a
// partially-expanded line.
var ErrEventNotFound = errors.New("history: event not found")

// Expand resolves every history-designator event in line against the
// current history source: "!!" (previous), "!n" (absolute), "!-n" (n
// back), "!?str?" (most recent containing str), "!$" (last word of
// previous), "!str" (most recent starting with str), and a leading
// "^a^b" (substitute the first "a" in the previous line with "b").
// Lines containing no designator at all (the overwhelming common case)
// are returned unchanged without touching the history source.
func (h *Sources) Expand(line string) (string, error) {
	if strings.HasPrefix(line, "^") {
		return h.expandCaret(line)
	}

	if !strings.ContainsRune(line, '!') {
		return line, nil
	}

	var out strings.Builder

	runes := []rune(line)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r != '!' || i+1 >= len(runes) {
			out.WriteRune(r)
			continue
		}

		// Bash treats "! " and "!=" as literal, not an event start.
		switch runes[i+1] {
		case ' ', '\t', '=':
			out.WriteRune(r)
			continue
		}

		expanded, consumed, err := h.expandEvent(runes[i:])
		if err != nil {
			return "", err
		}

		out.WriteString(expanded)
		i += consumed - 1
	}

	return out.String(), nil
}

// expandEvent resolves the single designator starting at rest[0]=='!',
// returning the replacement text and how many runes of rest it consumed.
func (h *Sources) expandEvent(rest []rune) (string, int, error) {
	if len(rest) >= 2 && rest[1] == '!' {
		line, err := h.eventNumbered(-1)
		if err != nil {
			return "", 0, err
		}

		return line, 2, nil
	}

	if len(rest) >= 2 && rest[1] == '$' {
		line, err := h.eventNumbered(-1)
		if err != nil {
			return "", 0, err
		}

		return lastWord(line), 2, nil
	}

	if len(rest) >= 2 && rest[1] == '?' {
		end := 2
		for end < len(rest) && rest[end] != '?' {
			end++
		}

		needle := string(rest[2:end])
		if end < len(rest) && rest[end] == '?' {
			end++
		}

		line, err := h.eventContaining(needle)
		if err != nil {
			return "", 0, err
		}

		return line, end, nil
	}

	if len(rest) >= 2 && (rest[1] == '-' || isDigit(rest[1])) {
		end := 1
		if rest[end] == '-' {
			end++
		}

		for end < len(rest) && isDigit(rest[end]) {
			end++
		}

		if end == 1 || (rest[1] == '-' && end == 2) {
			// Nothing but a bare "!" or "!-": not a numeric designator.
		} else {
			n, err := strconv.Atoi(string(rest[1:end]))
			if err != nil {
				return "", 0, fmt.Errorf("history: parsing event number: %w", err)
			}

			line, err := h.eventNumbered(n)
			if err != nil {
				return "", 0, err
			}

			return line, end, nil
		}
	}

	// "!str": most recent entry starting with the word that follows,
	// up to the next whitespace or history-special character.
	end := 1
	for end < len(rest) && !isWordBreak(rest[end]) {
		end++
	}

	if end == 1 {
		return "!", 1, nil
	}

	needle := string(rest[1:end])

	line, err := h.eventStartingWith(needle)
	if err != nil {
		return "", 0, err
	}

	return line, end, nil
}

// eventNumbered resolves a signed event number against the current
// source: positive n is an absolute 1-based position ("!42" is the
// 42nd command ever entered), negative n counts back from the most
// recent entry ("!-1" is the previous command, the same entry "!!"
// and "!$" resolve against).
func (h *Sources) eventNumbered(n int) (string, error) {
	src := h.Current()
	if src == nil {
		return "", ErrEventNotFound
	}

	var pos int
	if n < 0 {
		pos = src.Len() + n
	} else {
		pos = n - 1
	}

	if pos < 0 || pos >= src.Len() {
		return "", ErrEventNotFound
	}

	line, err := src.GetLine(pos)
	if err != nil {
		return "", ErrEventNotFound
	}

	return line, nil
}

func (h *Sources) eventContaining(needle string) (string, error) {
	return h.searchBackward(func(line string) bool {
		return strings.Contains(line, needle)
	})
}

func (h *Sources) eventStartingWith(needle string) (string, error) {
	return h.searchBackward(func(line string) bool {
		return strings.HasPrefix(line, needle)
	})
}

func (h *Sources) searchBackward(match func(string) bool) (string, error) {
	src := h.Current()
	if src == nil {
		return "", ErrEventNotFound
	}

	for i := src.Len() - 1; i >= 0; i-- {
		line, err := src.GetLine(i)
		if err != nil {
			continue
		}

		if match(line) {
			return line, nil
		}
	}

	return "", ErrEventNotFound
}

// expandCaret resolves a leading "^a^b[^]" quick-substitution: replace
// the first occurrence of a in the previous history entry with b and
// return the result as the whole expanded line.
func (h *Sources) expandCaret(line string) (string, error) {
	body := strings.TrimSuffix(line[1:], "^")

	parts := strings.SplitN(body, "^", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("history: malformed %q substitution", line)
	}

	prev, err := h.eventNumbered(-1)
	if err != nil {
		return "", err
	}

	if !strings.Contains(prev, parts[0]) {
		return "", ErrEventNotFound
	}

	return strings.Replace(prev, parts[0], parts[1], 1), nil
}

func lastWord(line string) string {
	words, err := strutil.Split(line)
	if err != nil || len(words) == 0 {
		return ""
	}

	return words[len(words)-1]
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWordBreak(r rune) bool {
	switch r {
	case ' ', '\t', '\n', ';', '|', '&', '<', '>', '"', '\'':
		return true
	default:
		return false
	}
}
