package strutil

import (
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/mattn/go-runewidth"
)

// RealLength returns the display width of s after stripping ANSI SGR
// escape sequences, tabs expanded to single columns, and control
// characters rendered as their two-column caret form (^X). This is the
// width model of spec §4.5, used by the prompt and display packages to
// size prompts, hints and completion columns.
func RealLength(s string) int {
	clean := stripansi.Strip(s)

	width := 0

	for _, r := range clean {
		width += RuneWidth(r)
	}

	return width
}

// RuneWidth returns the terminal display width of a single rune: 2 for
// C0 control characters (rendered "^X"), the East-Asian/wcwidth-derived
// width for everything else.
func RuneWidth(r rune) int {
	if r < 0x20 && r != '\t' {
		return 2
	}

	return runewidth.RuneWidth(r)
}

// Strip removes ANSI SGR escape sequences from s.
func Strip(s string) string {
	return stripansi.Strip(s)
}

// ExpandTabs expands tab characters in s to the next stop that is a
// multiple of width, measuring from startCol.
func ExpandTabs(s string, width, startCol int) string {
	if width <= 0 {
		width = 8
	}

	var b strings.Builder

	col := startCol

	for _, r := range s {
		if r == '\t' {
			next := ((col / width) + 1) * width
			b.WriteString(strings.Repeat(" ", next-col))
			col = next

			continue
		}

		b.WriteRune(r)
		col += RuneWidth(r)
	}

	return b.String()
}
