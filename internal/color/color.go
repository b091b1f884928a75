// Package color provides the small set of ANSI SGR sequences the
// editor's hint/prompt/completion-menu rendering uses, plus a helper
// to strip them back out when measuring display width.
package color

import "github.com/acarl005/stripansi"

// Attribute sequences used across hints, prompts and completion groups.
const (
	Reset    = "\x1b[0m"
	Bold     = "\x1b[1m"
	Dim      = "\x1b[2m"
	DimReset = "\x1b[22m"

	FgRed        = "\x1b[31m"
	FgGreen      = "\x1b[32m"
	FgYellow     = "\x1b[33m"
	FgBlue       = "\x1b[34m"
	FgMagenta    = "\x1b[35m"
	FgCyan       = "\x1b[36m"
	FgCyanBright = "\x1b[96m"
)

// Strip removes all ANSI escape sequences from s.
func Strip(s string) string {
	return stripansi.Strip(s)
}
