// Package inputrc parses readline-style configuration and key-binding
// files: "set option value" directives feeding a Config, and
// "seq": action/macro directives feeding a set of Binds keyed by their
// key sequence.
package inputrc

// Control characters referenced by name throughout the widget set.
const (
	Space   = ' '
	Newline = '\n'
	Tab     = '\t'
)

// Bind is one resolved key-sequence binding: either the name of a
// built-in editing action, or, if Macro is true, a literal sequence of
// keys to replay (Action holds the still-escaped macro text in that
// case, unescaped lazily with Unescape when played back).
type Bind struct {
	Action string
	Macro  bool
}
