// Package edit implements a terminal line editor: an input buffer with
// emacs and vi keybindings, a kill ring and named vi registers, command
// history with incremental search, tab completion, and a redisplay
// engine that redraws the line, hints and completion menu below the
// prompt on every keystroke.
package edit

import (
	"os"

	"github.com/halcyon-cli/edit/inputrc"
	"github.com/halcyon-cli/edit/internal/completion"
	"github.com/halcyon-cli/edit/internal/core"
	"github.com/halcyon-cli/edit/internal/display"
	"github.com/halcyon-cli/edit/internal/history"
	"github.com/halcyon-cli/edit/internal/keymap"
	"github.com/halcyon-cli/edit/internal/macro"
	"github.com/halcyon-cli/edit/internal/term"
	"github.com/halcyon-cli/edit/internal/ui"
)

// Editor is a self-contained readline-style line editor: construct one
// with New, bind whatever history/completers/keys are needed, then call
// Readline in a loop to read successive lines from the terminal.
type Editor struct {
	line      *core.Line
	cursor    *core.Cursor
	selection *core.Selection
	buffers   *core.Buffers
	iterations *core.Iterations
	keys      *core.Keys

	keymaps   *keymap.Keymap
	macros    *macro.Macros
	hint      *ui.Hint
	prompt    *ui.Prompt
	completer *completion.Engine
	histories *history.Sources
	display   *display.Engine

	config *inputrc.Config

	// commands is every named widget BindDefaults knows about (emacs,
	// vi and history actions merged), kept around so ImportBindings/a
	// loaded inputrc file can resolve an action name to a function
	// without re-deriving the merge.
	commands commands

	// lastYank is the rune count of the most recent yank/yank-pop
	// insertion, so a following yank-pop knows how much of the line to
	// remove before substituting the next kill-ring entry.
	lastYank int

	// AcceptMultiline, when set, is consulted on Enter: if it returns
	// false the newline is inserted into the buffer instead of
	// accepting the line (used for shells that support multi-line
	// constructs such as an open quote or an unterminated "if").
	AcceptMultiline func(line string) bool

	// SyntaxHighlighter, when set, recolors the input line for display
	// without changing its contents.
	SyntaxHighlighter func(line []rune) string
}

// New returns an editor reading from the process's standard input,
// configured with readline's standard default options.
func New() *Editor {
	return NewWithConfig(inputrc.NewConfig())
}

// NewWithConfig returns an editor using the given option set (the
// result of parsing one or more inputrc files, or a programmatically
// built configuration).
func NewWithConfig(opts *inputrc.Config) *Editor {
	rl := &Editor{config: opts}

	reader := term.NewReader(os.Stdin)
	rl.keys = core.NewKeys(reader)

	rl.line = &core.Line{}
	rl.cursor = core.NewCursor(rl.line)
	rl.selection = core.NewSelection(rl.line, rl.cursor)
	rl.buffers = core.NewBuffers()
	rl.iterations = &core.Iterations{}

	rl.keymaps = keymap.New(rl.keys)
	rl.macros = macro.New(rl.keys)
	rl.hint = ui.NewHint()
	rl.prompt = ui.NewPrompt(rl.keys, rl.line, rl.cursor, opts)
	rl.completer = completion.New(rl.line, rl.cursor, rl.selection, rl.keymaps, rl.hint)
	rl.histories = history.NewSources(rl.line, rl.cursor, rl.hint, opts)
	rl.display = display.New(rl.prompt, rl.line, rl.cursor, rl.hint, rl.completer)

	BindDefaults(rl)

	return rl
}

// AddHistoryFromFile registers a history source backed by a
// newline-delimited file, creating it if it does not yet exist.
func (rl *Editor) AddHistoryFromFile(name, filepath string) error {
	return rl.histories.AddFromFile(name, filepath)
}

// AddHistory registers a history source under name.
func (rl *Editor) AddHistory(name string, source history.Source) {
	rl.histories.Add(name, source)
}

// DeleteHistory unregisters the named history sources.
func (rl *Editor) DeleteHistory(sources ...string) {
	rl.histories.Delete(sources...)
}

// SetPrompt sets the primary prompt string.
func (rl *Editor) SetPrompt(prompt string) {
	rl.prompt.Primary(func() string { return prompt })
}

// SetSecondaryPrompt sets the prompt printed at the start of every
// continuation line of a multi-line buffer kept open by
// AcceptMultiline (e.g. "> " for an unterminated shell construct).
func (rl *Editor) SetSecondaryPrompt(prompt string) {
	rl.prompt.Secondary(func() string { return prompt })
}

// SetRightPrompt sets a right-aligned prompt string, printed on the
// input line's row when there is room for it (single-row lines only).
func (rl *Editor) SetRightPrompt(prompt string) {
	rl.prompt.Right(func() string { return prompt })
}

// Config returns the editor's option set, for callers that want to
// read or adjust inputrc-style variables directly.
func (rl *Editor) Config() *inputrc.Config {
	return rl.config
}
