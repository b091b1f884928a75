package edit

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/halcyon-cli/edit/inputrc"
	"github.com/halcyon-cli/edit/internal/keymap"
	"github.com/halcyon-cli/edit/internal/strutil"
)

// caretSeq renders every rune of a key sequence in caret notation,
// joining them back into one readable string (e.g. "\x01d" -> "^Ad").
func caretSeq(seq string) string {
	var out string

	for _, r := range seq {
		out += strutil.Caret(r)
	}

	return out
}

// exportableModes lists the keymaps ExportBindings walks and
// ImportBindings/LoadInputrc are allowed to write into: every main
// keymap plus the sub-keymaps reachable as a local mode from one of
// them. Menu-select and isearch are deliberately excluded: their
// bindings are fixed editor plumbing, not something a user-supplied
// config is expected to override.
var exportableModes = []keymap.Mode{
	keymap.Emacs,
	keymap.EmacsMeta,
	keymap.EmacsCtrlX,
	keymap.ViIns,
	keymap.ViCmd,
	keymap.ViMove,
	keymap.Visual,
}

// LoadInputrc parses an inputrc-format file and applies its "set"
// directives to the editor's Config and its "seq": action directives
// to every main and sub keymap, clobbering whatever BindDefaults
// already installed during New/NewWithConfig. This is safe to call any
// time after construction: bindings go through the clobbering Bind,
// not BindIfNotBound, so a loaded file always wins over the built-in
// defaults regardless of call order, and an "editing-mode" directive
// re-selects the main keymap immediately rather than only affecting
// the next construction.
//
// inputrc has no notion of "which keymap a binding targets" beyond the
// $if mode=vi/emacs conditionals, whose blocks the parser skips
// entirely, so every binding outside them is applied to every
// exportable keymap.
func (rl *Editor) LoadInputrc(r io.Reader) error {
	cfg, binds, err := inputrc.Parse(r)
	if err != nil {
		return fmt.Errorf("edit: parsing inputrc: %w", err)
	}

	for name, value := range cfg.Strings() {
		rl.config.SetString(name, value)
	}

	for name, value := range cfg.Bools() {
		rl.config.SetBool(name, value)
	}

	for _, b := range binds {
		action, ok := rl.commands[b.Bind.Action]
		if !ok {
			continue
		}

		for _, mode := range exportableModes {
			rl.keymaps.Table(mode).Bind(b.Sequence, b.Bind, action)
		}
	}

	if rl.config.GetString("editing-mode") == "vi" {
		rl.keymaps.SetMain(keymap.ViCmd)
	} else {
		rl.keymaps.SetMain(keymap.Emacs)
	}

	return nil
}

// bindingsDoc is the YAML shape ExportBindings/ImportBindings
// round-trip: one top-level key per keymap, each holding its bound
// sequence -> action name map. Sequences are caret-escaped so control
// characters survive as readable text in the file.
type bindingsDoc map[string]map[string]string

// ExportBindings serializes every exportable keymap's current bindings
// to YAML, for embedders that want a structured config file alongside
// (or instead of) raw inputrc text.
func (rl *Editor) ExportBindings() ([]byte, error) {
	doc := make(bindingsDoc, len(exportableModes))

	for _, mode := range exportableModes {
		table := rl.keymaps.Table(mode)

		entries := table.Entries()
		if len(entries) == 0 {
			continue
		}

		seqs := make(map[string]string, len(entries))
		for seq, bind := range entries {
			if bind.Macro {
				continue
			}

			seqs[caretSeq(seq)] = bind.Action
		}

		doc[string(mode)] = seqs
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("edit: exporting bindings: %w", err)
	}

	return out, nil
}

// ImportBindings applies a YAML document produced by ExportBindings
// (or hand-written in the same shape) onto the editor's keymaps,
// clobbering any existing binding for a sequence it mentions. Unknown
// keymap names or action names are skipped rather than treated as
// errors, so a config written against a newer/older version of the
// widget set degrades gracefully instead of failing outright.
func (rl *Editor) ImportBindings(data []byte) error {
	var doc bindingsDoc

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("edit: importing bindings: %w", err)
	}

	for modeName, seqs := range doc {
		table := rl.keymaps.Table(keymap.Mode(modeName))

		for seqText, name := range seqs {
			action, ok := rl.commands[name]
			if !ok {
				continue
			}

			seq, err := strutil.Uncaret(seqText)
			if err != nil {
				continue
			}

			table.Bind(seq, inputrc.Bind{Action: name}, action)
		}
	}

	return nil
}
