// Command demo is a small interactive shell exercising the edit
// package: it reads lines with emacs or vi keybindings, keeps them in
// a file-backed history, and optionally loads an inputrc file before
// starting.
package main

import (
	"errors"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/halcyon-cli/edit"
)

type options struct {
	Vi       bool   `short:"v" long:"vi" description:"start in vi editing mode instead of emacs"`
	Prompt   string `short:"p" long:"prompt" default:"demo> " description:"primary prompt string"`
	History  string `long:"history" description:"path to a newline-delimited history file"`
	Inputrc  string `long:"inputrc" description:"path to an inputrc file to load at startup"`
	Bindings string `long:"export-bindings" description:"write the active keymap as YAML to this path and exit"`
}

func main() {
	var opts options

	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}

		os.Exit(1)
	}

	rl := edit.New()
	rl.SetPrompt(opts.Prompt)

	if opts.Vi {
		rl.Config().SetString("editing-mode", "vi")
	}

	if opts.Inputrc != "" {
		if err := loadInputrc(rl, opts.Inputrc); err != nil {
			fmt.Fprintln(os.Stderr, "demo:", err)
			os.Exit(1)
		}
	}

	if opts.History != "" {
		if err := rl.AddHistoryFromFile("demo", opts.History); err != nil {
			fmt.Fprintln(os.Stderr, "demo:", err)
			os.Exit(1)
		}
	}

	if opts.Bindings != "" {
		if err := exportBindings(rl, opts.Bindings); err != nil {
			fmt.Fprintln(os.Stderr, "demo:", err)
			os.Exit(1)
		}

		return
	}

	run(rl)
}

func run(rl *edit.Editor) {
	for {
		line, err := rl.Readline()

		switch {
		case errors.Is(err, edit.ErrEOF):
			return
		case errors.Is(err, edit.ErrInterrupted):
			continue
		case err != nil:
			fmt.Fprintln(os.Stderr, "demo:", err)
			continue
		}

		if line == "" {
			continue
		}

		fmt.Println(line)
	}
}

func loadInputrc(rl *edit.Editor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening inputrc: %w", err)
	}
	defer f.Close()

	if err := rl.LoadInputrc(f); err != nil {
		return fmt.Errorf("loading inputrc: %w", err)
	}

	return nil
}

func exportBindings(rl *edit.Editor, path string) error {
	data, err := rl.ExportBindings()
	if err != nil {
		return fmt.Errorf("exporting bindings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
