package inputrc

import (
	"bufio"
	"io"
	"strings"
)

// Binding is one parsed "seq": action-or-macro directive, keyed by its
// already-unescaped key sequence.
type Binding struct {
	Sequence string
	Bind     Bind
}

// Parse reads an inputrc-format file from r, returning the option
// values it set and the key bindings it declared. $if/$else/$endif
// conditionals are recognized but never evaluated: every line between
// an $if and its matching $endif, $else branch included, is skipped.
// The returned Config holds only the options the file set, without
// NewConfig's defaults.
func Parse(r io.Reader) (*Config, []Binding, error) {
	cfg := &Config{
		bools:   make(map[string]bool),
		strings: make(map[string]string),
		ints:    make(map[string]int),
	}

	var binds []Binding

	scanner := bufio.NewScanner(r)
	skipping := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "$if"):
			skipping++
			continue
		case strings.HasPrefix(line, "$else"):
			continue
		case strings.HasPrefix(line, "$endif"):
			if skipping > 0 {
				skipping--
			}

			continue
		}

		if skipping > 0 {
			continue
		}

		if strings.HasPrefix(line, "set ") {
			fields := strings.Fields(line)
			if len(fields) >= 3 {
				applySet(cfg, fields[1], fields[2])
			}

			continue
		}

		if b, ok := parseBind(line); ok {
			binds = append(binds, b)
		}
	}

	if err := scanner.Err(); err != nil {
		return cfg, binds, err
	}

	return cfg, binds, nil
}

func applySet(cfg *Config, name, value string) {
	switch value {
	case "on", "On", "ON":
		cfg.SetBool(name, true)
	case "off", "Off", "OFF":
		cfg.SetBool(name, false)
	default:
		cfg.SetString(name, value)
	}
}

// parseBind handles lines of the form `"seq": action` or `"seq": "macro"`.
func parseBind(line string) (Binding, bool) {
	if !strings.HasPrefix(line, "\"") {
		return Binding{}, false
	}

	end := strings.IndexByte(line[1:], '"')
	if end == -1 {
		return Binding{}, false
	}

	end++ // index within line

	seq := Unescape(line[1:end])

	rest := strings.TrimSpace(line[end+1:])
	rest = strings.TrimPrefix(rest, ":")
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "\"") && strings.HasSuffix(rest, "\"") && len(rest) >= 2 {
		return Binding{Sequence: seq, Bind: Bind{Action: rest[1 : len(rest)-1], Macro: true}}, true
	}

	return Binding{Sequence: seq, Bind: Bind{Action: rest}}, true
}
