package inputrc

import "strconv"

// defaults mirrors the handful of boolean/string/int options the
// widget set actually queries. Anything not listed here defaults to
// the readline-standard value given in defaultBool/defaultString.
var defaultBool = map[string]bool{
	"history-autosuggest":      false,
	"history-preserve-point":   false,
	"revert-all-at-newline":    false,
	"blink-matching-paren":     true,
	"show-all-if-ambiguous":    false,
	"completion-ignore-case":   false,
	"menu-complete-display-prefix": false,
	"history-expand-line":      true,
	"history-verify":           false,
}

var defaultString = map[string]string{
	"comment-begin": "#",
	"history-size":  "",
	"editing-mode":  "emacs",
}

var defaultInt = map[string]int{
	"history-size": 0,
}

// Config holds option values read from an inputrc file (or set
// programmatically), consulted throughout the widget set with
// GetBool/GetInt/GetString.
type Config struct {
	bools   map[string]bool
	strings map[string]string
	ints    map[string]int
}

// NewConfig returns a Config seeded with readline's standard defaults.
func NewConfig() *Config {
	c := &Config{
		bools:   make(map[string]bool, len(defaultBool)),
		strings: make(map[string]string, len(defaultString)),
		ints:    make(map[string]int, len(defaultInt)),
	}

	for k, v := range defaultBool {
		c.bools[k] = v
	}

	for k, v := range defaultString {
		c.strings[k] = v
	}

	for k, v := range defaultInt {
		c.ints[k] = v
	}

	return c
}

// GetBool returns the named boolean option, false if unset.
func (c *Config) GetBool(name string) bool {
	if c == nil {
		return false
	}

	return c.bools[name]
}

// GetString returns the named string option, "" if unset.
func (c *Config) GetString(name string) string {
	if c == nil {
		return ""
	}

	return c.strings[name]
}

// GetInt returns the named integer option, 0 if unset.
func (c *Config) GetInt(name string) int {
	if c == nil {
		return 0
	}

	return c.ints[name]
}

// SetBool sets a boolean option, used by "set name on/off" directives
// and by programmatic configuration.
func (c *Config) SetBool(name string, value bool) {
	c.bools[name] = value
}

// SetString sets a string-valued option, and its integer twin if the
// value parses as one (history-size is set both ways by real inputrc
// files: "set history-size 500").
func (c *Config) SetString(name, value string) {
	c.strings[name] = value

	if n, err := strconv.Atoi(value); err == nil {
		c.ints[name] = n
	}
}

// Bools returns every boolean option currently set, for callers (like
// LoadInputrc) that need to merge a whole parsed option set rather
// than look values up one at a time.
func (c *Config) Bools() map[string]bool {
	return c.bools
}

// Strings returns every string option currently set, for the same
// bulk-merge use as Bools.
func (c *Config) Strings() map[string]string {
	return c.strings
}
