// Package completion implements the tab-completion engine: a pipeline
// of matchers (prefix, substring, typo-tolerant) producing candidates,
// grouped/columnized for display, driven either by the interactive
// completion menu or by the incremental/non-incremental search
// minibuffers.
package completion

import "strings"

// Completer generates completion candidates for the current line,
// given the word being completed. Embedders register one or more of
// these (history, file paths, custom command completers, a carapace
// adapter) with the Engine.
type Completer func(line []rune, pos int) Values

// Candidate is a single completion candidate.
type Candidate struct {
	Value       string // inserted into the line if chosen
	Display     string // shown in the menu instead of Value, if set
	Description string // shown alongside Value in the menu
	Style       string // ANSI styling applied when displaying the candidate
	Tag         string // candidates sharing a tag are grouped under one heading

	// NoSpaceTrim lists runes trimmed from the end of Value if a space
	// or another non-nil rune is inserted immediately after it (used
	// for trailing-slash removal in path completion).
	NoSpaceTrim string
}

// DisplayText returns the candidate's menu label: Display if set, else
// Value.
func (c Candidate) DisplayText() string {
	if c.Display != "" {
		return c.Display
	}

	return c.Value
}

// Values holds every candidate produced by one Completer call, plus
// metadata the engine and the display layer need to group, sort and
// insert them correctly.
type Values struct {
	Candidates []Candidate

	// Prefix is the portion of the current word already typed, common
	// to every candidate; it may be narrowed to the candidates' longest
	// common prefix as matching proceeds.
	Prefix string

	// Messages are informational lines shown above the candidate list
	// (e.g. "3 candidates", an error from a failed completer).
	Messages []string

	// Usage, if set, is shown in the hint line instead of a match count
	// (used by completers describing an argument rather than a value,
	// e.g. "<filename>").
	Usage string

	// NoSort/ListLong/ListSep are keyed by Tag: NoSort preserves a
	// group's original candidate order instead of sorting it
	// alphabetically; ListLong forces one-candidate-per-line display
	// for that group; ListSep, if set, is printed between the
	// candidate and its description instead of the default padding.
	NoSort  map[string]bool
	ListLong map[string]bool
	ListSep map[string]string
}

// NewValues returns an empty candidate set.
func NewValues() Values {
	return Values{
		NoSort:   make(map[string]bool),
		ListLong: make(map[string]bool),
		ListSep:  make(map[string]string),
	}
}

// Add appends candidates built from raw strings sharing tag.
func (v *Values) Add(tag string, values ...string) {
	for _, val := range values {
		v.Candidates = append(v.Candidates, Candidate{Value: val, Tag: tag})
	}
}

// AddDescribed appends candidates built from value/description pairs
// sharing tag.
func (v *Values) AddDescribed(tag string, pairs map[string]string) {
	for val, desc := range pairs {
		v.Candidates = append(v.Candidates, Candidate{Value: val, Description: desc, Tag: tag})
	}
}

// Merge appends another Values' candidates and messages into v,
// carrying over its NoSort/ListLong/ListSep settings.
func (v *Values) Merge(other Values) {
	v.Candidates = append(v.Candidates, other.Candidates...)
	v.Messages = append(v.Messages, other.Messages...)

	for tag, val := range other.NoSort {
		if v.NoSort == nil {
			v.NoSort = make(map[string]bool)
		}

		v.NoSort[tag] = val
	}

	for tag, val := range other.ListLong {
		if v.ListLong == nil {
			v.ListLong = make(map[string]bool)
		}

		v.ListLong[tag] = val
	}

	for tag, val := range other.ListSep {
		if v.ListSep == nil {
			v.ListSep = make(map[string]string)
		}

		v.ListSep[tag] = val
	}
}

// FilterPrefix drops candidates whose Value does not start with
// prefix, used by the matcher pipeline's plain-prefix stage.
func FilterPrefix(in Values, prefix string) Values {
	out := in
	out.Candidates = nil

	for _, c := range in.Candidates {
		if strings.HasPrefix(c.Value, prefix) {
			out.Candidates = append(out.Candidates, c)
		}
	}

	return out
}
