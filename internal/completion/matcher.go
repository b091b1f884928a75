package completion

import (
	"sort"
	"strings"

	"github.com/halcyon-cli/edit/internal/strutil"
)

// Matcher scores how well a candidate matches the typed word, lower
// being a better match; ok is false if the candidate should be
// dropped entirely.
type Matcher func(word, candidate string) (score int, ok bool)

// PrefixMatcher accepts only candidates that start with word,
// case-sensitively.
func PrefixMatcher(word, candidate string) (int, bool) {
	if !strings.HasPrefix(candidate, word) {
		return 0, false
	}

	return len(candidate) - len(word), true
}

// PrefixFoldMatcher is PrefixMatcher ignoring case, used when
// completion-ignore-case is set.
func PrefixFoldMatcher(word, candidate string) (int, bool) {
	if !strings.HasPrefix(strings.ToLower(candidate), strings.ToLower(word)) {
		return 0, false
	}

	return len(candidate) - len(word), true
}

// SubstringMatcher accepts candidates containing word anywhere,
// scoring by how early the match starts (earlier is better).
func SubstringMatcher(word, candidate string) (int, bool) {
	idx := strings.Index(candidate, word)
	if idx == -1 {
		return 0, false
	}

	return idx, true
}

// typoMaxDistance bounds how many edits a candidate may be from the
// typed word before TypoMatcher rejects it outright, keeping the
// fallback pass from matching everything when the word is short.
const typoMaxDistance = 2

// TypoMatcher accepts candidates within a small Levenshtein distance of
// word, the last-resort pass run when prefix/substring matching finds
// nothing (fat-fingered completion, e.g. "lenght" -> "length").
func TypoMatcher(word, candidate string) (int, bool) {
	d := strutil.Levenshtein(word, candidate)
	if d > typoMaxDistance || d >= len(word)+1 {
		return 0, false
	}

	return d, true
}

// Pipeline runs matchers in order against in, returning the first
// non-empty result (each stage only runs if the previous one matched
// nothing), sorted by ascending score and then alphabetically within
// equal scores, unless the candidate's tag is listed in NoSort.
func Pipeline(in Values, word string, matchers ...Matcher) Values {
	for _, m := range matchers {
		out := apply(in, word, m)
		if len(out.Candidates) > 0 {
			return out
		}
	}

	out := in
	out.Candidates = nil

	return out
}

func apply(in Values, word string, m Matcher) Values {
	type scored struct {
		c     Candidate
		score int
	}

	var matched []scored

	for _, c := range in.Candidates {
		score, ok := m(word, c.Value)
		if !ok {
			continue
		}

		matched = append(matched, scored{c: c, score: score})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if in.NoSort[matched[i].c.Tag] {
			return false
		}

		if matched[i].score != matched[j].score {
			return matched[i].score < matched[j].score
		}

		return matched[i].c.Value < matched[j].c.Value
	})

	out := in
	out.Candidates = make([]Candidate, len(matched))

	for i, s := range matched {
		out.Candidates[i] = s.c
	}

	return out
}
