package completion

import (
	"github.com/halcyon-cli/edit/internal/core"
	"github.com/rsteube/carapace"
)

// FromCarapace adapts a carapace.Action into a Completer, for
// embedders that already maintain a carapace-based completion tree and
// want to plug it into this engine instead of (or alongside) native
// completers.
//
// The action is invoked with the word currently being completed as the
// sole positional argument; its raw values/descriptions/style tags are
// copied into a Values set under tag.
func FromCarapace(tag string, action carapace.Action) Completer {
	return func(line []rune, pos int) Values {
		word, _ := currentWord(core.Line(line), pos)

		invoked := action.Invoke(carapace.Context{Args: []string{}, Value: word})

		out := NewValues()

		for _, v := range invoked.RawValues {
			out.Candidates = append(out.Candidates, Candidate{
				Value:       v.Value,
				Display:     v.Display,
				Description: v.Description,
				Style:       v.Style,
				Tag:         tag,
			})
		}

		return out
	}
}
