package completion

import (
	"sort"
	"strings"

	"github.com/halcyon-cli/edit/internal/color"
	"github.com/halcyon-cli/edit/internal/term"
	"golang.org/x/exp/slices"
)

// group is a tag-headed block of candidates laid out for display,
// either as a multi-column grid (the common case) or one-per-line
// (forced via Values.ListLong, or chosen automatically when a
// candidate's description is too wide to share a row with its peers).
type group struct {
	tag        string
	rows       [][]Candidate
	listed     bool
	sep        string
	colWidths  []int
	descWidth  int
	isCurrent  bool
}

// Columnizer groups a flat candidate list by tag and lays each group
// out into rows sized to the terminal width, ready for the display
// package to render one tag-heading-plus-grid block at a time.
type Columnizer struct {
	groups []*group
}

// Columnize builds the display layout for vals.
func Columnize(vals Values) *Columnizer {
	c := &Columnizer{}

	byTag := map[string][]Candidate{}

	var order []string

	for _, cand := range vals.Candidates {
		if _, ok := byTag[cand.Tag]; !ok {
			order = append(order, cand.Tag)
		}

		byTag[cand.Tag] = append(byTag[cand.Tag], cand)
	}

	width := term.GetWidth()

	for _, tag := range order {
		cands := byTag[tag]

		if !vals.NoSort[tag] {
			sort.SliceStable(cands, func(i, j int) bool {
				return cands[i].DisplayText() < cands[j].DisplayText()
			})
		}

		c.groups = append(c.groups, newGroup(tag, cands, vals.ListLong[tag], vals.ListSep[tag], width))
	}

	return c
}

func newGroup(tag string, cands []Candidate, forceList bool, sep string, width int) *group {
	g := &group{tag: tag, sep: sep}

	longest := 0

	for _, c := range cands {
		l := len(color.Strip(c.DisplayText()))
		if l > longest {
			longest = l
		}

		if c.Description != "" {
			forceList = forceList || len(color.Strip(c.Description)) > width/3
		}
	}

	if g.sep == "" {
		g.sep = "  "
	}

	colWidth := longest + len(g.sep)
	perRow := width / colWidth
	if perRow < 1 {
		perRow = 1
	}

	if forceList {
		perRow = 1
	}

	g.listed = perRow == 1
	g.colWidths = make([]int, perRow)

	for i := range g.colWidths {
		g.colWidths[i] = colWidth
	}

	g.rows = chunk(cands, perRow)

	return g
}

func chunk(cands []Candidate, size int) [][]Candidate {
	var rows [][]Candidate

	for size > 0 && len(cands) > 0 {
		if len(cands) < size {
			size = len(cands)
		}

		rows = append(rows, slices.Clone(cands[:size]))
		cands = cands[size:]
	}

	return rows
}

// Tags returns the ordered list of tag headings produced by Columnize.
func (c *Columnizer) Tags() []string {
	tags := make([]string, len(c.groups))
	for i, g := range c.groups {
		tags[i] = g.tag
	}

	return tags
}

// Render renders every group as plain text: a tag heading (if
// non-empty) followed by its rows, columns padded to their computed
// width.
func (c *Columnizer) Render() string {
	var b strings.Builder

	for _, g := range c.groups {
		if g.tag != "" {
			b.WriteString(color.Bold + g.tag + color.Reset + "\n")
		}

		for _, row := range g.rows {
			for i, cand := range row {
				text := cand.DisplayText()
				if cand.Description != "" {
					text += g.sep + color.Dim + cand.Description + color.Reset
				}

				if i < len(g.colWidths) && !g.listed {
					pad := g.colWidths[i] - len(color.Strip(cand.DisplayText()))
					if pad > 0 {
						text += strings.Repeat(" ", pad)
					}
				}

				b.WriteString(text)
			}

			b.WriteString("\n")
		}
	}

	return b.String()
}

// Flat returns every candidate across all groups in display order,
// used by the interactive menu to index into "the Nth candidate".
func (c *Columnizer) Flat() []Candidate {
	var out []Candidate

	for _, g := range c.groups {
		for _, row := range g.rows {
			out = append(out, row...)
		}
	}

	return out
}
