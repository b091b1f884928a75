package history

// lineItem is one recorded state of a history line that has been edited
// in place (without being accepted), most recent last.
type lineItem struct {
	line string
	pos  int
}

// lineHistory is the undo-style change trail kept for a single history
// line index within a single source, so that walking away from an
// edited history entry and back to it restores the edit instead of the
// original stored text.
type lineHistory struct {
	items []lineItem
}

// getLineHistory returns the change trail for the history line currently
// displayed (source + absolute position), or nil if none has been
// recorded yet.
func (h *Sources) getLineHistory() *lineHistory {
	source := h.Name()
	pos := h.Current().Len() - h.hpos

	bySource, ok := h.lines[source]
	if !ok {
		return nil
	}

	return bySource[pos]
}

// saveLineHistory appends the current line/cursor as a new state in the
// change trail for the history line currently displayed.
func (h *Sources) saveLineHistory() {
	if h.hpos == 0 || h.Current() == nil {
		return
	}

	source := h.Name()
	pos := h.Current().Len() - h.hpos

	if _, ok := h.lines[source]; !ok {
		h.lines[source] = make(map[int]*lineHistory)
	}

	hist, ok := h.lines[source][pos]
	if !ok {
		hist = &lineHistory{}
		h.lines[source][pos] = hist
	}

	line := string(*h.line)

	if len(hist.items) > 0 && hist.items[len(hist.items)-1].line == line {
		return
	}

	hist.items = append(hist.items, lineItem{line: line, pos: h.cursor.Pos()})
}
