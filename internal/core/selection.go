package core

// Selection tracks a region of the line, either a plain (mark,cursor)
// span used by the vi change/delete/yank operators, or a sticky visual
// selection entered with vi-visual-mode.
type Selection struct {
	line   *Line
	cursor *Cursor

	active     bool
	visual     bool
	visualLine bool
	mark       int
}

// NewSelection returns a selection bound to line and cursor.
func NewSelection(line *Line, cursor *Cursor) *Selection {
	return &Selection{line: line, cursor: cursor, mark: -1}
}

// Mark starts (or moves) the selection at pos.
func (s *Selection) Mark(pos int) {
	s.mark = pos
	s.active = true
}

// MarkRange marks the region from begin to end directly, leaving the
// cursor on end. Like any selection, Pos includes the rune under the
// cursor, so the span is [begin,end+1), clamped to the line length.
func (s *Selection) MarkRange(begin, end int) {
	s.mark = begin
	s.cursor.Set(end)
	s.active = true
}

// MarkSurround is an alias of MarkRange used when highlighting a
// surround pair for vi-change-surround's confirmation flash.
func (s *Selection) MarkSurround(begin, end int) {
	s.MarkRange(begin, end)
}

// Visual marks the selection as a sticky visual-mode selection; lineMode
// selects whole lines (visual-line-mode) rather than characters.
func (s *Selection) Visual(lineMode bool) {
	s.visual = true
	s.visualLine = lineMode
}

// IsVisual reports whether the selection is in sticky visual mode.
func (s *Selection) IsVisual() bool {
	return s.visual
}

// Active reports whether a selection is currently marked.
func (s *Selection) Active() bool {
	return s.active && s.mark != -1
}

// Reset clears the selection.
func (s *Selection) Reset() {
	s.active = false
	s.visual = false
	s.visualLine = false
	s.mark = -1
}

// Cursor returns the position the cursor should land on once the
// selection is consumed: the lower bound of the span.
func (s *Selection) Cursor() int {
	begin, _ := s.Pos()

	return begin
}

// Pos returns the ordered [begin,end) bounds of the selection.
func (s *Selection) Pos() (begin, end int) {
	begin, end = s.mark, s.cursor.Pos()
	if begin > end {
		begin, end = end, begin
	}

	if s.visualLine {
		bstart, _ := lineBounds(*s.line, begin)
		_, eend := lineBounds(*s.line, end)
		begin, end = bstart, eend+1
	} else {
		end++
	}

	if end > s.line.Len() {
		end = s.line.Len()
	}

	return begin, end
}

// Cut removes the selected text and returns it.
func (s *Selection) Cut() string {
	if !s.Active() {
		return ""
	}

	begin, end := s.Pos()
	cut := s.line.Cut(begin, end)
	s.Reset()

	return cut
}

// Pop returns the selected text without cutting it, along with its
// begin/end bounds and the cursor position the caller should restore to.
func (s *Selection) Pop() (text string, begin, end, cursor int) {
	if !s.Active() {
		return "", 0, 0, s.cursor.Pos()
	}

	begin, end = s.Pos()
	text = string((*s.line)[begin:end])
	cursor = begin
	s.Reset()

	return text, begin, end, cursor
}

// ReplaceWith applies fn to every rune in the selection, in place,
// without consuming the selection.
func (s *Selection) ReplaceWith(fn func(rune) rune) {
	if !s.Active() {
		return
	}

	begin, end := s.Pos()

	for i := begin; i < end; i++ {
		(*s.line)[i] = fn((*s.line)[i])
	}
}

// Surround wraps the selection with bchar/echar and consumes it.
func (s *Selection) Surround(bchar, echar rune) {
	if !s.Active() {
		return
	}

	begin, end := s.Pos()

	line := make(Line, 0, s.line.Len()+2)
	line = append(line, (*s.line)[:begin]...)
	line = append(line, bchar)
	line = append(line, (*s.line)[begin:end]...)
	line = append(line, echar)
	line = append(line, (*s.line)[end:]...)

	*s.line = line
	s.Reset()
}

// SelectAWord selects a vi "word" plus any single trailing (or, lacking
// one, leading) run of blanks around it.
func (s *Selection) SelectAWord() {
	s.selectAToken(false)
}

// SelectABlankWord selects a WORD plus adjacent blanks.
func (s *Selection) SelectABlankWord() {
	s.selectAToken(true)
}

func (s *Selection) selectAToken(blank bool) {
	begin, end := s.cursor.Pos(), s.cursor.Pos()

	if blank {
		begin, end = s.line.SelectBlankWord(s.cursor.Pos())
	} else {
		begin, end = s.line.SelectWord(s.cursor.Pos())
	}

	// Extend over trailing blanks, or leading ones if there are none after.
	extended := end

	for extended < s.line.Len() && (*s.line)[extended] == ' ' {
		extended++
	}

	if extended > end {
		end = extended
	} else {
		for begin > 0 && (*s.line)[begin-1] == ' ' {
			begin--
		}
	}

	s.cursor.Set(end - 1)
	s.Mark(begin)
}

// SelectAShellWord selects the shell-quoted argument under the cursor,
// including its enclosing quotes if any.
func (s *Selection) SelectAShellWord() {
	begin, end := s.line.SelectBlankWord(s.cursor.Pos())
	s.cursor.Set(end - 1)
	s.Mark(begin)
}
