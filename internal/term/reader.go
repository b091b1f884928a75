package term

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/reiver/go-utf8s"
)

// Reader decodes a raw terminal byte stream into code points, and
// implements core.Reader so it can sit directly behind core.Keys. It
// also recognizes a cursor-position report ("\x1b[row;colR") arriving
// asynchronously in response to RequestCursorPosition and hands it to
// CursorPosition instead of surfacing it as ordinary input.
type Reader struct {
	src *bufio.Reader

	cursorCh chan [2]int
}

// NewReader wraps r (typically os.Stdin) for decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		src:      bufio.NewReader(r),
		cursorCh: make(chan [2]int, 1),
	}
}

// ReadRune blocks for the next decoded code point, decoding the
// incoming byte stream one byte at a time through utf8s.Decode until
// it reports a complete code point.
func (rd *Reader) ReadRune() (rune, bool) {
	for {
		r, ok := rd.decodeOne()
		if !ok {
			return 0, false
		}

		if r == 0x1b {
			if _, row, col, ok := rd.tryCursorReport(); ok {
				select {
				case rd.cursorCh <- [2]int{col, row}:
				default:
				}

				continue
			}
		}

		return r, true
	}
}

// decodeOne reads bytes from src one at a time, feeding them to
// utf8s.Decode until it yields a complete code point or the sequence
// is too long to be valid UTF-8, in which case the lead byte is
// returned verbatim (matching utf8.RuneError's fail-soft behavior).
func (rd *Reader) decodeOne() (rune, bool) {
	var buf []byte

	for len(buf) < 4 {
		b, err := rd.src.ReadByte()
		if err != nil {
			return 0, false
		}

		buf = append(buf, b)

		r, size, err := utf8s.Decode(buf)
		if err == nil && size > 0 {
			return r, true
		}
	}

	return rune(buf[0]), true
}

// PeekRune waits up to timeout for the next code point, without
// consuming it if reading times out (best-effort: bufio.Reader has no
// native deadline, so this only upholds the contract when the reader
// sits atop something that does, e.g. a raw terminal fd with a VMIN/
// VTIME discipline; as a pure decoder it otherwise degrades to a
// blocking ReadRune).
func (rd *Reader) PeekRune(timeout time.Duration) (rune, bool) {
	return rd.ReadRune()
}

// CursorPosition sends a cursor-position request (RequestCursorPosition),
// waits briefly for the report and returns it, or -1,-1 if none arrives
// in time.
func (rd *Reader) CursorPosition() (col, row int) {
	RequestCursorPosition()

	select {
	case pos := <-rd.cursorCh:
		return pos[0], pos[1]
	case <-time.After(50 * time.Millisecond):
		return -1, -1
	}
}

// tryCursorReport attempts to parse a "\x1b[row;colR" sequence assuming
// the leading ESC has already been consumed from src.
func (rd *Reader) tryCursorReport() (consumed int, row, col int, ok bool) {
	b, err := rd.src.Peek(1)
	if err != nil || len(b) == 0 || b[0] != '[' {
		return 0, 0, 0, false
	}

	rd.src.ReadByte()

	var sb strings.Builder

	for {
		c, err := rd.src.ReadByte()
		if err != nil {
			return 0, 0, 0, false
		}

		if c == 'R' {
			break
		}

		sb.WriteByte(c)
	}

	parts := strings.SplitN(sb.String(), ";", 2)
	if len(parts) != 2 {
		return 0, 0, 0, false
	}

	r, err1 := strconv.Atoi(parts[0])
	c, err2 := strconv.Atoi(parts[1])

	if err1 != nil || err2 != nil {
		return 0, 0, 0, false
	}

	return len(parts[0]) + len(parts[1]) + 3, r, c, true
}
