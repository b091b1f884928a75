package history

import (
	"bufio"
	"os"
	"path/filepath"
)

// fileHistory is a newline-delimited file-backed Source: every accepted
// line is appended to disk immediately so history survives a crash.
type fileHistory struct {
	path  string
	lines []string
}

// openHist opens (creating if absent) the history file at path and loads
// its existing lines into memory.
func openHist(path string) (*fileHistory, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := &fileHistory{path: path}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		h.lines = append(h.lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return h, nil
}

func (h *fileHistory) Len() int {
	return len(h.lines)
}

func (h *fileHistory) GetLine(pos int) (string, error) {
	if pos < 0 || pos >= len(h.lines) {
		return "", errOutOfRange(pos, len(h.lines))
	}

	return h.lines[pos], nil
}

func (h *fileHistory) Write(line string) (int, error) {
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return 0, err
	}

	h.lines = append(h.lines, line)

	return len(h.lines) - 1, nil
}
