package edit

import "errors"

// ErrEOF is returned by Readline when end-of-file is signaled on an
// empty line (Ctrl-D in emacs mode, or input closing outright).
var ErrEOF = errors.New("edit: end of file")

// ErrInterrupted is returned by Readline when the line is cancelled
// (Ctrl-C). The partial buffer at the time of cancellation is still
// returned alongside the error, for callers that want to display or
// log it.
var ErrInterrupted = errors.New("edit: interrupted")
