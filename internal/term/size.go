package term

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

const defaultWidth = 80

// GetWidth returns the current terminal width in columns, falling back
// to defaultWidth if stdout is not a terminal or the ioctl fails (a
// piped/redirected stdout, or a test harness with no controlling tty).
func GetWidth() int {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return defaultWidth
	}

	return int(ws.Col)
}

// GetSize returns the current terminal width and height in columns and
// rows, with the same fallback as GetWidth.
func GetSize() (width, height int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return defaultWidth, 24
	}

	return int(ws.Col), int(ws.Row)
}

// NotifyResize registers ch to receive a value every time the
// controlling terminal's size changes (SIGWINCH), and returns a stop
// function that unregisters it.
func NotifyResize(ch chan<- struct{}) (stop func()) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGWINCH)

	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-sig:
				select {
				case ch <- struct{}{}:
				default:
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sig)
		close(done)
	}
}
