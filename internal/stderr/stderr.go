//go:build !windows

// Package stderr captures output that C audio libraries (ALSA, oto) write
// straight to file descriptor 2, so it can't corrupt the terminal screen.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"
)

// Capture redirects fd 2 into a pipe until Stop is called.
type Capture struct {
	orig  int
	read  *os.File
	write *os.File
	lines chan string
	done  chan struct{}
}

// Start begins capturing stderr. It must run before the audio device is
// opened. On error stderr is left untouched and the program can carry on.
func Start() (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{
		orig:  orig,
		read:  r,
		write: w,
		lines: make(chan string, 100),
		done:  make(chan struct{}),
	}
	go c.pump()
	return c, nil
}

func (c *Capture) pump() {
	defer close(c.done)
	defer close(c.lines)

	scanner := bufio.NewScanner(c.read)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case c.lines <- line:
		default:
			// nobody is reading; drop rather than block the writer
		}
	}
}

// Lines delivers captured lines. It is closed after Stop.
func (c *Capture) Lines() <-chan string {
	return c.lines
}

// WriteOriginal writes to the real stderr, bypassing the capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = syscall.Write(c.orig, []byte(msg))
}

// Stop restores the original stderr and waits for buffered lines to drain.
func (c *Capture) Stop() {
	_ = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = syscall.Close(c.orig)

	c.write.Close()
	<-c.done
	c.read.Close()
}
