//go:build windows

// Package stderr is a no-op on Windows, where the audio backend doesn't
// write to the console.
package stderr

import "os"

type Capture struct {
	lines chan string
}

func Start() (*Capture, error) {
	return &Capture{lines: make(chan string)}, nil
}

func (c *Capture) Lines() <-chan string { return c.lines }

func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

func (c *Capture) Stop() {
	close(c.lines)
}
