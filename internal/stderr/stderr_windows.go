//go:build windows

// Package stderr is a no-op on Windows, whose audio stack does not write to
// the console.
package stderr

import (
	"os"

	"github.com/rs/zerolog"
)

type Capture struct {
	lines chan string
}

func Start(zerolog.Logger) (*Capture, error) {
	return &Capture{lines: make(chan string)}, nil
}

func (c *Capture) Lines() <-chan string { return c.lines }

func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

func (c *Capture) Close() error {
	close(c.lines)
	return nil
}
