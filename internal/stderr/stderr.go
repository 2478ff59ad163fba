//go:build !windows

// Package stderr captures what native audio code writes straight to file
// descriptor 2, which would otherwise corrupt the terminal UI.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

const bufferedLines = 100

// Capture redirects fd 2 into a pipe until Close.
type Capture struct {
	log   zerolog.Logger
	lines chan string
	done  chan struct{}
	orig  int
	r, w  *os.File
}

// Start redirects fd 2. Call it before the audio output is initialised.
// Every captured line is logged and offered on Lines; lines nobody reads
// are dropped.
func Start(log zerolog.Logger) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, errors.Wrap(err, "create pipe")
	}

	fd := int(os.Stderr.Fd())
	orig, err := syscall.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, errors.Wrap(err, "dup stderr")
	}
	if err := syscall.Dup2(int(w.Fd()), fd); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, errors.Wrap(err, "redirect stderr")
	}

	c := &Capture{
		log:   log,
		lines: make(chan string, bufferedLines),
		done:  make(chan struct{}),
		orig:  orig,
		r:     r,
		w:     w,
	}
	go c.read()
	return c, nil
}

func (c *Capture) read() {
	defer close(c.done)
	defer close(c.lines)
	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c.log.Warn().Str("stderr", line).Msg("captured native output")
		select {
		case c.lines <- line:
		default:
		}
	}
}

// Lines delivers the captured lines. It is closed by Close.
func (c *Capture) Lines() <-chan string { return c.lines }

// WriteOriginal writes msg to the terminal's stderr, bypassing the capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = syscall.Write(c.orig, []byte(msg))
}

// Close restores fd 2 and waits for the pending lines to be read.
func (c *Capture) Close() error {
	err := syscall.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = syscall.Close(c.orig)
	c.w.Close()
	<-c.done
	c.r.Close()
	return errors.Wrap(err, "restore stderr")
}
