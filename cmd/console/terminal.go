//go:build linux || darwin

package main

import (
	"fmt"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// terminal switches the input terminal between canonical and raw mode.
type terminal struct {
	input  *os.File
	output *os.File

	canAttr unix.Termios
	rawAttr unix.Termios
}

func newTerminal(input, output *os.File) (*terminal, error) {
	t := &terminal{
		input:  input,
		output: output,
	}
	if err := termios.Tcgetattr(input.Fd(), &t.canAttr); err != nil {
		return nil, fmt.Errorf("reading terminal attributes: %w", err)
	}
	t.rawAttr = t.canAttr
	termios.Cfmakeraw(&t.rawAttr)
	return t, nil
}

// RawMode puts terminal into raw mode
func (t *terminal) RawMode() error {
	if err := termios.Tcsetattr(t.input.Fd(), termios.TCIFLUSH, &t.rawAttr); err != nil {
		return err
	}
	_, err := t.output.WriteString(hideCursor + clearScreen)
	return err
}

// CanonicalMode puts terminal into normal, everyday canonical mode
func (t *terminal) CanonicalMode() error {
	if _, err := t.output.WriteString(showCursor + "\r\n"); err != nil {
		return err
	}
	return termios.Tcsetattr(t.input.Fd(), termios.TCIFLUSH, &t.canAttr)
}

// readKeys sends every byte read from the terminal to keys until reading
// fails.
func (t *terminal) readKeys(keys chan<- byte) {
	buf := make([]byte, 16)
	for {
		n, err := t.input.Read(buf)
		if err != nil {
			close(keys)
			return
		}
		for _, b := range buf[:n] {
			keys <- b
		}
	}
}
