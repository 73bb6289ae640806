package platform

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// Console reads command lines from the user on its own goroutine and
// hands them over Lines, so whoever owns the emulated board can run them
// between frames.
type Console struct {
	Lines <-chan string

	out      io.Writer
	fd       int
	oldState *term.State
}

// OpenConsole puts a terminal stdin into raw mode with line editing.
// Piped stdin is read a line at a time instead.
func OpenConsole(prompt string) (*Console, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return newConsole(os.Stdin, os.Stdout), nil
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, prompt)

	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := t.ReadLine()
			if err != nil {
				return
			}
			lines <- line
		}
	}()
	return &Console{Lines: lines, out: t, fd: fd, oldState: oldState}, nil
}

func newConsole(in io.Reader, out io.Writer) *Console {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return &Console{Lines: lines, out: out}
}

// Write prints above the prompt
func (c *Console) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

// Close puts the terminal back the way it was
func (c *Console) Close() error {
	if c.oldState == nil {
		return nil
	}
	err := term.Restore(c.fd, c.oldState)
	c.oldState = nil
	return err
}
