package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Console prompts on a terminal and waits for a line of input.
type Console struct {
	in          io.Reader
	out         io.Writer
	interactive bool
}

// NewConsole builds a console over in. When in is not a terminal the prompt
// still waits for a line, so input can be piped in by scripts.
func NewConsole(in *os.File, out io.Writer) *Console {
	if out == nil {
		out = io.Discard
	}
	return &Console{
		in:          in,
		out:         out,
		interactive: in != nil && term.IsTerminal(int(in.Fd())),
	}
}

// Interactive reports whether the console reads from a terminal.
func (c *Console) Interactive() bool { return c.interactive }

// WaitForEnter prints msg and blocks until a line is read or ctx is done.
// End of input counts as confirmation.
func (c *Console) WaitForEnter(ctx context.Context, msg string) error {
	fmt.Fprintln(c.out, msg)
	if c.in == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(c.in).ReadString('\n')
		if errors.Is(err, io.EOF) {
			err = nil
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
