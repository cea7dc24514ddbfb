// Package clipboard copies text to the system clipboard, falling back to an
// OSC 52 terminal sequence when no clipboard utility is available.
package clipboard

import (
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Copier tries the system clipboard first, then the terminal.
type Copier struct {
	writeAll func(string) error
	terminal io.Writer
}

// New creates a Copier whose fallback writes to terminal (usually os.Stderr).
// A nil terminal disables the fallback.
func New(terminal io.Writer) *Copier {
	return &Copier{
		writeAll: clipboard.WriteAll,
		terminal: terminal,
	}
}

// Copy places text on the clipboard.
func (c *Copier) Copy(text string) error {
	const op = "adapter.clipboard.Copier.Copy"

	primaryErr := c.writeAll(text)
	if primaryErr == nil {
		return nil
	}

	if c.terminal == nil {
		return fmt.Errorf("%s: %w", op, primaryErr)
	}

	if _, err := osc52.New(text).WriteTo(c.terminal); err != nil {
		return fmt.Errorf("%s: %w", op, errors.Join(primaryErr, err))
	}

	return nil
}
