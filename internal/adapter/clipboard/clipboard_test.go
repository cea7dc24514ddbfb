package clipboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("terminal closed")
}

func TestCopier_Copy(t *testing.T) {
	errNoClipboard := errors.New("no clipboard utilities available")

	t.Run("primary succeeds", func(t *testing.T) {
		var got string
		var term bytes.Buffer
		c := &Copier{writeAll: func(s string) error { got = s; return nil }, terminal: &term}

		assert.NoError(t, c.Copy("https://tinyurl.com/abc123"))
		assert.Equal(t, "https://tinyurl.com/abc123", got)
		assert.Zero(t, term.Len())
	})

	t.Run("falls back to terminal", func(t *testing.T) {
		var term bytes.Buffer
		c := &Copier{writeAll: func(string) error { return errNoClipboard }, terminal: &term}

		assert.NoError(t, c.Copy("https://tinyurl.com/abc123"))
		assert.Contains(t, term.String(), base64.StdEncoding.EncodeToString([]byte("https://tinyurl.com/abc123")))
	})

	t.Run("both fail", func(t *testing.T) {
		c := &Copier{writeAll: func(string) error { return errNoClipboard }, terminal: brokenWriter{}}

		err := c.Copy("https://tinyurl.com/abc123")

		assert.ErrorIs(t, err, errNoClipboard)
		assert.ErrorContains(t, err, "terminal closed")
	})

	t.Run("no fallback", func(t *testing.T) {
		c := &Copier{writeAll: func(string) error { return errNoClipboard }}

		assert.ErrorIs(t, c.Copy("x"), errNoClipboard)
	})
}
