package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

func TestKVRepository(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	repo, err := NewKVRepository(dir)
	require.NoError(t, err)

	t.Run("missing key", func(t *testing.T) {
		_, err := repo.Get(ctx, "shortlink:history")

		assert.ErrorIs(t, err, entity.ErrKeyNotFound)
	})

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, "shortlink:history", []byte(`[1]`)))
		require.NoError(t, repo.Put(ctx, "shortlink:history", []byte(`[2]`)))

		got, err := repo.Get(ctx, "shortlink:history")

		assert.NoError(t, err)
		assert.Equal(t, []byte(`[2]`), got)
	})

	t.Run("no temp files left", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)

		assert.Len(t, entries, 1)
		assert.Equal(t, "shortlink:history.json", entries[0].Name())
	})
}
