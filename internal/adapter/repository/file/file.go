// Package file stores each key as a JSON document inside a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/vadimbarashkov/shortlink/internal/entity"
)

// KVRepository maps a key to <dir>/<escaped key>.json. Writes go through a
// temporary file and a rename so a crash never leaves a half-written value.
type KVRepository struct {
	dir string
}

func NewKVRepository(dir string) (*KVRepository, error) {
	const op = "adapter.repository.file.NewKVRepository"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: failed to create storage dir: %w", op, err)
	}

	return &KVRepository{dir: dir}, nil
}

func (r *KVRepository) path(key string) string {
	return filepath.Join(r.dir, url.PathEscape(key)+".json")
}

func (r *KVRepository) Get(_ context.Context, key string) ([]byte, error) {
	const op = "adapter.repository.file.KVRepository.Get"

	data, err := os.ReadFile(r.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrKeyNotFound)
		}

		return nil, fmt.Errorf("%s: failed to read file: %w", op, err)
	}

	return data, nil
}

func (r *KVRepository) Put(_ context.Context, key string, value []byte) error {
	const op = "adapter.repository.file.KVRepository.Put"

	f, err := os.CreateTemp(r.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%s: failed to create temp file: %w", op, err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(value); err != nil {
		f.Close()
		return fmt.Errorf("%s: failed to write temp file: %w", op, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: failed to close temp file: %w", op, err)
	}

	if err := os.Rename(f.Name(), r.path(key)); err != nil {
		return fmt.Errorf("%s: failed to replace file: %w", op, err)
	}

	return nil
}
