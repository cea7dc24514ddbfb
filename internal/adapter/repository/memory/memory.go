// Package memory provides a process-local key-value storage.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vadimbarashkov/shortlink/internal/entity"
)

// KVRepository keeps values in a map. Values are copied on the way in and out.
type KVRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewKVRepository() *KVRepository {
	return &KVRepository{data: make(map[string][]byte)}
}

func (r *KVRepository) Get(_ context.Context, key string) ([]byte, error) {
	const op = "adapter.repository.memory.KVRepository.Get"

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrKeyNotFound)
	}

	return append([]byte(nil), v...), nil
}

func (r *KVRepository) Put(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = append([]byte(nil), value...)

	return nil
}
