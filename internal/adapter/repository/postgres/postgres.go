package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

type KVRepository struct {
	db *sqlx.DB
}

func NewKVRepository(db *sqlx.DB) *KVRepository {
	return &KVRepository{db: db}
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "adapter.repository.postgres.KVRepository.Get"
	const query = `SELECT value FROM kv_store WHERE key = $1`

	var value []byte

	if err := r.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrKeyNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from kv_store table: %w", op, err)
	}

	return value, nil
}

func (r *KVRepository) Put(ctx context.Context, key string, value []byte) error {
	const op = "adapter.repository.postgres.KVRepository.Put"
	const query = `INSERT INTO kv_store(key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("%s: failed to upsert into kv_store table: %w", op, err)
	}

	return nil
}
