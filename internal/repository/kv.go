package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type KVR struct {
	db  QueryI
	now func() time.Time
}

func NewKVRepository(db QueryI) *KVR {
	return &KVR{db: db, now: time.Now}
}

func (k *KVR) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT payload FROM kv_store WHERE item_key = $1`

	var payload string
	err := k.db.GetContext(ctx, &payload, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return []byte(payload), nil
}

func (k *KVR) Put(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO kv_store (item_key, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_key)
		DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
		`
	_, err := k.db.ExecContext(ctx, query, key, string(value), k.now().UTC())
	if err != nil {
		return err
	}

	return nil
}

func (k *KVR) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE item_key = $1`

	_, err := k.db.ExecContext(ctx, query, key)
	if err != nil {
		return err
	}

	return nil
}
