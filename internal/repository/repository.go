package repository

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("repository: not found")
	ErrBlobTooLarge = errors.New("repository: blob too large")
)

type QueryI interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// KV is the durable key-value contract every typed store is built on.
// Get returns ErrNotFound for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type Limits struct {
	SessionLogCapacity int
	ModelMaxBytes      int
}

type Repository struct {
	*ProgressR
	*SessionLogR
	*GuardR
	*ModelR
}

func NewRepository(kv KV, limits Limits, log *zap.Logger) Repository {
	return Repository{
		ProgressR:   NewProgressRepository(kv, log),
		SessionLogR: NewSessionLogRepository(kv, limits.SessionLogCapacity),
		GuardR:      NewGuardRepository(kv),
		ModelR:      NewModelRepository(kv, limits.ModelMaxBytes),
	}
}
