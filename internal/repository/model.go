package repository

import (
	"context"
	"fmt"
)

const (
	modelKey             = "confidence_model"
	defaultModelMaxBytes = 64 * 1024
)

type ModelR struct {
	kv       KV
	maxBytes int
}

func NewModelRepository(kv KV, maxBytes int) *ModelR {
	if maxBytes <= 0 {
		maxBytes = defaultModelMaxBytes
	}
	return &ModelR{kv: kv, maxBytes: maxBytes}
}

// LoadModel returns the serialized model weights or ErrNotFound.
func (m *ModelR) LoadModel(ctx context.Context) ([]byte, error) {
	return m.kv.Get(ctx, modelKey)
}

// SaveModel stores serialized weights. Oversized data is rejected whole and
// the stored copy is left untouched.
func (m *ModelR) SaveModel(ctx context.Context, data []byte) error {
	if len(data) > m.maxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrBlobTooLarge, len(data), m.maxBytes)
	}

	return m.kv.Put(ctx, modelKey, data)
}
