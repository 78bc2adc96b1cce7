package cache

import (
	"context"
	"sync"

	"github.com/DanRulev/vocadrill/internal/models"
	"github.com/DanRulev/vocadrill/internal/repository"
)

// Cache holds the prompts waiting for an answer, one per user.
type Cache struct {
	mu      sync.Mutex
	prompts map[int64]models.Prompt
}

func NewCache() *Cache {
	return &Cache{
		prompts: make(map[int64]models.Prompt),
	}
}

func (c *Cache) SetPrompt(userID int64, prompt models.Prompt) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts[userID] = prompt
}

func (c *Cache) GetPrompt(userID int64) (models.Prompt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prompt, exists := c.prompts[userID]
	return prompt, exists
}

func (c *Cache) DeletePrompt(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.prompts, userID)
}

// KV is an in-memory repository.KV for ephemeral runs and tests.
type KV struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ repository.KV = (*KV)(nil)

func NewKV() *KV {
	return &KV{data: make(map[string][]byte)}
}

func (k *KV) Get(_ context.Context, key string) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, exists := k.data[key]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (k *KV) Put(_ context.Context, key string, value []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data[key] = append([]byte(nil), value...)
	return nil
}

func (k *KV) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.data, key)
	return nil
}
