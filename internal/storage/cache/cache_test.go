package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DanRulev/vocadrill/internal/models"
	"github.com/DanRulev/vocadrill/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Prompt(t *testing.T) {
	t.Parallel()

	c := NewCache()
	_, ok := c.GetPrompt(1)
	assert.False(t, ok)

	p := models.Prompt{UserID: 1, Item: models.Item{ID: "apple"}, SentAt: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}
	c.SetPrompt(1, p)

	got, ok := c.GetPrompt(1)
	require.True(t, ok)
	assert.Equal(t, p, got)

	c.DeletePrompt(1)
	_, ok = c.GetPrompt(1)
	assert.False(t, ok)
}

func TestKV(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewKV()

	_, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	value := []byte("v1")
	require.NoError(t, kv.Put(ctx, "k", value))
	value[0] = 'x'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got, "stored value is a copy")

	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestKV_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewKV()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = kv.Put(ctx, "k", []byte("v"))
			_, _ = kv.Get(ctx, "k")
		}()
	}
	wg.Wait()

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
