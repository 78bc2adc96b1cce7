package history

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing_Append(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		capacity int
		values   []int
		want     []int
	}{
		{
			name:     "empty",
			capacity: 3,
			want:     []int{},
		},
		{
			name:     "below capacity",
			capacity: 3,
			values:   []int{1, 2},
			want:     []int{1, 2},
		},
		{
			name:     "drops oldest",
			capacity: 3,
			values:   []int{1, 2, 3, 4, 5},
			want:     []int{3, 4, 5},
		},
		{
			name:     "zero capacity keeps one",
			capacity: 0,
			values:   []int{1, 2},
			want:     []int{2},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewRing[int](tt.capacity)
			for _, v := range tt.values {
				r.Append(v)
			}

			assert.Equal(t, tt.want, r.Items())
			assert.Equal(t, len(tt.want), r.Len())
		})
	}
}

func TestRing_ItemsIsCopy(t *testing.T) {
	t.Parallel()

	r := NewRing[string](2)
	r.Append("a")

	items := r.Items()
	items[0] = "changed"

	require.Equal(t, []string{"a"}, r.Items())
}

func TestRing_ConcurrentAppend(t *testing.T) {
	t.Parallel()

	r := NewRing[int](10)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			r.Append(v)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, r.Len())
	assert.Equal(t, 10, r.Cap())
}
