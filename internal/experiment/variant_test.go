package experiment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssigner_Assign(t *testing.T) {
	t.Parallel()

	a := NewAssigner(nil)
	counts := make(map[string]int)
	for i := 0; i < 300; i++ {
		id := fmt.Sprintf("session-%d", i)
		v := a.Assign(id)
		assert.Equal(t, v, a.Assign(id), "assignment must be stable")
		assert.Equal(t, v, AssignVariant(id))
		counts[v]++
	}

	for _, v := range DefaultVariants {
		assert.Greater(t, counts[v], 0, v)
	}
}

func TestAssigner_SingleVariant(t *testing.T) {
	t.Parallel()

	a := NewAssigner([]string{"only"})
	assert.Equal(t, "only", a.Assign("anything"))
	assert.Equal(t, []string{"only"}, a.Variants())
}
