package confidence

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// latencySamples labels fast answers correct and slow answers incorrect.
func latencySamples(n int) []Sample {
	out := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		fast := i%2 == 0
		rt := int64(8000)
		if fast {
			rt = 1000
		}
		out = append(out, Sample{
			Features: Features{
				Progress:       withHistory(4000, 1),
				WasCorrect:     fast,
				ResponseTimeMs: rt,
				At:             t0.Add(time.Duration(i) * time.Minute),
			},
			Correct: fast,
		})
	}
	return out
}

func TestModel_NotReadyUntilTrained(t *testing.T) {
	t.Parallel()

	m := NewModel(ModelConfig{MinSamples: 10})
	f := Features{Progress: withHistory(4000, 1), WasCorrect: true, ResponseTimeMs: 1000, At: t0}

	_, err := m.Estimate(f)
	assert.ErrorIs(t, err, ErrModelNotReady)
	assert.False(t, m.Ready())

	require.NoError(t, m.Train(latencySamples(10)))
	assert.True(t, m.Ready())

	got, err := m.Estimate(f)
	require.NoError(t, err)
	assert.Equal(t, SourceLearned, got.Source)
}

func TestModel_LearnsLatency(t *testing.T) {
	t.Parallel()

	m := NewModel(ModelConfig{LearningRate: 0.05, MinSamples: 1})
	require.NoError(t, m.Train(latencySamples(600)))

	fast, err := m.Estimate(Features{Progress: withHistory(4000, 1), WasCorrect: true, ResponseTimeMs: 1000, At: t0})
	require.NoError(t, err)
	slow, err := m.Estimate(Features{Progress: withHistory(4000, 1), WasCorrect: true, ResponseTimeMs: 8000, At: t0})
	require.NoError(t, err)

	assert.Greater(t, fast.Score, slow.Score)
	assert.GreaterOrEqual(t, fast.Level, slow.Level)
}

func TestModel_IncorrectIsAlwaysLevelOne(t *testing.T) {
	t.Parallel()

	m := NewModel(ModelConfig{MinSamples: 1})
	require.NoError(t, m.Train(latencySamples(4)))

	got, err := m.Estimate(Features{Progress: withHistory(4000, 1), WasCorrect: false, ResponseTimeMs: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Level)
	assert.Equal(t, 0.0, got.Score)
}

func TestModel_DivergedStepKeepsOptimizerState(t *testing.T) {
	t.Parallel()

	m := NewModel(ModelConfig{MinSamples: 1})
	require.NoError(t, m.Train(latencySamples(3)))
	before := m.opt

	m.params[NumFeatures] = math.NaN()
	err := m.Train(latencySamples(1))
	require.Error(t, err)

	assert.Equal(t, before, m.opt)
	assert.Equal(t, 3, m.Samples())
}

func TestModel_SnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	m := NewModel(ModelConfig{MinSamples: 5})
	require.NoError(t, m.Train(latencySamples(40)))

	data, err := m.MarshalSnapshot()
	require.NoError(t, err)

	restored := NewModel(ModelConfig{MinSamples: 5})
	require.NoError(t, restored.UnmarshalSnapshot(data))

	f := Features{Progress: withHistory(3000, 2), WasCorrect: true, ResponseTimeMs: 1500, At: t0}
	want, err := m.Estimate(f)
	require.NoError(t, err)
	got, err := restored.Estimate(f)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, m.Snapshot(), restored.Snapshot())
}

func TestModel_RestoreRejectsBadSnapshot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		snap Snapshot
	}{
		{name: "unknown version", snap: Snapshot{Version: 99}},
		{name: "wrong size", snap: Snapshot{Version: ModelVersion, Weights: []float64{1}, M: []float64{1}, V: []float64{1}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewModel(ModelConfig{})
			assert.Error(t, m.Restore(tt.snap))
			assert.Equal(t, 0, m.Samples())
		})
	}

	assert.Error(t, NewModel(ModelConfig{}).UnmarshalSnapshot([]byte("{")))
}

func TestTrainer_Submit(t *testing.T) {
	t.Parallel()

	m := NewModel(ModelConfig{MinSamples: 50})
	tr := NewTrainer(m, zap.NewNop())

	var wg sync.WaitGroup
	for _, s := range latencySamples(50) {
		s := s
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Submit(s)
		}()
	}
	wg.Wait()
	tr.Wait()

	assert.Equal(t, 50, m.Samples())
	assert.True(t, m.Ready())
}
