package priority

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DanRulev/vocadrill/internal/models"
	"github.com/DanRulev/vocadrill/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasePriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category models.Category
		want     float64
		wantOK   bool
	}{
		{models.CategoryIncorrect, 100, true},
		{models.CategoryNew, 70, true},
		{models.CategoryStillLearning, 60, true},
		{models.CategoryCorrect, 40, true},
		{models.CategoryMastered, 10, true},
		{models.Category("bogus"), NeutralBase, false},
	}

	for _, tt := range tests {
		got, ok := BasePriority(tt.category)
		assert.Equal(t, tt.want, got, tt.category)
		assert.Equal(t, tt.wantOK, ok, tt.category)
	}
}

func TestCalculator_FirstAnswerIncorrect(t *testing.T) {
	t.Parallel()

	p := progress.NewRecorder(nil).Apply(models.NewWordProgress("w"), models.Answer{
		ItemID:         "w",
		WasCorrect:     false,
		ResponseTimeMs: 3000,
		Timestamp:      t0,
	}, 1, 0)

	c := NewCalculator(Config{})
	b := c.Apply(&p, models.SessionStats{}, t0)

	assert.Equal(t, models.CategoryIncorrect, b.Category)
	assert.Equal(t, 0.0, b.TimeBoost.Boost)
	assert.Equal(t, 100.0, b.Priority)
	assert.Equal(t, 100.0, p.CalculatedPriority)
	assert.Equal(t, 100.0, p.Position)
	assert.Equal(t, EmergencyNone, b.Emergency)
}

func TestCalculator_ApplyCachesUrgency(t *testing.T) {
	t.Parallel()

	c := NewCalculator(Config{})

	failing := stuckProgress(t0)
	failing.IncorrectCount = 5
	failing.ConsecutiveIncorrect = 5
	failing.Category = models.CategoryIncorrect
	c.Apply(&failing, models.SessionStats{}, t0)

	known := models.NewWordProgress("k")
	known.CorrectCount = 4
	known.ConsecutiveCorrect = 4
	known.LastStudied = t0
	known.Category = models.CategoryMastered
	c.Apply(&known, models.SessionStats{}, t0)

	assert.Equal(t, EmergencyPriority, failing.CalculatedPriority)
	assert.Equal(t, 100.0, failing.Position)
	assert.Greater(t, failing.CalculatedPriority, known.CalculatedPriority, "due sooner means higher")
	assert.Greater(t, failing.Position, known.Position)
}

func TestCalculator_Compute(t *testing.T) {
	t.Parallel()

	type args struct {
		progress func() models.WordProgress
		stats    models.SessionStats
	}

	tests := []struct {
		name          string
		args          args
		wantPriority  float64
		wantEmergency EmergencyReason
		wantRejected  []string
	}{
		{
			name: "new item",
			args: args{progress: func() models.WordProgress {
				return models.NewWordProgress("w")
			}},
			wantPriority: 70,
		},
		{
			name: "stuck incorrect item twenty minutes later",
			args: args{progress: func() models.WordProgress {
				p := stuckProgress(t0.Add(-21 * time.Minute))
				p.Category = models.CategoryIncorrect
				return p
			}},
			wantPriority: 100 + 0.5*40,
		},
		{
			name: "confident correct item moves later",
			args: args{progress: func() models.WordProgress {
				p := models.NewWordProgress("w")
				p.CorrectCount = 5
				p.ConsecutiveCorrect = 5
				p.LastStudied = t0
				p.LastConfidenceScore = 0.5
				p.Category = models.CategoryMastered
				return p
			}},
			wantPriority: 0,
		},
		{
			name: "confidence ignored after incorrect answer",
			args: args{progress: func() models.WordProgress {
				p := stuckProgress(t0)
				p.Category = models.CategoryStillLearning
				p.LastConfidenceScore = 0.9
				return p
			}},
			wantPriority: 60,
		},
		{
			name: "out of range confidence is neutral",
			args: args{progress: func() models.WordProgress {
				p := models.NewWordProgress("w")
				p.CorrectCount = 1
				p.ConsecutiveCorrect = 1
				p.LastStudied = t0
				p.Category = models.CategoryStillLearning
				p.LastConfidenceScore = 1.7
				return p
			}},
			wantPriority: 60,
			wantRejected: []string{"confidence"},
		},
		{
			name: "unknown category uses neutral base",
			args: args{progress: func() models.WordProgress {
				p := models.NewWordProgress("w")
				p.Category = models.Category("bogus")
				return p
			}},
			wantPriority: NeutralBase,
			wantRejected: []string{"category"},
		},
		{
			name: "long incorrect streak",
			args: args{progress: func() models.WordProgress {
				p := stuckProgress(t0)
				p.IncorrectCount = 5
				p.ConsecutiveIncorrect = 5
				p.Category = models.CategoryIncorrect
				return p
			}},
			wantPriority:  EmergencyPriority,
			wantEmergency: EmergencyIncorrectStreak,
		},
		{
			name: "cognitive overload",
			args: args{progress: func() models.WordProgress {
				p := stuckProgress(t0)
				p.IncorrectCount = 3
				p.ConsecutiveIncorrect = 3
				p.AverageResponseTime = 20000
				p.Category = models.CategoryIncorrect
				return p
			}},
			wantPriority:  EmergencyPriority,
			wantEmergency: EmergencyCognitiveOverload,
		},
		{
			name: "fatigued session pins a failing item",
			args: args{
				progress: func() models.WordProgress {
					p := stuckProgress(t0)
					p.Category = models.CategoryIncorrect
					return p
				},
				stats: fatiguedSession(),
			},
			wantPriority:  EmergencyPriority,
			wantEmergency: EmergencyCognitiveOverload,
		},
		{
			name: "fatigued session leaves a recalled item alone",
			args: args{
				progress: func() models.WordProgress {
					p := models.NewWordProgress("w")
					p.CorrectCount = 1
					p.ConsecutiveCorrect = 1
					p.LastStudied = t0
					p.Category = models.CategoryStillLearning
					return p
				},
				stats: fatiguedSession(),
			},
			wantPriority: 60,
		},
		{
			name: "slow session without a wrong streak is not fatigued",
			args: args{
				progress: func() models.WordProgress {
					p := stuckProgress(t0)
					p.Category = models.CategoryIncorrect
					return p
				},
				stats: models.SessionStats{IncorrectStreak: 1, Answered: 4, TimedAnswers: 4, TotalResponseMs: 80000},
			},
			wantPriority: 100,
		},
		{
			name: "high forgetting risk",
			args: args{progress: func() models.WordProgress {
				p := models.NewWordProgress("w")
				p.CorrectCount = 3
				p.ConsecutiveCorrect = 3
				p.LastStudied = t0.Add(-60 * 24 * time.Hour)
				p.ForgettingCurve.BaseRetention = 0.2
				p.Category = models.CategoryMastered
				return p
			}},
			wantPriority:  EmergencyPriority,
			wantEmergency: EmergencyForgettingRisk,
		},
	}

	c := NewCalculator(Config{})
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := c.Compute(tt.args.progress(), tt.args.stats, t0)
			assert.InDelta(t, tt.wantPriority, got.Priority, 1e-9)
			assert.Equal(t, tt.wantEmergency, got.Emergency)
			assert.Equal(t, tt.wantRejected, got.Rejected)
			assert.GreaterOrEqual(t, got.Position, 0.0)
			assert.LessOrEqual(t, got.Position, 100.0)
		})
	}
}

func fatiguedSession() models.SessionStats {
	return models.SessionStats{IncorrectStreak: 3, Answered: 3, TimedAnswers: 3, TotalResponseMs: 60000}
}

func TestCalculator_Fatigued(t *testing.T) {
	t.Parallel()

	c := NewCalculator(Config{})
	assert.False(t, c.Fatigued(models.SessionStats{}))
	assert.True(t, c.Fatigued(fatiguedSession()))
	assert.False(t, c.Fatigued(models.SessionStats{IncorrectStreak: 3, Answered: 3, TimedAnswers: 3, TotalResponseMs: 9000}), "fast answers")

	strict := NewCalculator(Config{OverloadIncorrectStreak: 5})
	assert.False(t, strict.Fatigued(fatiguedSession()))
}

func TestCalculator_RecomputeAfterRoundTrip(t *testing.T) {
	t.Parallel()

	r := progress.NewRecorder(nil)
	c := NewCalculator(Config{})
	p := models.NewWordProgress("w")
	for i, ok := range []bool{true, false, true, true, false, true} {
		p = r.Apply(p, models.Answer{
			ItemID:         "w",
			WasCorrect:     ok,
			ResponseTimeMs: 2500,
			Timestamp:      t0.Add(time.Duration(i) * time.Minute),
		}, 4, 0.7)
	}
	now := t0.Add(40 * time.Minute)
	want := c.Apply(&p, models.SessionStats{}, now)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var restored models.WordProgress
	require.NoError(t, json.Unmarshal(raw, &restored))
	restored.CalculatedPriority = 0
	restored.Position = 0
	restored.Category = progress.Classify(restored)

	got := c.Apply(&restored, models.SessionStats{}, now)
	assert.Equal(t, want.Priority, got.Priority)
	assert.Equal(t, p.Category, restored.Category)
	assert.Equal(t, p.Position, restored.Position)
}

func TestValidateConfidence(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateConfidence(0))
	assert.NoError(t, ValidateConfidence(1))
	assert.True(t, errors.Is(ValidateConfidence(-0.1), ErrInvalidSignal))
	assert.True(t, errors.Is(ValidateConfidence(1.01), ErrInvalidSignal))
}
