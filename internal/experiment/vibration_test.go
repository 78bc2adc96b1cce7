package experiment

import (
	"testing"

	"github.com/DanRulev/vocadrill/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestVibrationGuard_Evaluate(t *testing.T) {
	t.Parallel()

	type args struct {
		score               float64
		consecutiveCritical int
	}

	tests := []struct {
		name           string
		args           args
		wantLevel      Level
		wantFallback   bool
		wantSwitch     bool
		wantAction     models.RecommendedAction
		wantFallbackLn int
	}{
		{name: "good", args: args{score: 30}, wantLevel: LevelGood, wantAction: models.ActionNone},
		{name: "warning", args: args{score: 40}, wantLevel: LevelWarning, wantAction: models.ActionNone},
		{
			name:           "first critical session",
			args:           args{score: 55, consecutiveCritical: 1},
			wantLevel:      LevelCritical,
			wantFallback:   true,
			wantAction:     models.ActionShorterSession,
			wantFallbackLn: 10,
		},
		{
			name:           "second consecutive critical session",
			args:           args{score: 55, consecutiveCritical: 2},
			wantLevel:      LevelCritical,
			wantFallback:   true,
			wantSwitch:     true,
			wantAction:     models.ActionSwitchToBaseline,
			wantFallbackLn: 10,
		},
		{
			name:       "high count but healthy score",
			args:       args{score: 10, consecutiveCritical: 5},
			wantLevel:  LevelGood,
			wantAction: models.ActionNone,
		},
	}

	g := NewVibrationGuard(VibrationConfig{})
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := g.Evaluate(tt.args.score, tt.args.consecutiveCritical)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantFallback, got.ShouldFallback)
			assert.Equal(t, tt.wantSwitch, got.ShouldSwitchToBaseline)
			assert.Equal(t, tt.wantAction, got.Action())
			assert.Equal(t, tt.wantFallbackLn, got.FallbackLength)
		})
	}
}

func TestVibrationScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sequence []string
		window   int
		want     float64
	}{
		{name: "empty", sequence: nil, window: 3, want: 0},
		{name: "no repeats", sequence: []string{"a", "b", "c"}, window: 3, want: 0},
		{name: "immediate repeat", sequence: []string{"a", "a"}, window: 3, want: 100},
		{name: "repeat outside window", sequence: []string{"a", "b", "c", "a"}, window: 3, want: 0},
		{name: "half close", sequence: []string{"a", "b", "a", "c", "d", "e", "b"}, window: 3, want: 50},
		{name: "repeat two slots later counts", sequence: []string{"a", "b", "a"}, window: 3, want: 100},
		{name: "default window", sequence: []string{"a", "b", "a"}, window: NewVibrationGuard(VibrationConfig{}).Config().Window, want: 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, VibrationScore(tt.sequence, tt.window))
		})
	}
}
