package experiment

import "github.com/DanRulev/vocadrill/internal/models"

// Level is the health classification of a guard metric.
type Level string

const (
	LevelGood     Level = "good"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// VibrationConfig holds the vibration thresholds. Zero values are replaced with defaults.
type VibrationConfig struct {
	GoodMax        float64 `mapstructure:"good_max" validate:"gte=0,lte=100"`    // default 30
	WarningMax     float64 `mapstructure:"warning_max" validate:"gte=0,lte=100"` // default 40
	SwitchAfter    int     `mapstructure:"switch_after" validate:"gte=0"`        // default 2
	FallbackLength int     `mapstructure:"fallback_length" validate:"gte=0"`     // default 10

	// Window is the distance below which a repeat counts as vibration. It is
	// one above the requeue floor of 2, so the floor placements forced by a
	// nearly empty queue register here and can trigger the fallback session.
	Window int `mapstructure:"window" validate:"gte=0"` // default 3
}

func (c VibrationConfig) withDefaults() VibrationConfig {
	if c.GoodMax == 0 {
		c.GoodMax = 30
	}
	if c.WarningMax == 0 {
		c.WarningMax = 40
	}
	if c.SwitchAfter == 0 {
		c.SwitchAfter = 2
	}
	if c.FallbackLength == 0 {
		c.FallbackLength = 10
	}
	if c.Window == 0 {
		c.Window = 3
	}
	return c
}

// VibrationResult is the guard's verdict for one score.
type VibrationResult struct {
	Score                  float64 `json:"score"`
	Level                  Level   `json:"level"`
	ShouldFallback         bool    `json:"shouldFallback"`
	ShouldSwitchToBaseline bool    `json:"shouldSwitchToBaseline"`
	FallbackLength         int     `json:"fallbackLength,omitempty"`
}

// Action converts the verdict into the advisory surfaced to the caller.
func (r VibrationResult) Action() models.RecommendedAction {
	switch {
	case r.ShouldSwitchToBaseline:
		return models.ActionSwitchToBaseline
	case r.ShouldFallback:
		return models.ActionShorterSession
	}
	return models.ActionNone
}

// VibrationGuard classifies vibration scores.
type VibrationGuard struct {
	cfg VibrationConfig
}

func NewVibrationGuard(cfg VibrationConfig) *VibrationGuard {
	return &VibrationGuard{cfg: cfg.withDefaults()}
}

func (g *VibrationGuard) Config() VibrationConfig {
	return g.cfg
}

// Classify returns the level of score.
func (g *VibrationGuard) Classify(score float64) Level {
	switch {
	case score <= g.cfg.GoodMax:
		return LevelGood
	case score <= g.cfg.WarningMax:
		return LevelWarning
	}
	return LevelCritical
}

// Evaluate classifies score. consecutiveCritical is the number of consecutive
// critical sessions on the variant, counting the one being evaluated.
func (g *VibrationGuard) Evaluate(score float64, consecutiveCritical int) VibrationResult {
	res := VibrationResult{Score: score, Level: g.Classify(score)}
	if res.Level != LevelCritical {
		return res
	}
	res.ShouldFallback = true
	res.FallbackLength = g.cfg.FallbackLength
	res.ShouldSwitchToBaseline = consecutiveCritical >= g.cfg.SwitchAfter
	return res
}

// Score computes the vibration score over sequence with the configured window.
func (g *VibrationGuard) Score(sequence []string) float64 {
	return VibrationScore(sequence, g.cfg.Window)
}

// VibrationScore returns, as a percentage, how many repeat presentations in
// sequence come fewer than window positions after the previous presentation
// of the same item. A sequence without repeats scores 0.
func VibrationScore(sequence []string, window int) float64 {
	last := make(map[string]int, len(sequence))
	repeats, near := 0, 0
	for i, id := range sequence {
		if prev, ok := last[id]; ok {
			repeats++
			if i-prev < window {
				near++
			}
		}
		last[id] = i
	}
	if repeats == 0 {
		return 0
	}
	return 100 * float64(near) / float64(repeats)
}
