// Package priority holds the canonical composite priority formula shared by
// the scheduler and the explanation views:
//
//	priority = base(category) + wT·timeBoost − wC·confidence
//
// Priority is expressed in urgency points: the higher the value, the sooner
// the item is due. The confidence term only applies to items whose latest
// answer was correct. Emergency conditions pin an item to EmergencyPriority.
// The session tally feeds the cognitive-overload condition: a fatigued
// session pins every item whose latest answer was wrong.
package priority

import (
	"errors"
	"math"
	"time"

	"github.com/DanRulev/vocadrill/internal/forgetting"
	"github.com/DanRulev/vocadrill/internal/models"
	"github.com/DanRulev/vocadrill/pkg/validator"
)

const (
	// EmergencyPriority is assigned to items under an emergency override.
	EmergencyPriority = 1000.0

	// NeutralBase replaces the base priority of an unrecognized category.
	NeutralBase = 50.0

	maxPosition = 100.0
)

// ErrInvalidSignal marks a signal rejected by validation.
var ErrInvalidSignal = errors.New("priority: invalid signal")

var basePriority = map[models.Category]float64{
	models.CategoryIncorrect:     100,
	models.CategoryNew:           70,
	models.CategoryStillLearning: 60,
	models.CategoryCorrect:       40,
	models.CategoryMastered:      10,
}

// BasePriority returns the fixed base priority of c and whether c was recognized.
func BasePriority(c models.Category) (float64, bool) {
	v, ok := basePriority[c]
	if !ok {
		return NeutralBase, false
	}
	return v, true
}

// EmergencyReason names the condition that triggered an override.
type EmergencyReason string

const (
	EmergencyNone              EmergencyReason = ""
	EmergencyForgettingRisk    EmergencyReason = "forgetting_risk"
	EmergencyIncorrectStreak   EmergencyReason = "incorrect_streak"
	EmergencyCognitiveOverload EmergencyReason = "cognitive_overload"
)

// Config holds the weights and thresholds of the formula.
// Zero values are replaced with defaults.
type Config struct {
	TimeBoostWeight          float64 `mapstructure:"time_boost_weight" validate:"gte=0"`          // default 0.5
	ConfidenceWeight         float64 `mapstructure:"confidence_weight" validate:"gte=0"`          // default 20
	EmergencyRisk            int     `mapstructure:"emergency_risk" validate:"gte=0,lte=100"`     // default 75
	EmergencyIncorrectStreak int     `mapstructure:"emergency_incorrect_streak" validate:"gte=0"` // default 5
	OverloadIncorrectStreak  int     `mapstructure:"overload_incorrect_streak" validate:"gte=0"`  // default 3
	OverloadLatencyMs        float64 `mapstructure:"overload_latency_ms" validate:"gte=0"`        // default 15000
}

func (c Config) withDefaults() Config {
	if c.TimeBoostWeight == 0 {
		c.TimeBoostWeight = 0.5
	}
	if c.ConfidenceWeight == 0 {
		c.ConfidenceWeight = 20
	}
	if c.EmergencyRisk == 0 {
		c.EmergencyRisk = 75
	}
	if c.EmergencyIncorrectStreak == 0 {
		c.EmergencyIncorrectStreak = 5
	}
	if c.OverloadIncorrectStreak == 0 {
		c.OverloadIncorrectStreak = 3
	}
	if c.OverloadLatencyMs == 0 {
		c.OverloadLatencyMs = 15000
	}
	return c
}

// Breakdown is the itemized result of the formula for one item.
type Breakdown struct {
	ItemID         string                `json:"itemId"`
	Category       models.Category       `json:"category"`
	Base           float64               `json:"base"`
	TimeBoost      TimeBoost             `json:"timeBoost"`
	TimeTerm       float64               `json:"timeTerm"`
	ConfidenceTerm float64               `json:"confidenceTerm"`
	Retention      forgetting.Prediction `json:"retention"`
	Emergency      EmergencyReason       `json:"emergency,omitempty"`
	SessionFatigue bool                  `json:"sessionFatigue,omitempty"`
	Rejected       []string              `json:"rejected,omitempty"`
	Priority       float64               `json:"priority"`
	Position       float64               `json:"position"`
}

// Calculator evaluates the composite formula.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a Calculator, filling zero config values with defaults.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// Compute evaluates the formula for p at now within the session described by
// stats. Rejected signals contribute a neutral value and are listed in
// Breakdown.Rejected.
func (c *Calculator) Compute(p models.WordProgress, stats models.SessionStats, now time.Time) Breakdown {
	b := Breakdown{
		ItemID:         p.ItemID,
		Category:       p.Category,
		TimeBoost:      CalculateTimeBasedPriority(p, now),
		Retention:      forgetting.PredictRetention(p, now),
		SessionFatigue: c.Fatigued(stats),
	}

	base, ok := BasePriority(p.Category)
	if !ok || validateCategory(p.Category) != nil {
		b.Rejected = append(b.Rejected, "category")
	}
	b.Base = base

	if err := ValidateBoost(b.TimeBoost.Boost); err != nil {
		b.Rejected = append(b.Rejected, "time_boost")
	} else {
		b.TimeTerm = c.cfg.TimeBoostWeight * b.TimeBoost.Boost
	}

	if p.ConsecutiveCorrect > 0 {
		if err := ValidateConfidence(p.LastConfidenceScore); err != nil {
			b.Rejected = append(b.Rejected, "confidence")
		} else {
			b.ConfidenceTerm = c.cfg.ConfidenceWeight * p.LastConfidenceScore
		}
	}

	b.Emergency = c.emergency(p, b.Retention, b.SessionFatigue)
	if b.Emergency != EmergencyNone {
		b.Priority = EmergencyPriority
		b.Position = maxPosition
		return b
	}

	b.Priority = math.Max(b.Base+b.TimeTerm-b.ConfidenceTerm, 0)
	b.Position = math.Min(b.Priority, maxPosition)
	return b
}

// Apply computes the formula and caches priority and position on p.
func (c *Calculator) Apply(p *models.WordProgress, stats models.SessionStats, now time.Time) Breakdown {
	b := c.Compute(*p, stats, now)
	p.CalculatedPriority = b.Priority
	p.Position = b.Position
	return b
}

// Fatigued reports whether the session shows cognitive overload: a run of
// wrong answers given slowly on average.
func (c *Calculator) Fatigued(stats models.SessionStats) bool {
	return stats.IncorrectStreak >= c.cfg.OverloadIncorrectStreak &&
		stats.AverageResponseMs() >= c.cfg.OverloadLatencyMs
}

func (c *Calculator) emergency(p models.WordProgress, pred forgetting.Prediction, fatigued bool) EmergencyReason {
	switch {
	case p.ConsecutiveIncorrect >= c.cfg.EmergencyIncorrectStreak:
		return EmergencyIncorrectStreak
	case p.Studied() && pred.ForgettingRisk >= c.cfg.EmergencyRisk:
		return EmergencyForgettingRisk
	case p.ConsecutiveIncorrect >= c.cfg.OverloadIncorrectStreak && p.AverageResponseTime >= c.cfg.OverloadLatencyMs:
		return EmergencyCognitiveOverload
	case fatigued && p.ConsecutiveIncorrect > 0:
		return EmergencyCognitiveOverload
	}
	return EmergencyNone
}

// ValidateConfidence rejects confidence scores outside [0, 1].
func ValidateConfidence(score float64) error {
	if math.IsNaN(score) {
		return ErrInvalidSignal
	}
	if err := validator.ValidateVar(score, "gte=0,lte=1"); err != nil {
		return errors.Join(ErrInvalidSignal, err)
	}
	return nil
}

// ValidateBoost rejects time boosts outside [0, 100].
func ValidateBoost(boost float64) error {
	if err := validator.ValidateVar(boost, "gte=0,lte=100"); err != nil {
		return errors.Join(ErrInvalidSignal, err)
	}
	return nil
}

func validateCategory(c models.Category) error {
	if err := validator.ValidateVar(string(c), "required,oneof=new correct still_learning incorrect mastered"); err != nil {
		return errors.Join(ErrInvalidSignal, err)
	}
	return nil
}
