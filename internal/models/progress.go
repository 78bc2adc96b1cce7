package models

import "time"

const (
	DefaultEaseFactor    = 2.5
	DefaultDecayRate     = 0.3
	DefaultRecoveryRate  = 0.1
	DefaultBaseRetention = 0.3
)

// Counters are the attempt counters kept for an item, both overall and per mode.
type Counters struct {
	CorrectCount         int `json:"correctCount"`
	IncorrectCount       int `json:"incorrectCount"`
	ConsecutiveCorrect   int `json:"consecutiveCorrect"`
	ConsecutiveIncorrect int `json:"consecutiveIncorrect"`
}

// TotalAttempts returns correct plus incorrect answers.
func (c Counters) TotalAttempts() int {
	return c.CorrectCount + c.IncorrectCount
}

// Accuracy returns the share of correct answers, 0 when nothing was answered.
func (c Counters) Accuracy() float64 {
	total := c.TotalAttempts()
	if total == 0 {
		return 0
	}
	return float64(c.CorrectCount) / float64(total)
}

// Record bumps the counters for one answer.
func (c *Counters) Record(wasCorrect bool) {
	if wasCorrect {
		c.CorrectCount++
		c.ConsecutiveCorrect++
		c.ConsecutiveIncorrect = 0
		return
	}
	c.IncorrectCount++
	c.ConsecutiveIncorrect++
	c.ConsecutiveCorrect = 0
}

// ForgettingCurveParams are the per-item parameters of the exponential decay model.
type ForgettingCurveParams struct {
	DecayRate     float64 `json:"decayRate"`
	RecoveryRate  float64 `json:"recoveryRate"`
	BaseRetention float64 `json:"baseRetention"`
}

// DefaultForgettingCurve returns the parameters a fresh item starts with.
func DefaultForgettingCurve() ForgettingCurveParams {
	return ForgettingCurveParams{
		DecayRate:     DefaultDecayRate,
		RecoveryRate:  DefaultRecoveryRate,
		BaseRetention: DefaultBaseRetention,
	}
}

// WordProgress is the durable per-item learning record.
type WordProgress struct {
	ItemID string `json:"itemId"`
	Counters
	Modes map[string]Counters `json:"modes,omitempty"`

	LastStudied    time.Time `json:"lastStudied"`
	FirstAttempted time.Time `json:"firstAttempted"`

	MemoryStrength      float64 `json:"memoryStrength"`
	DifficultyScore     float64 `json:"difficultyScore"`
	AverageResponseTime float64 `json:"averageResponseTime"` // milliseconds
	TimedAnswers        int     `json:"timedAnswers,omitempty"`
	EaseFactor          float64 `json:"easeFactor"`
	Repetitions         int     `json:"repetitions"`
	ReviewInterval      int     `json:"reviewInterval"` // days

	ForgettingCurve ForgettingCurveParams `json:"forgettingCurveParams"`

	LastConfidenceLevel int     `json:"lastConfidenceLevel,omitempty"`
	LastConfidenceScore float64 `json:"lastConfidenceScore,omitempty"`

	Category Category `json:"category"`

	// CalculatedPriority is the cached composite priority in urgency points:
	// higher is due sooner, and 1000 marks an emergency override.
	CalculatedPriority float64 `json:"calculatedPriority"`
	// Position is CalculatedPriority capped to [0, 100], same direction.
	Position float64 `json:"position"`
}

// NewWordProgress returns the record of an item that was never answered.
func NewWordProgress(itemID string) WordProgress {
	return WordProgress{
		ItemID:          itemID,
		EaseFactor:      DefaultEaseFactor,
		ForgettingCurve: DefaultForgettingCurve(),
		Category:        CategoryNew,
	}
}

// Studied reports whether the item was answered at least once.
func (p WordProgress) Studied() bool {
	return p.TotalAttempts() > 0 && !p.LastStudied.IsZero()
}

// Normalize repairs fields that a zero-valued or partially decoded record
// leaves outside their invariants.
func (p *WordProgress) Normalize() {
	if p.EaseFactor < 1.3 {
		p.EaseFactor = DefaultEaseFactor
	}
	fc := &p.ForgettingCurve
	if fc.DecayRate <= 0 {
		fc.DecayRate = DefaultDecayRate
	}
	if fc.RecoveryRate <= 0 {
		fc.RecoveryRate = DefaultRecoveryRate
	}
	if fc.BaseRetention <= 0 || fc.BaseRetention >= 1 {
		fc.BaseRetention = DefaultBaseRetention
	}
	if p.MemoryStrength < 0 {
		p.MemoryStrength = 0
	}
	if p.MemoryStrength > 100 {
		p.MemoryStrength = 100
	}
	if !p.Category.IsValid() {
		p.Category = CategoryNew
	}
}

// Clone returns a deep copy of the record.
func (p WordProgress) Clone() WordProgress {
	out := p
	if p.Modes != nil {
		out.Modes = make(map[string]Counters, len(p.Modes))
		for k, v := range p.Modes {
			out.Modes[k] = v
		}
	}
	return out
}

// ModeCounters returns the counters of one answer mode.
func (p WordProgress) ModeCounters(mode string) Counters {
	return p.Modes[mode]
}
