// Package confidence turns an answer and the item's history into a 1..5
// confidence level. A learned logistic model is preferred once it has seen
// enough answers; otherwise a closed-form heuristic answers.
package confidence

import (
	"errors"
	"math"
	"time"

	"github.com/DanRulev/vocadrill/internal/models"
	"go.uber.org/zap"
)

const (
	MinLevel = 1
	MaxLevel = 5
)

// ErrModelNotReady is returned by the learned estimator until it is trained or restored.
var ErrModelNotReady = errors.New("confidence: model not ready")

// Source names the estimator that produced an Estimate.
type Source string

const (
	SourceRule      Source = "rule"
	SourceHeuristic Source = "heuristic"
	SourceLearned   Source = "learned"
)

// Features is the input of every estimator. Progress is the record as it was
// before the answer was applied.
type Features struct {
	Progress       models.WordProgress
	WasCorrect     bool
	ResponseTimeMs int64
	At             time.Time
	Difficulty     float64
}

// Estimate is a confidence level with its normalized score.
type Estimate struct {
	Level  int     `json:"level"`
	Score  float64 `json:"score"`
	Source Source  `json:"source"`
}

// Estimator produces a confidence estimate for one answer.
type Estimator interface {
	Estimate(f Features) (Estimate, error)
}

// incorrectEstimate is the fixed result for every incorrect answer.
func incorrectEstimate() Estimate {
	return Estimate{Level: MinLevel, Score: 0, Source: SourceRule}
}

// levelFor maps a score in [0,1] onto levels 2..5; level 1 is reserved for
// incorrect answers.
func levelFor(score float64) int {
	return 2 + int(math.Round(3*clamp01(score)))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Chain asks the primary estimator first and falls back silently.
type Chain struct {
	primary  Estimator
	fallback Estimator
	logger   *zap.Logger
}

// NewChain builds a fallback chain. primary may be nil.
func NewChain(primary, fallback Estimator, logger *zap.Logger) *Chain {
	return &Chain{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *Chain) Estimate(f Features) (Estimate, error) {
	if !f.WasCorrect {
		return incorrectEstimate(), nil
	}

	if c.primary != nil {
		est, err := c.primary.Estimate(f)
		switch {
		case err == nil:
			return est, nil
		case errors.Is(err, ErrModelNotReady):
			c.logger.Debug("learned confidence model not ready, using fallback")
		default:
			c.logger.Warn("learned confidence estimate failed, using fallback",
				zap.String("item_id", f.Progress.ItemID),
				zap.Error(err))
		}
	}

	return c.fallback.Estimate(f)
}
