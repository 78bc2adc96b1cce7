// Package forgetting predicts retention with an exponential forgetting curve
//
//	R(t) = b + (1-b)·e^(-d·t)
//
// where b is the item's base retention, d its decay rate and t the days since
// the last review. Parameters are adapted per item after every answer.
package forgetting

import (
	"math"
	"time"

	"github.com/DanRulev/vocadrill/internal/models"
)

const (
	// MaxHorizonDays caps solved review times when the curve never reaches the target.
	MaxHorizonDays = 3650.0

	halfLifeTarget      = 0.5
	optimalReviewTarget = 0.35

	minDecayRate     = 0.05
	maxDecayRate     = 0.5
	minBaseRetention = 0.2
	maxBaseRetention = 0.9

	fastAnswerMs = 3000
)

// Prediction is the retention estimate for one item at one instant.
type Prediction struct {
	RetentionRate     float64   `json:"retentionRate"`
	HalfLife          float64   `json:"halfLife"` // days since last review
	OptimalReviewTime time.Time `json:"optimalReviewTime"`
	ForgettingRisk    int       `json:"forgettingRisk"` // 0..100
	Confidence        float64   `json:"confidence"`     // 0..1
}

// PredictRetention evaluates the curve of p at now. Items that were never
// studied report zero retention and full risk with neutral confidence.
func PredictRetention(p models.WordProgress, now time.Time) Prediction {
	if !p.Studied() {
		return Prediction{
			RetentionRate:     0,
			ForgettingRisk:    100,
			Confidence:        0.5,
			OptimalReviewTime: now,
		}
	}

	params := p.ForgettingCurve
	days := now.Sub(p.LastStudied).Hours() / 24
	if days < 0 {
		days = 0
	}

	r := Retention(params, days)
	halfLife := SolveDays(params, halfLifeTarget)
	optimal := SolveDays(params, optimalReviewTarget)

	return Prediction{
		RetentionRate:     r,
		HalfLife:          halfLife,
		OptimalReviewTime: p.LastStudied.Add(time.Duration(optimal * 24 * float64(time.Hour))),
		ForgettingRisk:    int(math.Round((1 - r) * 100)),
		Confidence:        predictionConfidence(params.RecoveryRate, p.TotalAttempts()),
	}
}

// Retention returns R(days) for params.
func Retention(params models.ForgettingCurveParams, days float64) float64 {
	b := params.BaseRetention
	return b + (1-b)*math.Exp(-params.DecayRate*days)
}

// SolveDays returns the days after review at which retention falls to target.
// When the curve's floor is at or above target, MaxHorizonDays is returned.
func SolveDays(params models.ForgettingCurveParams, target float64) float64 {
	b := params.BaseRetention
	if b >= target || params.DecayRate <= 0 {
		return MaxHorizonDays
	}
	days := -math.Log((target-b)/(1-b)) / params.DecayRate
	return math.Min(days, MaxHorizonDays)
}

// predictionConfidence grows from 0.5 towards 1 as evidence accumulates,
// at the item's recovery rate.
func predictionConfidence(recoveryRate float64, attempts int) float64 {
	return 1 - 0.5*math.Exp(-recoveryRate*float64(attempts))
}

// Adapt returns the parameters after one answer.
func Adapt(params models.ForgettingCurveParams, wasCorrect bool, responseTimeMs int64) models.ForgettingCurveParams {
	out := params
	if wasCorrect {
		out.DecayRate = math.Max(out.DecayRate*0.95, minDecayRate)
		if responseTimeMs > 0 && responseTimeMs < fastAnswerMs {
			out.BaseRetention = math.Min(out.BaseRetention+0.02, maxBaseRetention)
		}
		return out
	}
	out.DecayRate = math.Min(out.DecayRate*1.1, maxDecayRate)
	out.BaseRetention = math.Max(out.BaseRetention-0.02, minBaseRetention)
	return out
}

// MemoryStrength returns the strength after one answer. consecutiveCorrect is
// the streak including this answer.
func MemoryStrength(strength float64, wasCorrect bool, consecutiveCorrect int) float64 {
	if wasCorrect {
		gain := 5 + math.Min(float64(consecutiveCorrect*2), 15)
		return math.Min(strength+gain, 100)
	}
	return math.Max(strength-15, 0)
}
