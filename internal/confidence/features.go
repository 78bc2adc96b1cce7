package confidence

import "math"

// NumFeatures is the length of the model input vector.
const NumFeatures = 8

const (
	latencyScaleMs   = 10000.0
	daysSinceScale   = 30.0
	attemptSaturator = 10.0
)

// Vector encodes f as the normalized model input:
// latency, time of day, attempt ratio, accuracy, streak ratio,
// days since study, personal average latency, difficulty.
func (f Features) Vector() [NumFeatures]float64 {
	p := f.Progress
	total := float64(p.TotalAttempts())

	var streak float64
	if total > 0 {
		streak = float64(p.ConsecutiveCorrect) / total
	}

	var days float64
	if p.Studied() && f.At.After(p.LastStudied) {
		days = f.At.Sub(p.LastStudied).Hours() / 24
	}

	difficulty := f.Difficulty
	if difficulty == 0 {
		difficulty = p.DifficultyScore
	}

	return [NumFeatures]float64{
		math.Min(float64(f.ResponseTimeMs)/latencyScaleMs, 1),
		float64(f.At.Hour()) / 24,
		total / (total + attemptSaturator),
		p.Accuracy(),
		streak,
		math.Min(days/daysSinceScale, 1),
		math.Min(p.AverageResponseTime/latencyScaleMs, 1),
		clamp01(difficulty),
	}
}
