package confidence

const (
	// referenceLatencyMs stands in for the personal average of an item answered for the first time.
	referenceLatencyMs = 5000.0

	heuristicSpeedWeight  = 0.6
	heuristicStreakWeight = 0.4
	maxCountedStreak      = 5
)

// Heuristic estimates confidence from the speed ratio against the personal
// average latency and the length of the correct streak.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) Estimate(f Features) (Estimate, error) {
	if !f.WasCorrect {
		return incorrectEstimate(), nil
	}

	avg := f.Progress.AverageResponseTime
	if avg <= 0 {
		avg = referenceLatencyMs
	}

	speed := 0.5
	if f.ResponseTimeMs > 0 {
		speed = clamp01(avg / float64(f.ResponseTimeMs) / 2)
	}

	streak := float64(min(f.Progress.ConsecutiveCorrect+1, maxCountedStreak)) / maxCountedStreak

	score := clamp01(heuristicSpeedWeight*speed + heuristicStreakWeight*streak)

	return Estimate{
		Level:  levelFor(score),
		Score:  score,
		Source: SourceHeuristic,
	}, nil
}
