package progress

import (
	"math"

	"github.com/DanRulev/vocadrill/internal/forgetting"
	"github.com/DanRulev/vocadrill/internal/models"
)

const (
	minEaseFactor     = 1.3
	maxReviewInterval = 365
)

// Recorder applies answers to progress records.
type Recorder struct {
	classifier *Classifier
}

// NewRecorder creates a Recorder that categorizes with classifier.
func NewRecorder(classifier *Classifier) *Recorder {
	if classifier == nil {
		classifier = defaultClassifier
	}
	return &Recorder{classifier: classifier}
}

// Classifier returns the classifier used by the recorder.
func (r *Recorder) Classifier() *Classifier {
	return r.classifier
}

// Apply returns p updated by one answer. The input record is not mutated.
// confidenceLevel is 1..5 and confidenceScore 0..1 as produced by the
// confidence estimator for this answer.
func (r *Recorder) Apply(p models.WordProgress, ans models.Answer, confidenceLevel int, confidenceScore float64) models.WordProgress {
	out := p.Clone()
	out.Normalize()
	if out.ItemID == "" {
		out.ItemID = ans.ItemID
	}

	if ans.Timestamp.After(out.LastStudied) {
		out.LastStudied = ans.Timestamp
	}
	if out.FirstAttempted.IsZero() {
		out.FirstAttempted = out.LastStudied
	}

	out.Counters.Record(ans.WasCorrect)
	if ans.Mode != "" {
		if out.Modes == nil {
			out.Modes = make(map[string]models.Counters)
		}
		m := out.Modes[ans.Mode]
		m.Record(ans.WasCorrect)
		out.Modes[ans.Mode] = m
	}

	if ans.ResponseTimeMs > 0 {
		if out.TimedAnswers == 0 && out.AverageResponseTime > 0 {
			// Records written before timed answers were counted.
			out.TimedAnswers = out.TotalAttempts() - 1
		}
		out.TimedAnswers++
		out.AverageResponseTime += (float64(ans.ResponseTimeMs) - out.AverageResponseTime) / float64(out.TimedAnswers)
	}

	out.ForgettingCurve = forgetting.Adapt(out.ForgettingCurve, ans.WasCorrect, ans.ResponseTimeMs)
	out.MemoryStrength = forgetting.MemoryStrength(out.MemoryStrength, ans.WasCorrect, out.ConsecutiveCorrect)
	out.DifficultyScore = float64(out.IncorrectCount+1) / float64(out.TotalAttempts()+2)

	applyEase(&out, ans.WasCorrect, confidenceLevel)

	out.LastConfidenceLevel = confidenceLevel
	out.LastConfidenceScore = confidenceScore
	out.Category = r.classifier.Classify(out)

	return out
}

// applyEase runs the SM-2 update with a quality derived from the answer and
// its confidence level.
func applyEase(p *models.WordProgress, wasCorrect bool, confidenceLevel int) {
	quality := 1
	if wasCorrect {
		quality = confidenceLevel
		if quality < 3 {
			quality = 3
		}
		if quality > 5 {
			quality = 5
		}
	}

	q := float64(5 - quality)
	ef := p.EaseFactor + (0.1 - q*(0.08+q*0.02))
	if ef < minEaseFactor {
		ef = minEaseFactor
	}
	p.EaseFactor = ef

	if !wasCorrect {
		p.Repetitions = 0
		p.ReviewInterval = 1
		return
	}

	p.Repetitions++
	switch p.Repetitions {
	case 1:
		p.ReviewInterval = 1
	case 2:
		p.ReviewInterval = 6
	default:
		next := int(math.Round(float64(p.ReviewInterval) * p.EaseFactor))
		if next > maxReviewInterval {
			next = maxReviewInterval
		}
		p.ReviewInterval = next
	}
}
