// Package progress derives categories from attempt counters and applies
// answer events to WordProgress records.
package progress

import "github.com/DanRulev/vocadrill/internal/models"

// ClassifierConfig holds the thresholds of the category rules.
// Zero values are replaced with defaults.
type ClassifierConfig struct {
	IncorrectStreak   int     `mapstructure:"incorrect_streak"`   // default 2
	IncorrectAccuracy float64 `mapstructure:"incorrect_accuracy"` // default 0.30
	MasteredAccuracy  float64 `mapstructure:"mastered_accuracy"`  // default 0.80
	MasteredStreak    int     `mapstructure:"mastered_streak"`    // default 3
	FastTrackStreak   int     `mapstructure:"fast_track_streak"`  // default 2
}

// Classifier maps progress to a category with a fixed first-match rule order:
// new, incorrect, mastered, still_learning.
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier creates a Classifier, filling zero thresholds with defaults.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	if cfg.IncorrectStreak == 0 {
		cfg.IncorrectStreak = 2
	}
	if cfg.IncorrectAccuracy == 0 {
		cfg.IncorrectAccuracy = 0.30
	}
	if cfg.MasteredAccuracy == 0 {
		cfg.MasteredAccuracy = 0.80
	}
	if cfg.MasteredStreak == 0 {
		cfg.MasteredStreak = 3
	}
	if cfg.FastTrackStreak == 0 {
		cfg.FastTrackStreak = 2
	}
	return &Classifier{cfg: cfg}
}

var defaultClassifier = NewClassifier(ClassifierConfig{})

// Classify applies the default thresholds.
func Classify(p models.WordProgress) models.Category {
	return defaultClassifier.Classify(p)
}

// Classify returns the category of p. It only reads the overall counters.
func (c *Classifier) Classify(p models.WordProgress) models.Category {
	total := p.TotalAttempts()
	if total == 0 {
		return models.CategoryNew
	}

	accuracy := p.Accuracy()
	if p.ConsecutiveIncorrect >= c.cfg.IncorrectStreak || accuracy < c.cfg.IncorrectAccuracy {
		return models.CategoryIncorrect
	}

	lastCorrect := p.ConsecutiveCorrect > 0
	streak := p.ConsecutiveCorrect >= c.cfg.MasteredStreak ||
		(p.ConsecutiveCorrect >= c.cfg.FastTrackStreak && accuracy >= c.cfg.MasteredAccuracy)
	if accuracy >= c.cfg.MasteredAccuracy && lastCorrect && streak {
		return models.CategoryMastered
	}

	return models.CategoryStillLearning
}

// Outcome labels a single answer for session statistics: mastered and
// incorrect pass through, a correct answer short of mastery is "correct".
func (c *Classifier) Outcome(p models.WordProgress, wasCorrect bool) models.Category {
	category := c.Classify(p)
	switch {
	case category == models.CategoryMastered, category == models.CategoryIncorrect:
		return category
	case wasCorrect:
		return models.CategoryCorrect
	default:
		return models.CategoryStillLearning
	}
}
