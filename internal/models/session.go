package models

import "time"

// Item is a candidate supplied by the content source. Only ID matters to scheduling.
type Item struct {
	ID         string `json:"id" mapstructure:"id" validate:"required"`
	Meaning    string `json:"meaning" mapstructure:"meaning"`
	Difficulty int    `json:"difficulty,omitempty" mapstructure:"difficulty" validate:"min=0,max=5"`
}

// Answer is one answer event reported by the UI.
type Answer struct {
	ItemID         string    `json:"itemId" validate:"required"`
	WasCorrect     bool      `json:"wasCorrect"`
	ResponseTimeMs int64     `json:"responseTimeMs" validate:"min=0"`
	Mode           string    `json:"mode"`
	Timestamp      time.Time `json:"timestamp"`
}

// SessionStats is the ephemeral per-session tally.
type SessionStats struct {
	Correct       int `json:"correct"`
	Incorrect     int `json:"incorrect"`
	StillLearning int `json:"stillLearning"`
	Mastered      int `json:"mastered"`

	CurrentStreak   int `json:"currentStreak"`
	BestStreak      int `json:"bestStreak"`
	IncorrectStreak int `json:"incorrectStreak"`

	Answered        int       `json:"answered"`
	TimedAnswers    int       `json:"timedAnswers"`
	TotalResponseMs int64     `json:"totalResponseMs"`
	StartedAt       time.Time `json:"startedAt"`
	LastAnswerAt    time.Time `json:"lastAnswerAt"`

	// Presented is the order in which items were shown, oldest first.
	Presented []string `json:"presented,omitempty"`
}

// Record adds one answer outcome to the tally.
func (s *SessionStats) Record(outcome Category, wasCorrect bool, responseTimeMs int64, at time.Time) {
	switch outcome {
	case CategoryMastered:
		s.Mastered++
	case CategoryIncorrect:
		s.Incorrect++
	case CategoryCorrect:
		s.Correct++
	default:
		s.StillLearning++
	}

	if wasCorrect {
		s.CurrentStreak++
		s.IncorrectStreak = 0
		if s.CurrentStreak > s.BestStreak {
			s.BestStreak = s.CurrentStreak
		}
	} else {
		s.CurrentStreak = 0
		s.IncorrectStreak++
	}

	s.Answered++
	if responseTimeMs > 0 {
		s.TimedAnswers++
		s.TotalResponseMs += responseTimeMs
	}
	s.LastAnswerAt = at
}

// AverageResponseMs returns the mean latency over the timed answers of the
// session, 0 before the first one.
func (s SessionStats) AverageResponseMs() float64 {
	if s.TimedAnswers == 0 {
		return 0
	}
	return float64(s.TotalResponseMs) / float64(s.TimedAnswers)
}

// Prompt is an item shown to a user and not yet answered.
type Prompt struct {
	UserID    int64     `json:"userId"`
	Item      Item      `json:"item"`
	SentAt    time.Time `json:"sentAt"`
	MessageID int       `json:"messageId"`
}
