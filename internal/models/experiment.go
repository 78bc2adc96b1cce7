package models

import "time"

// ABSessionLogVersion is the current version of persisted session logs.
const ABSessionLogVersion = 1

// RecommendedAction is an advisory emitted next to a schedule.
type RecommendedAction string

const (
	ActionNone             RecommendedAction = ""
	ActionShorterSession   RecommendedAction = "shorter_session"
	ActionSwitchToBaseline RecommendedAction = "switch_to_baseline"
)

// ABSessionLog is one finished session as seen by the experiment layer.
type ABSessionLog struct {
	Version         int       `json:"version"`
	SessionID       string    `json:"sessionId"`
	UserID          int64     `json:"userId"`
	Variant         string    `json:"variant"`
	PresentedOrder  []string  `json:"presentedOrder"`
	AcquiredCount   int       `json:"acquiredCount"`
	VibrationScore  float64   `json:"vibrationScore"`
	DivergenceValid bool      `json:"divergenceValid"`
	Fallback        bool      `json:"fallback"`
	StartedAt       time.Time `json:"startedAt"`
	EndedAt         time.Time `json:"endedAt"`
}

// DecisionKind is the outcome of a requeue call.
type DecisionKind string

const (
	DecisionSkippedExistsNearby DecisionKind = "skipped_exists_nearby"
	DecisionInserted            DecisionKind = "inserted"
	DecisionRetired             DecisionKind = "retired"
)

// RequeueDecision is one entry of the requeue decision log.
type RequeueDecision struct {
	ItemID        string       `json:"itemId"`
	Decision      DecisionKind `json:"decision"`
	Mode          string       `json:"mode,omitempty"`
	Category      Category     `json:"category"`
	Position      float64      `json:"position"`
	Gap           int          `json:"gap"`
	CurrentIndex  int          `json:"currentIndex"`
	ExistingIndex int          `json:"existingIndex"`
	BeforeIndex   int          `json:"beforeIndex"`
	AfterIndex    int          `json:"afterIndex"`
	Relocated     int          `json:"relocated,omitempty"`
	At            time.Time    `json:"at"`
}
