package models

// SessionView is what a UI needs to drive a started session.
type SessionView struct {
	SessionID         string            `json:"sessionId"`
	Variant           string            `json:"variant"`
	Overridden        bool              `json:"overridden"`
	Items             []Item            `json:"items"`
	VibrationScore    float64           `json:"vibrationScore"`
	DivergenceValid   bool              `json:"divergenceValid"`
	RecommendedAction RecommendedAction `json:"recommendedAction,omitempty"`
}

// AnswerResult is the outcome of one answer event.
type AnswerResult struct {
	ItemID            string            `json:"itemId"`
	Outcome           Category          `json:"outcome"`
	Category          Category          `json:"category"`
	ConfidenceLevel   int               `json:"confidenceLevel"`
	ConfidenceSource  string            `json:"confidenceSource"`
	Priority          float64           `json:"priority"`
	Position          float64           `json:"position"`
	Decision          RequeueDecision   `json:"decision"`
	VibrationScore    float64           `json:"vibrationScore"`
	RecommendedAction RecommendedAction `json:"recommendedAction,omitempty"`
	Remaining         int               `json:"remaining"`
	Stats             SessionStats      `json:"stats"`
}

// ProgressSummary counts a learner's items per category.
type ProgressSummary struct {
	Total      int              `json:"total"`
	ByCategory map[Category]int `json:"byCategory"`
	Accuracy   float64          `json:"accuracy"`
}
