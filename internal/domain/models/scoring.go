package models

import "time"

// Label is the binary classification outcome
type Label string

const (
	LabelScam       Label = "scam"
	LabelLegitimate Label = "legitimate"
)

// Priority controls whether the external classifier is consulted
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Factor is one weighted feature's contribution to a prediction,
// kept for explainability
type Factor struct {
	Name         string  `json:"name"`
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Prediction is the local risk model output for one text
type Prediction struct {
	RiskScore     float64  `json:"risk_score"` // 0-100
	Confidence    float64  `json:"confidence"` // 0.5-0.95
	IsScam        bool     `json:"is_scam"`
	Factors       []Factor `json:"factors"` // top contributors by |contribution|
	FiredFeatures int      `json:"fired_features"`
}

// ScoreRequest is the input to a full scoring pass
type ScoreRequest struct {
	Text     string   `json:"text"`
	Channel  string   `json:"channel,omitempty"` // sms, email, call, chat
	Locale   string   `json:"locale,omitempty"`
	Priority Priority `json:"priority,omitempty"`
}

// Assessment is the blended, trend-correlated result returned to callers
type Assessment struct {
	RiskScore     int          `json:"risk_score"` // 0-100, rounded
	Confidence    float64      `json:"confidence"`
	Label         Label        `json:"label"`
	TopSignals    []string     `json:"top_signals"` // at most 5
	MatchedTrends []TrendMatch `json:"matched_trends"`
	Source        string       `json:"source"` // "local" or "blended"
	Timestamp     time.Time    `json:"timestamp"`
}

// ExternalResult is what the external classifier returns on success
type ExternalResult struct {
	RiskScore  float64  `json:"risk_score"` // 0-100
	Confidence float64  `json:"confidence,omitempty"`
	Signals    []string `json:"signals,omitempty"`
}
