package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel categorizes how dangerous a trend currently is
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// ScamTrend is a cataloged, evolving scam campaign. ReportedCases,
// Tactics, Regions and LastUpdated are the only fields mutated after
// creation, and only by the catalog when applying update events.
// Trends are never deleted; retired ones simply stop receiving updates.
type ScamTrend struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	RiskLevel          RiskLevel `json:"risk_level"`
	Keywords           []string  `json:"keywords"`
	Tactics            []string  `json:"tactics"`
	TargetDemographics []string  `json:"target_demographics,omitempty"`
	ReportedCases      int       `json:"reported_cases"`
	FirstSeen          time.Time `json:"first_seen"`
	LastUpdated        time.Time `json:"last_updated"`
	Regions            []string  `json:"regions,omitempty"`
	Examples           []string  `json:"examples,omitempty"`
	PreventionTips     []string  `json:"prevention_tips,omitempty"`
}

// TrendUpdateEvent is an external delta applied atomically to one trend
type TrendUpdateEvent struct {
	TrendID    string    `json:"trend_id"`
	NewCases   int       `json:"new_cases"`
	NewTactics []string  `json:"new_tactics,omitempty"`
	Regions    []string  `json:"regions,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// TrendDelta records what the last applied update changed, for alerting
type TrendDelta struct {
	CasesAdded int       `json:"cases_added"`
	NewTactics []string  `json:"new_tactics,omitempty"`
	AppliedAt  time.Time `json:"applied_at"`
}

// TrendMatch is one trend that qualified against an input text
type TrendMatch struct {
	TrendID         string   `json:"trend_id"`
	Title           string   `json:"title"`
	MatchScore      int      `json:"match_score"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	MatchedTactics  []string `json:"matched_tactics,omitempty"`
	ReportedCases   int      `json:"reported_cases"`
}

// AlertType says what kind of trend activity triggered an alert
type AlertType string

const (
	AlertTypeCaseSpike AlertType = "case_spike"
	AlertTypeNewTactic AlertType = "new_tactic"
	AlertTypeCritical  AlertType = "critical_activity"
)

// TrendAlert is a time-stamped notice about critical trend activity.
// Read-only after creation; visibility is a derived 24-hour view.
type TrendAlert struct {
	ID             uuid.UUID `json:"id"`
	TrendID        string    `json:"trend_id"`
	AlertType      AlertType `json:"alert_type"`
	Severity       RiskLevel `json:"severity"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	ActionRequired bool      `json:"action_required"`
	Timestamp      time.Time `json:"timestamp"`
}
