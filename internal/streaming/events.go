package streaming

import (
	"time"

	"github.com/google/uuid"

	"fraudlens/internal/domain/models"
)

// EventType represents the type of fraud event
type EventType string

const (
	EventTypeAlertRaised  EventType = "alert_raised"
	EventTypeTrendUpdated EventType = "trend_updated"
	EventTypeScamScored   EventType = "scam_scored"
)

// FraudEvent represents a real-time fraud detection event
type FraudEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Origin identifies the publishing instance; it lets subscribers
	// drop NATS echoes of events they already saw via local fan-out
	Origin string `json:"origin,omitempty"`

	// Alert details
	AlertID        string           `json:"alert_id,omitempty"`
	AlertType      models.AlertType `json:"alert_type,omitempty"`
	Severity       models.RiskLevel `json:"severity,omitempty"`
	Title          string           `json:"title,omitempty"`
	Message        string           `json:"message,omitempty"`
	ActionRequired bool             `json:"action_required,omitempty"`

	// Trend details
	TrendID    string   `json:"trend_id,omitempty"`
	NewCases   int      `json:"new_cases,omitempty"`
	NewTactics []string `json:"new_tactics,omitempty"`

	// Scoring details
	RiskScore int          `json:"risk_score,omitempty"`
	Label     models.Label `json:"label,omitempty"`
	Source    string       `json:"source,omitempty"`
	Channel   string       `json:"channel,omitempty"`
}

// NewAlertEvent creates an event from a trend alert
func NewAlertEvent(alert *models.TrendAlert) *FraudEvent {
	return &FraudEvent{
		ID:             uuid.New().String(),
		Type:           EventTypeAlertRaised,
		Timestamp:      time.Now().UTC(),
		AlertID:        alert.ID.String(),
		AlertType:      alert.AlertType,
		Severity:       alert.Severity,
		Title:          alert.Title,
		Message:        alert.Message,
		ActionRequired: alert.ActionRequired,
		TrendID:        alert.TrendID,
	}
}

// NewTrendUpdateEvent creates an event from an applied catalog update
func NewTrendUpdateEvent(trend *models.ScamTrend, delta models.TrendDelta) *FraudEvent {
	return &FraudEvent{
		ID:         uuid.New().String(),
		Type:       EventTypeTrendUpdated,
		Timestamp:  time.Now().UTC(),
		TrendID:    trend.ID,
		Title:      trend.Title,
		Severity:   trend.RiskLevel,
		NewCases:   delta.CasesAdded,
		NewTactics: delta.NewTactics,
	}
}

// NewScoreEvent creates an event from a scam-classified assessment
func NewScoreEvent(assessment *models.Assessment, channel string) *FraudEvent {
	return &FraudEvent{
		ID:        uuid.New().String(),
		Type:      EventTypeScamScored,
		Timestamp: time.Now().UTC(),
		RiskScore: assessment.RiskScore,
		Label:     assessment.Label,
		Source:    assessment.Source,
		Channel:   channel,
	}
}

// Subscription represents a client's subscription preferences
type Subscription struct {
	// Filter by minimum severity (empty = all)
	MinSeverity models.RiskLevel `json:"min_severity,omitempty"`

	// Filter by event types (empty = all)
	Types []EventType `json:"types,omitempty"`

	// Filter by trends (empty = all)
	TrendIDs []string `json:"trend_ids,omitempty"`
}

var severityOrder = map[models.RiskLevel]int{
	models.RiskLevelLow:      1,
	models.RiskLevelMedium:   2,
	models.RiskLevelHigh:     3,
	models.RiskLevelCritical: 4,
}

// Matches checks if an event matches the subscription filters
func (s *Subscription) Matches(event *FraudEvent) bool {
	if s.MinSeverity != "" && event.Severity != "" {
		if severityOrder[event.Severity] < severityOrder[s.MinSeverity] {
			return false
		}
	}

	if len(s.Types) > 0 {
		found := false
		for _, t := range s.Types {
			if t == event.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(s.TrendIDs) > 0 {
		found := false
		for _, id := range s.TrendIDs {
			if id == event.TrendID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
