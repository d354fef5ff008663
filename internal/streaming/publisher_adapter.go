package streaming

import (
	"context"

	"fraudlens/internal/domain/models"
)

// EventBusPublisher publishes fraud events through the event bus, which
// fans them out to NATS and to local subscribers such as the WebSocket
// hub bridge. It implements services.AlertSink for the alert monitor.
type EventBusPublisher struct {
	eventBus *EventBus
}

// NewEventBusPublisher creates a new publisher adapter
func NewEventBusPublisher(eventBus *EventBus) *EventBusPublisher {
	return &EventBusPublisher{
		eventBus: eventBus,
	}
}

// Deliver publishes a newly generated trend alert
func (p *EventBusPublisher) Deliver(ctx context.Context, alert *models.TrendAlert) {
	p.publish(ctx, NewAlertEvent(alert))
}

// PublishTrendUpdate publishes an applied catalog update
func (p *EventBusPublisher) PublishTrendUpdate(ctx context.Context, trend *models.ScamTrend, delta models.TrendDelta) {
	p.publish(ctx, NewTrendUpdateEvent(trend, delta))
}

// PublishScore publishes a scam-classified assessment
func (p *EventBusPublisher) PublishScore(ctx context.Context, assessment *models.Assessment, channel string) {
	p.publish(ctx, NewScoreEvent(assessment, channel))
}

func (p *EventBusPublisher) publish(ctx context.Context, event *FraudEvent) {
	if p.eventBus != nil {
		_ = p.eventBus.Publish(ctx, event)
	}
}
