package streaming

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudlens/internal/domain/models"
	"fraudlens/pkg/logger"
)

func TestEventBusFanOut(t *testing.T) {
	bus := NewEventBus(nil, logger.NewDefault())
	defer bus.Close()

	events, unsubscribe := bus.Subscribe(context.Background(), &Subscription{})
	defer unsubscribe()

	event := &FraudEvent{
		ID:       "evt-1",
		Type:     EventTypeAlertRaised,
		Severity: models.RiskLevelCritical,
	}
	require.NoError(t, bus.Publish(context.Background(), event))

	select {
	case got := <-events:
		assert.Equal(t, "evt-1", got.ID)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered to the subscriber")
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus(nil, logger.NewDefault())
	defer bus.Close()

	events, unsubscribe := bus.Subscribe(context.Background(), &Subscription{})
	assert.Equal(t, 1, bus.SubscriberCount())

	unsubscribe()
	assert.Zero(t, bus.SubscriberCount())

	_, open := <-events
	assert.False(t, open, "unsubscribe closes the channel")
}

func TestEventBusStampsOrigin(t *testing.T) {
	bus := NewEventBus(nil, logger.NewDefault())
	defer bus.Close()

	event := &FraudEvent{ID: "evt-2", Type: EventTypeScamScored}
	require.NoError(t, bus.Publish(context.Background(), event))

	assert.Equal(t, bus.instanceID, event.Origin)

	// an origin set by another instance is preserved, so echo filtering
	// can tell remote events apart
	remote := &FraudEvent{ID: "evt-3", Type: EventTypeScamScored, Origin: "other-instance"}
	require.NoError(t, bus.Publish(context.Background(), remote))
	assert.Equal(t, "other-instance", remote.Origin)
}
