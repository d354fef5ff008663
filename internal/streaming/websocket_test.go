package streaming

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"fraudlens/internal/domain/models"
)

func TestClientSubscriptionFilter(t *testing.T) {
	client := &WebSocketClient{}

	critical := &FraudEvent{Type: EventTypeAlertRaised, Severity: models.RiskLevelCritical}
	low := &FraudEvent{Type: EventTypeAlertRaised, Severity: models.RiskLevelLow}

	assert.True(t, client.matches(critical), "no filter accepts everything")
	assert.True(t, client.matches(low))

	client.setSubscription(&Subscription{MinSeverity: models.RiskLevelHigh})
	assert.True(t, client.matches(critical))
	assert.False(t, client.matches(low))
}

func TestClientSubscriptionConcurrentUpdate(t *testing.T) {
	client := &WebSocketClient{}
	event := &FraudEvent{Type: EventTypeScamScored, Severity: models.RiskLevelHigh}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			client.setSubscription(&Subscription{Types: []EventType{EventTypeScamScored}})
		}()
		go func() {
			defer wg.Done()
			client.matches(event)
		}()
	}
	wg.Wait()

	assert.True(t, client.matches(event))
}
