package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudlens/internal/config"
	"fraudlens/internal/domain/models"
	"fraudlens/pkg/logger"
)

type captureSink struct {
	delivered []*models.TrendAlert
}

func (s *captureSink) Deliver(_ context.Context, alert *models.TrendAlert) {
	s.delivered = append(s.delivered, alert)
}

func testAlertsConfig() config.AlertsConfig {
	return config.AlertsConfig{
		Enabled:       true,
		CheckInterval: time.Minute,
		ActiveWindow:  24 * time.Hour,
		RecencyWindow: time.Hour,
		MaxRetained:   50,
	}
}

func alertTestCatalog(t *testing.T, level models.RiskLevel, lastUpdated time.Time) *TrendCatalog {
	t.Helper()
	return NewTrendCatalog([]*models.ScamTrend{
		{
			ID:            "test-trend",
			Title:         "Test Trend",
			RiskLevel:     level,
			Keywords:      []string{"test"},
			ReportedCases: 100,
			LastUpdated:   lastUpdated,
		},
	}, logger.NewDefault())
}

func TestAlertForRecentCriticalTrend(t *testing.T) {
	catalog := alertTestCatalog(t, models.RiskLevelCritical, time.Now().UTC())
	sink := &captureSink{}
	monitor := NewAlertMonitor(catalog, sink, testAlertsConfig(), logger.NewDefault())

	monitor.RunOnce(context.Background())

	active := monitor.ActiveAlerts()
	require.Len(t, active, 1)
	assert.Equal(t, "test-trend", active[0].TrendID)
	assert.Equal(t, models.RiskLevelCritical, active[0].Severity)
	assert.Equal(t, models.AlertTypeCritical, active[0].AlertType)
	assert.True(t, active[0].ActionRequired)
	assert.Len(t, sink.delivered, 1)
}

func TestNoAlertForNonCriticalTrend(t *testing.T) {
	catalog := alertTestCatalog(t, models.RiskLevelHigh, time.Now().UTC())
	monitor := NewAlertMonitor(catalog, nil, testAlertsConfig(), logger.NewDefault())

	monitor.RunOnce(context.Background())

	assert.Empty(t, monitor.ActiveAlerts())
}

func TestNoAlertForStaleCriticalTrend(t *testing.T) {
	catalog := alertTestCatalog(t, models.RiskLevelCritical, time.Now().UTC().Add(-2*time.Hour))
	monitor := NewAlertMonitor(catalog, nil, testAlertsConfig(), logger.NewDefault())

	monitor.RunOnce(context.Background())

	assert.Empty(t, monitor.ActiveAlerts())
}

func TestAlertDeduplication(t *testing.T) {
	catalog := alertTestCatalog(t, models.RiskLevelCritical, time.Now().UTC())
	monitor := NewAlertMonitor(catalog, nil, testAlertsConfig(), logger.NewDefault())
	ctx := context.Background()

	monitor.RunOnce(ctx)
	monitor.RunOnce(ctx)
	monitor.RunOnce(ctx)

	assert.Len(t, monitor.ActiveAlerts(), 1, "unchanged trend alerts only once")
}

func TestAlertAfterTrendUpdate(t *testing.T) {
	catalog := alertTestCatalog(t, models.RiskLevelCritical, time.Now().UTC())
	monitor := NewAlertMonitor(catalog, nil, testAlertsConfig(), logger.NewDefault())
	ctx := context.Background()

	monitor.RunOnce(ctx)
	require.Len(t, monitor.ActiveAlerts(), 1)

	require.NoError(t, catalog.ApplyUpdate(&models.TrendUpdateEvent{
		TrendID:  "test-trend",
		NewCases: 500,
	}))
	monitor.RunOnce(ctx)

	active := monitor.ActiveAlerts()
	require.Len(t, active, 2)
	assert.Equal(t, models.AlertTypeCaseSpike, active[0].AlertType, "newest alert first")
	assert.Contains(t, active[0].Message, "500")
}

func TestNewTacticOutranksCaseSpike(t *testing.T) {
	catalog := alertTestCatalog(t, models.RiskLevelCritical, time.Now().UTC().Add(-2*time.Hour))
	monitor := NewAlertMonitor(catalog, nil, testAlertsConfig(), logger.NewDefault())

	require.NoError(t, catalog.ApplyUpdate(&models.TrendUpdateEvent{
		TrendID:    "test-trend",
		NewCases:   40,
		NewTactics: []string{"callback voicemail"},
	}))
	monitor.RunOnce(context.Background())

	active := monitor.ActiveAlerts()
	require.Len(t, active, 1)
	assert.Equal(t, models.AlertTypeNewTactic, active[0].AlertType)
	assert.Contains(t, active[0].Message, "callback voicemail")
}

func TestAlertRetentionCap(t *testing.T) {
	cfg := testAlertsConfig()
	cfg.MaxRetained = 3
	catalog := alertTestCatalog(t, models.RiskLevelCritical, time.Now().UTC())
	monitor := NewAlertMonitor(catalog, nil, cfg, logger.NewDefault())

	for i := 0; i < 5; i++ {
		monitor.record(&models.TrendAlert{
			ID:        uuid.New(),
			TrendID:   "test-trend",
			Timestamp: time.Now().UTC(),
		})
	}

	assert.Len(t, monitor.ActiveAlerts(), 3)
}

func TestActiveWindowFiltersOldAlerts(t *testing.T) {
	catalog := alertTestCatalog(t, models.RiskLevelCritical, time.Now().UTC())
	monitor := NewAlertMonitor(catalog, nil, testAlertsConfig(), logger.NewDefault())

	monitor.record(&models.TrendAlert{
		ID:        uuid.New(),
		TrendID:   "test-trend",
		Timestamp: time.Now().UTC().Add(-25 * time.Hour),
	})
	monitor.record(&models.TrendAlert{
		ID:        uuid.New(),
		TrendID:   "test-trend",
		Timestamp: time.Now().UTC(),
	})

	active := monitor.ActiveAlerts()
	require.Len(t, active, 1)
	assert.True(t, active[0].Timestamp.After(time.Now().UTC().Add(-time.Hour)))
}
