package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fraudlens/internal/config"
	"fraudlens/internal/domain/models"
	"fraudlens/pkg/logger"
)

// AlertSink receives newly generated alerts for downstream fan-out
type AlertSink interface {
	Deliver(ctx context.Context, alert *models.TrendAlert)
}

// AlertMonitor watches the trend catalog on a fixed timer and raises
// alerts for critical trends with recent activity. Alerts are retained
// newest-first up to a fixed cap; the active view is a separate 24-hour
// filter, so an alert can age out of the cap before its window expires.
type AlertMonitor struct {
	catalog *TrendCatalog
	sink    AlertSink
	cfg     config.AlertsConfig
	logger  *logger.Logger

	mu          sync.Mutex
	alerts      []*models.TrendAlert
	lastAlerted map[string]time.Time // trend ID -> LastUpdated already alerted on
}

// NewAlertMonitor creates a monitor over the given catalog. sink may be
// nil when no downstream fan-out is configured.
func NewAlertMonitor(catalog *TrendCatalog, sink AlertSink, cfg config.AlertsConfig, log *logger.Logger) *AlertMonitor {
	return &AlertMonitor{
		catalog:     catalog,
		sink:        sink,
		cfg:         cfg,
		logger:      log.WithComponent("alert-monitor"),
		lastAlerted: make(map[string]time.Time),
	}
}

// Run starts the monitoring loop
func (m *AlertMonitor) Run(ctx context.Context) error {
	if !m.cfg.Enabled {
		m.logger.Info().Msg("alert monitoring is disabled")
		return nil
	}

	m.logger.Info().
		Dur("check_interval", m.cfg.CheckInterval).
		Dur("recency_window", m.cfg.RecencyWindow).
		Msg("starting alert monitoring loop")

	// Run immediately on start
	m.sweep(ctx)

	ticker := time.NewTicker(m.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("alert monitoring loop stopped")
			return ctx.Err()
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

// RunOnce performs a single sweep over the catalog
func (m *AlertMonitor) RunOnce(ctx context.Context) {
	m.sweep(ctx)
}

func (m *AlertMonitor) sweep(ctx context.Context) {
	now := time.Now().UTC()
	generated := 0

	for _, trend := range m.catalog.List() {
		if trend.RiskLevel != models.RiskLevelCritical {
			continue
		}
		if now.Sub(trend.LastUpdated) > m.cfg.RecencyWindow {
			continue
		}

		m.mu.Lock()
		already := m.lastAlerted[trend.ID].Equal(trend.LastUpdated)
		m.mu.Unlock()
		if already {
			continue
		}

		alert := m.buildAlert(trend, now)
		m.record(alert)
		m.mu.Lock()
		m.lastAlerted[trend.ID] = trend.LastUpdated
		m.mu.Unlock()

		if m.sink != nil {
			m.sink.Deliver(ctx, alert)
		}
		m.logger.Info().
			Str("trend_id", alert.TrendID).
			Str("alert_type", string(alert.AlertType)).
			Msg("trend alert generated")
		generated++
	}

	if generated > 0 {
		m.logger.Debug().Int("generated", generated).Msg("alert sweep complete")
	}
}

// buildAlert classifies the alert from the trend's most recent delta:
// new tactics outrank case growth, and critical activity is the fallback
// when no delta is recorded.
func (m *AlertMonitor) buildAlert(trend *models.ScamTrend, now time.Time) *models.TrendAlert {
	alertType := models.AlertTypeCritical
	message := fmt.Sprintf("Critical activity on %q (%d reported cases).", trend.Title, trend.ReportedCases)

	if delta, ok := m.catalog.LastDelta(trend.ID); ok {
		switch {
		case len(delta.NewTactics) > 0:
			alertType = models.AlertTypeNewTactic
			message = fmt.Sprintf("New tactics observed for %q: %s.", trend.Title, strings.Join(delta.NewTactics, ", "))
		case delta.CasesAdded > 0:
			alertType = models.AlertTypeCaseSpike
			message = fmt.Sprintf("%d new cases reported for %q in the latest update.", delta.CasesAdded, trend.Title)
		}
	}

	return &models.TrendAlert{
		ID:             uuid.New(),
		TrendID:        trend.ID,
		AlertType:      alertType,
		Severity:       trend.RiskLevel,
		Title:          trend.Title,
		Message:        message,
		ActionRequired: true,
		Timestamp:      now,
	}
}

// record prepends the alert and enforces the retention cap
func (m *AlertMonitor) record(alert *models.TrendAlert) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.alerts = append([]*models.TrendAlert{alert}, m.alerts...)
	if len(m.alerts) > m.cfg.MaxRetained {
		m.alerts = m.alerts[:m.cfg.MaxRetained]
	}
}

// ActiveAlerts returns retained alerts whose timestamp falls within the
// active window, newest first
func (m *AlertMonitor) ActiveAlerts() []*models.TrendAlert {
	cutoff := time.Now().UTC().Add(-m.cfg.ActiveWindow)

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.TrendAlert
	for _, alert := range m.alerts {
		if alert.Timestamp.After(cutoff) {
			out = append(out, alert)
		}
	}
	return out
}
