package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudlens/internal/domain/models"
	"fraudlens/pkg/logger"
)

func newSeededCatalog(t *testing.T) *TrendCatalog {
	t.Helper()
	return NewTrendCatalog(nil, logger.NewDefault())
}

func TestCatalogListSortedByReportedCases(t *testing.T) {
	catalog := newSeededCatalog(t)

	trends := catalog.List()
	require.NotEmpty(t, trends)
	for i := 1; i < len(trends); i++ {
		assert.GreaterOrEqual(t, trends[i-1].ReportedCases, trends[i].ReportedCases)
	}
}

func TestCatalogGetReturnsCopy(t *testing.T) {
	catalog := newSeededCatalog(t)

	trend, ok := catalog.Get("gov-benefits-suspension")
	require.True(t, ok)

	trend.ReportedCases = 0
	again, _ := catalog.Get("gov-benefits-suspension")
	assert.Equal(t, 18400, again.ReportedCases)
}

func TestCatalogSearch(t *testing.T) {
	catalog := newSeededCatalog(t)

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"keyword match", "lottery", []string{"prize-advance-fee"}},
		{"title match", "romance", []string{"romance-military"}},
		{"tactic match", "remote access", []string{"tech-support-refund"}},
		{"case insensitive", "LOTTERY", []string{"prize-advance-fee"}},
		{"no match", "gardening", nil},
		{"empty query", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := catalog.Search(tt.query)
			ids := make([]string, 0, len(results))
			for _, r := range results {
				ids = append(ids, r.ID)
			}
			for _, want := range tt.expected {
				assert.Contains(t, ids, want)
			}
			if tt.expected == nil {
				assert.Empty(t, results)
			}
		})
	}
}

func TestApplyUpdate(t *testing.T) {
	catalog := newSeededCatalog(t)
	when := time.Now().UTC()

	err := catalog.ApplyUpdate(&models.TrendUpdateEvent{
		TrendID:    "gov-benefits-suspension",
		NewCases:   250,
		NewTactics: []string{"callback voicemail", "Fear Induction"},
		Regions:    []string{"UK", "us"},
		Timestamp:  when,
	})
	require.NoError(t, err)

	trend, _ := catalog.Get("gov-benefits-suspension")
	assert.Equal(t, 18650, trend.ReportedCases)
	assert.Contains(t, trend.Tactics, "callback voicemail")
	assert.Equal(t, when, trend.LastUpdated)

	// already-known tactic and region are deduplicated case-insensitively
	assert.Len(t, trend.Tactics, 5)
	assert.Equal(t, []string{"US", "CA", "UK"}, trend.Regions)

	delta, ok := catalog.LastDelta("gov-benefits-suspension")
	require.True(t, ok)
	assert.Equal(t, 250, delta.CasesAdded)
	assert.Equal(t, []string{"callback voicemail"}, delta.NewTactics)
}

func TestApplyUpdateUnknownTrend(t *testing.T) {
	catalog := newSeededCatalog(t)

	err := catalog.ApplyUpdate(&models.TrendUpdateEvent{TrendID: "no-such-trend", NewCases: 1})
	assert.ErrorIs(t, err, ErrTrendNotFound)

	_, ok := catalog.LastDelta("no-such-trend")
	assert.False(t, ok)
}

func TestApplyUpdateZeroTimestampDefaultsToNow(t *testing.T) {
	catalog := newSeededCatalog(t)
	before := time.Now().UTC()

	err := catalog.ApplyUpdate(&models.TrendUpdateEvent{TrendID: "romance-military", NewCases: 10})
	require.NoError(t, err)

	trend, _ := catalog.Get("romance-military")
	assert.False(t, trend.LastUpdated.Before(before))
}

func TestTrendMatching(t *testing.T) {
	matcher := NewTrendMatcher(newSeededCatalog(t), logger.NewDefault())

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "single keyword qualifies",
			text:     "did you hear about the lottery draw",
			expected: []string{"prize-advance-fee"},
		},
		{
			name:     "single tactic does not qualify",
			text:     "act now",
			expected: nil,
		},
		{
			name:     "empty text matches nothing",
			text:     "   ",
			expected: nil,
		},
		{
			name:     "benefits scam matches government trend",
			text:     "Your social security benefits are suspended",
			expected: []string{"gov-benefits-suspension"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := matcher.Match(tt.text)
			ids := make([]string, 0, len(matches))
			for _, m := range matches {
				ids = append(ids, m.TrendID)
			}
			assert.Equal(t, tt.expected, func() []string {
				if len(ids) == 0 {
					return nil
				}
				return ids
			}())
		})
	}
}

func TestTrendMatchOrderedByReportedCases(t *testing.T) {
	matcher := NewTrendMatcher(newSeededCatalog(t), logger.NewDefault())

	// the government trend has the stronger textual match but fewer
	// reported cases than the smishing trend; reach wins
	matches := matcher.Match("urgent package delivery customs fee, your social security benefits suspended")

	require.GreaterOrEqual(t, len(matches), 2)
	assert.Equal(t, "delivery-fee-smishing", matches[0].TrendID)
	assert.Equal(t, "gov-benefits-suspension", matches[1].TrendID)
	assert.Greater(t, matches[1].MatchScore, matches[0].MatchScore)
}

func TestTrendMatchDetails(t *testing.T) {
	matcher := NewTrendMatcher(newSeededCatalog(t), logger.NewDefault())

	matches := matcher.Match("Your social security benefits are suspended")
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, 18400, m.ReportedCases)
	assert.ElementsMatch(t, []string{"social security", "benefits", "suspended"}, m.MatchedKeywords)
	assert.Contains(t, m.MatchedTactics, "authority impersonation")
	assert.Contains(t, m.MatchedTactics, "fear induction")
	assert.Equal(t, 2*3+2, m.MatchScore)
}
