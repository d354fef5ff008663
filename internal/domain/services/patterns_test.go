package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudlens/pkg/logger"
)

func TestMatchCounts(t *testing.T) {
	r := NewPatternRegistry(logger.NewDefault())

	tests := []struct {
		name     string
		text     string
		expected map[string]int
	}{
		{
			name: "government impersonation text",
			text: "URGENT: Your Social Security benefits will be suspended immediately unless you call 1-800-555-0123 to verify your account information.",
			expected: map[string]int{
				CategoryUrgentAction:      2,
				CategoryAuthorityImperson: 1,
				CategoryFearTactics:       1,
				CategoryVerification:      1,
				CategoryContactPressure:   1,
			},
		},
		{
			name: "tech support text",
			text: "Virus detected on your computer! Call now and install AnyDesk for remote access.",
			expected: map[string]int{
				CategoryTechSupport:     3,
				CategoryContactPressure: 1,
			},
		},
		{
			name: "prize text",
			text: "Congratulations! You have won the lottery, claim your prize after paying a processing fee by gift card.",
			expected: map[string]int{
				CategoryPrizeLottery:  4,
				CategoryFinancialLure: 2,
			},
		},
		{
			name:     "benign text",
			text:     "Hi John, your monthly bank statement is now available at your convenience.",
			expected: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := r.MatchCounts(tt.text)
			for _, cat := range r.Categories() {
				assert.Equal(t, tt.expected[cat], counts[cat], "category %s", cat)
			}
		})
	}
}

func TestMatchCountsUncapped(t *testing.T) {
	r := NewPatternRegistry(logger.NewDefault())

	counts := r.MatchCounts("urgent urgent urgent urgent urgent")
	assert.Equal(t, 5, counts[CategoryUrgentAction])
}

func TestMatchCaseInsensitive(t *testing.T) {
	r := NewPatternRegistry(logger.NewDefault())

	lower := r.MatchCounts("social security suspended")
	upper := r.MatchCounts("SOCIAL SECURITY SUSPENDED")
	assert.Equal(t, lower, upper)
}

func TestIRSWordBoundary(t *testing.T) {
	r := NewPatternRegistry(logger.NewDefault())

	assert.Zero(t, r.MatchCounts("the first thirst")[CategoryAuthorityImperson])
	assert.Equal(t, 1, r.MatchCounts("a call from the IRS")[CategoryAuthorityImperson])
}

func TestMatchEvidence(t *testing.T) {
	r := NewPatternRegistry(logger.NewDefault())

	matches := r.Match("Act now, your account was suspended. Verify your identity.")

	byCategory := make(map[string][]string)
	for _, m := range matches {
		byCategory[m.Category] = m.Matches
		assert.Equal(t, len(m.Matches), m.Count)
	}

	require.Contains(t, byCategory, CategoryUrgentAction)
	assert.Contains(t, byCategory[CategoryUrgentAction], "Act now")
	require.Contains(t, byCategory, CategoryFearTactics)
	require.Contains(t, byCategory, CategoryVerification)
}
