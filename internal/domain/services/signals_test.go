package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudlens/pkg/logger"
)

func newTestExtractor(t *testing.T) *SignalExtractor {
	t.Helper()
	return NewSignalExtractor(logger.NewDefault())
}

func TestExtractEmptyText(t *testing.T) {
	e := newTestExtractor(t)

	signals := e.Extract("")

	assert.Equal(t, 0.0, signals.Urgency)
	assert.Equal(t, 0.0, signals.FearLanguage)
	assert.Equal(t, 0.0, signals.Impersonation)
	assert.Equal(t, 0.0, signals.FinancialRequest)
	assert.Equal(t, 0.5, signals.GrammarQuality)
	assert.Equal(t, 0.0, signals.LengthScore)
	assert.Equal(t, 0.0, signals.CapsRatio)
	assert.Empty(t, signals.PhoneNumbers)
	assert.Empty(t, signals.EmailAddresses)
	assert.Empty(t, signals.URLs)
}

func TestKeywordScores(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name    string
		text    string
		check   func(t *testing.T, urgency, fear, impersonation, financial float64)
	}{
		{
			name: "urgency keywords",
			text: "This is urgent, act immediately before it expires.",
			check: func(t *testing.T, urgency, fear, impersonation, financial float64) {
				assert.InDelta(t, 3.0/6.0, urgency, 1e-9)
				assert.Zero(t, fear)
			},
		},
		{
			name: "fear keywords",
			text: "Your account has been suspended and locked pending legal action.",
			check: func(t *testing.T, urgency, fear, impersonation, financial float64) {
				assert.InDelta(t, 3.0/6.0, fear, 1e-9)
			},
		},
		{
			name: "impersonation keywords",
			text: "The social security administration and the irs are federal agencies.",
			check: func(t *testing.T, urgency, fear, impersonation, financial float64) {
				assert.InDelta(t, 3.0/6.0, impersonation, 1e-9)
			},
		},
		{
			name: "financial keywords",
			text: "Send payment by wire transfer or gift card plus a processing fee in bitcoin with your account information.",
			check: func(t *testing.T, urgency, fear, impersonation, financial float64) {
				assert.Equal(t, 1.0, financial)
			},
		},
		{
			name: "benign text scores zero",
			text: "Looking forward to seeing you at dinner on Saturday.",
			check: func(t *testing.T, urgency, fear, impersonation, financial float64) {
				assert.Zero(t, urgency)
				assert.Zero(t, fear)
				assert.Zero(t, impersonation)
				assert.Zero(t, financial)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := e.Extract(tt.text)
			tt.check(t, s.Urgency, s.FearLanguage, s.Impersonation, s.FinancialRequest)
		})
	}
}

func TestEntityExtraction(t *testing.T) {
	e := newTestExtractor(t)

	s := e.Extract("Call 1-800-555-0123 or email refund@support-desk.example.com, details at https://claim.example.com/now")

	require.Len(t, s.PhoneNumbers, 1)
	assert.Contains(t, s.PhoneNumbers[0], "800")
	require.Len(t, s.EmailAddresses, 1)
	assert.Equal(t, "refund@support-desk.example.com", s.EmailAddresses[0])
	require.Len(t, s.URLs, 1)
	assert.Equal(t, "https://claim.example.com/now", s.URLs[0])
}

func TestGrammarQuality(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{"clean sentence", "Your statement is ready.", 1.0},
		{"no terminal punctuation", "Your statement is ready", 0.8},
		{"too many exclamations", "Act now!! Don't wait!!", 0.8},
		{"misspellings stack", "You will recieve your acount details untill friday.", 0.55},
		{"floor at zero", "recieve seperate occured untill acount verfiy informations", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := e.Extract(tt.text)
			assert.InDelta(t, tt.expected, s.GrammarQuality, 1e-9)
		})
	}
}

func TestCapsScore(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{"all caps saturates", "YOUR ACCOUNT IS SUSPENDED.", 1.0},
		{"moderate caps", "URGENT notice for your account", 0.7},
		{"lowercase scales linearly", "nothing shouted here at all", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := e.Extract(tt.text)
			assert.InDelta(t, tt.expected, s.CapsRatio, 1e-9)
		})
	}
}

func TestLengthScore(t *testing.T) {
	e := newTestExtractor(t)

	atOptimal := strings.Repeat("a", optimalTextLength)
	assert.Equal(t, 1.0, e.Extract(atOptimal).LengthScore)

	short := e.Extract("hi").LengthScore
	assert.Less(t, short, 0.1)

	far := e.Extract(strings.Repeat("a", optimalTextLength*3)).LengthScore
	assert.Equal(t, 0.0, far)
}

func TestSubScoresBounded(t *testing.T) {
	e := newTestExtractor(t)

	texts := []string{
		"",
		"URGENT URGENT URGENT act now immediately!!! expires right away final notice",
		strings.Repeat("suspended arrest penalty compromised locked legal action ", 50),
		"normal friendly message with nothing special in it.",
	}

	for _, text := range texts {
		for name, v := range e.Extract(text).Named() {
			assert.GreaterOrEqual(t, v, 0.0, "%s for %q", name, text)
			assert.LessOrEqual(t, v, 1.0, "%s for %q", name, text)
		}
	}
}
