package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudlens/internal/domain/models"
	"fraudlens/pkg/logger"
)

const (
	benefitsScamText = "URGENT: Your Social Security benefits will be suspended immediately unless you call 1-800-555-0123 to verify your account information."
	bankNoticeText   = "Your monthly bank statement is ready for review. Please log into your account through our secure website."
)

func newScoringPipeline(t *testing.T) (*SignalExtractor, *PatternRegistry, *RiskModel) {
	t.Helper()
	log := logger.NewDefault()
	return NewSignalExtractor(log), NewPatternRegistry(log), NewRiskModel(nil, log)
}

func scoreText(t *testing.T, text string) *models.Prediction {
	t.Helper()
	extractor, patterns, model := newScoringPipeline(t)
	return model.Score(extractor.Extract(text), patterns.MatchCounts(text))
}

func TestScoreBenefitsScam(t *testing.T) {
	pred := scoreText(t, benefitsScamText)

	assert.GreaterOrEqual(t, pred.RiskScore, 70.0)
	assert.True(t, pred.IsScam)
	assert.InDelta(t, 0.95, pred.Confidence, 1e-9)

	require.Len(t, pred.Factors, maxExplainedFactors)
	names := make([]string, len(pred.Factors))
	for i, f := range pred.Factors {
		names[i] = f.Name
	}
	assert.Contains(t, names, CategoryAuthorityImperson)
	assert.Contains(t, names, CategoryFearTactics)
	assert.Contains(t, names, CategoryUrgentAction)
	assert.Greater(t, pred.FiredFeatures, maxExplainedFactors)
}

func TestScoreLegitimateNotice(t *testing.T) {
	pred := scoreText(t, bankNoticeText)

	assert.InDelta(t, 39.4157, pred.RiskScore, 1e-3)
	assert.False(t, pred.IsScam)
	assert.Equal(t, 2, pred.FiredFeatures, "only grammar and capitalization fire")
}

func TestScoreEmptyText(t *testing.T) {
	pred := scoreText(t, "")

	assert.Equal(t, 0.0, pred.RiskScore)
	assert.Equal(t, 0.5, pred.Confidence)
	assert.False(t, pred.IsScam)
	assert.Empty(t, pred.Factors)
}

func TestScoreBounds(t *testing.T) {
	texts := []string{
		"",
		benefitsScamText,
		bankNoticeText,
		"URGENT!!! WIRE TRANSFER NOW!!! YOUR ACCOUNT IS SUSPENDED!!! recieve acount untill",
		"ok.",
	}

	for _, text := range texts {
		pred := scoreText(t, text)
		assert.GreaterOrEqual(t, pred.RiskScore, 0.0, "text %q", text)
		assert.LessOrEqual(t, pred.RiskScore, 100.0, "text %q", text)
		assert.GreaterOrEqual(t, pred.Confidence, 0.5, "text %q", text)
		assert.LessOrEqual(t, pred.Confidence, 0.95, "text %q", text)
	}
}

func TestScoreDeterministic(t *testing.T) {
	first := scoreText(t, benefitsScamText)
	second := scoreText(t, benefitsScamText)

	assert.Equal(t, first.RiskScore, second.RiskScore)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.FiredFeatures, second.FiredFeatures)
}

func TestScoreMonotonicUnderAddedSignal(t *testing.T) {
	base := "Please call now about your package delivery."
	escalated := base + " Your account is suspended pending legal action, pay the processing fee by gift card."

	assert.Greater(t, scoreText(t, escalated).RiskScore, scoreText(t, base).RiskScore)
}

func TestScamDecisionThreshold(t *testing.T) {
	_, _, model := newScoringPipeline(t)

	// a single feature fully fired on a weight-1.0 model lands exactly on
	// the boundary cases around 50
	model.SetWeights(map[string]float64{"only": 1.0})

	atMax := model.ScoreFeatures(map[string]float64{"only": 1.0}, nil)
	assert.Equal(t, 100.0, atMax.RiskScore)
	assert.True(t, atMax.IsScam)

	model.SetWeights(map[string]float64{"pos": 1.0, "neg": -1.0})
	balanced := model.ScoreFeatures(map[string]float64{"pos": 1.0, "neg": 1.0}, nil)
	assert.Equal(t, 50.0, balanced.RiskScore)
	assert.False(t, balanced.IsScam, "exactly 50 is not a scam")
}

func TestFactorsSortedByAbsoluteContribution(t *testing.T) {
	pred := scoreText(t, benefitsScamText)

	require.NotEmpty(t, pred.Factors)
	for i := 1; i < len(pred.Factors); i++ {
		prev := pred.Factors[i-1].Contribution
		cur := pred.Factors[i].Contribution
		if prev < 0 {
			prev = -prev
		}
		if cur < 0 {
			cur = -cur
		}
		assert.GreaterOrEqual(t, prev, cur)
	}
}

func TestGrammarDeviationCutsBothWays(t *testing.T) {
	_, _, model := newScoringPipeline(t)

	clean := model.ScoreFeatures(map[string]float64{models.SignalGrammarQuality: 1.0}, nil)
	sloppy := model.ScoreFeatures(map[string]float64{models.SignalGrammarQuality: 0.0}, nil)
	neutral := model.ScoreFeatures(map[string]float64{models.SignalGrammarQuality: 0.5}, nil)

	// grammar weight is negative, so clean grammar pulls below 50 and
	// sloppy grammar pushes above
	assert.Less(t, clean.RiskScore, 50.0)
	assert.Greater(t, sloppy.RiskScore, 50.0)
	assert.Equal(t, 0.0, neutral.RiskScore, "neutral grammar fires nothing")
	assert.Equal(t, 0.5, neutral.Confidence)
}

func TestCountScaling(t *testing.T) {
	_, _, model := newScoringPipeline(t)
	model.SetWeights(map[string]float64{models.SignalPhoneNumbers: 1.0})

	one := model.ScoreFeatures(nil, map[string]int{models.SignalPhoneNumbers: 1})
	two := model.ScoreFeatures(nil, map[string]int{models.SignalPhoneNumbers: 2})
	many := model.ScoreFeatures(nil, map[string]int{models.SignalPhoneNumbers: 10})

	assert.InDelta(t, 0.6, one.Factors[0].Value, 1e-9)
	assert.InDelta(t, 1.0, two.Factors[0].Value, 1e-9)
	assert.InDelta(t, 1.0, many.Factors[0].Value, 1e-9, "scaled counts cap at 1.0")
	assert.Greater(t, two.RiskScore, one.RiskScore)
}

func TestAdjustWeight(t *testing.T) {
	_, _, model := newScoringPipeline(t)

	before := model.Weights()[CategoryUrgentAction]
	model.AdjustWeight(CategoryUrgentAction, 0.01)
	model.AdjustWeight(CategoryUrgentAction, 0.01)

	assert.InDelta(t, before+0.02, model.Weights()[CategoryUrgentAction], 1e-9)
}

func TestWeightsReturnsCopy(t *testing.T) {
	_, _, model := newScoringPipeline(t)

	w := model.Weights()
	w[CategoryUrgentAction] = 99.0

	assert.NotEqual(t, 99.0, model.Weights()[CategoryUrgentAction])
}
