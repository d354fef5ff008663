package services

import (
	"math"
	"sort"
	"sync"

	"fraudlens/internal/domain/models"
	"fraudlens/pkg/logger"
)

const (
	// Entity and pattern counts are scaled by this factor, capped at 1.0,
	// before weighting. Counts themselves are never capped upstream.
	countScale = 0.6

	// Number of contributing factors kept for explainability
	maxExplainedFactors = 5
)

// RiskModel combines extracted signals and pattern counts into a 0-100
// risk score with a confidence estimate. Weights are read under RLock so
// scoring can run concurrently; only the weight adapter writes.
type RiskModel struct {
	mu      sync.RWMutex
	weights map[string]float64
	logger  *logger.Logger
}

// DefaultWeights returns the seed weight table. Positive weights push
// toward scam, negative toward legitimate. Grammar quality is centered on
// its neutral value before weighting, so clean grammar lowers risk and
// sloppy grammar raises it.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		models.SignalUrgency:          1.2,
		models.SignalFearLanguage:     1.5,
		models.SignalImpersonation:    1.5,
		models.SignalFinancialRequest: 1.3,
		models.SignalGrammarQuality:   -0.6,
		models.SignalLengthScore:      0.0,
		models.SignalCapsRatio:        0.6,
		models.SignalPhoneNumbers:     0.8,
		models.SignalEmailAddresses:   0.3,
		models.SignalURLs:             0.6,

		CategoryUrgentAction:      1.4,
		CategoryAuthorityImperson: 1.6,
		CategoryFearTactics:       1.5,
		CategoryFinancialLure:     1.4,
		CategoryVerification:      1.3,
		CategoryContactPressure:   1.1,
		CategoryTechSupport:       1.4,
		CategoryPrizeLottery:      1.5,
	}
}

// NewRiskModel creates a risk model with the given weights, or the
// defaults when weights is nil
func NewRiskModel(weights map[string]float64, log *logger.Logger) *RiskModel {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &RiskModel{
		weights: weights,
		logger:  log.WithComponent("risk-model"),
	}
}

// Score runs the model over a freshly extracted SignalSet and the raw
// pattern counts for the same text
func (m *RiskModel) Score(signals models.SignalSet, patternCounts map[string]int) *models.Prediction {
	counts := signals.Counts()
	for k, v := range patternCounts {
		counts[k] = v
	}
	return m.ScoreFeatures(signals.Named(), counts)
}

// ScoreFeatures runs the model over pre-derived feature values, as stored
// on training examples. Sub-scores arrive in [0,1]; counts are scaled by
// countScale and capped at 1.0. A feature fires when both its value and
// its weight are non-zero.
func (m *RiskModel) ScoreFeatures(signals map[string]float64, counts map[string]int) *models.Prediction {
	values := make(map[string]float64, len(signals)+len(counts))
	for name, v := range signals {
		if name == models.SignalGrammarQuality {
			// deviation from neutral, so empty text contributes nothing
			v -= 0.5
		}
		values[name] = v
	}
	for name, c := range counts {
		values[name] = math.Min(float64(c)*countScale, 1.0)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		totalScore  float64
		totalWeight float64
		factors     []models.Factor
	)

	for name, value := range values {
		weight := m.weights[name]
		if weight == 0 || value == 0 {
			continue
		}
		contribution := value * weight
		totalScore += contribution
		totalWeight += math.Abs(weight)
		factors = append(factors, models.Factor{
			Name:         name,
			Value:        value,
			Weight:       weight,
			Contribution: contribution,
		})
	}

	if len(factors) == 0 {
		return &models.Prediction{RiskScore: 0, Confidence: 0.5}
	}

	normalized := totalScore / totalWeight
	riskScore := clamp((normalized+1)*50, 0, 100)
	confidence := clamp(0.5+math.Abs(normalized)*0.8+float64(len(factors))*0.05, 0.5, 0.95)

	sort.Slice(factors, func(i, j int) bool {
		return math.Abs(factors[i].Contribution) > math.Abs(factors[j].Contribution)
	})
	fired := len(factors)
	if len(factors) > maxExplainedFactors {
		factors = factors[:maxExplainedFactors]
	}

	return &models.Prediction{
		RiskScore:     riskScore,
		Confidence:    confidence,
		IsScam:        riskScore > 50,
		Factors:       factors,
		FiredFeatures: fired,
	}
}

// Weights returns a copy of the current weight table
func (m *RiskModel) Weights() map[string]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]float64, len(m.weights))
	for k, v := range m.weights {
		out[k] = v
	}
	return out
}

// SetWeights replaces the weight table, e.g. when restoring a snapshot
func (m *RiskModel) SetWeights(weights map[string]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.weights = make(map[string]float64, len(weights))
	for k, v := range weights {
		m.weights[k] = v
	}
}

// AdjustWeight nudges one named weight by delta. Only the weight adapter
// calls this, under its own single-writer discipline.
func (m *RiskModel) AdjustWeight(name string, delta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weights[name] += delta
}

// clamp bounds a value to [min, max]
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
