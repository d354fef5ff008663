package services

import (
	"context"
	"math"
	"sync"
	"time"

	"fraudlens/internal/config"
	"fraudlens/internal/domain/models"
	"fraudlens/pkg/logger"
)

// ExternalClassifier is the outbound dependency consulted for
// high-priority requests. Implementations must collapse every failure
// into an error; the blender never surfaces those to callers.
type ExternalClassifier interface {
	Classify(ctx context.Context, req *models.ScoreRequest) (*models.ExternalResult, error)
}

// BlenderStats counts scoring outcomes since process start
type BlenderStats struct {
	Scored    int64 `json:"scored"`
	Scams     int64 `json:"scams"`
	Blended   int64 `json:"blended"`
	Fallbacks int64 `json:"fallbacks"`
}

// Blender runs the full scoring pipeline: local model always, trend
// correlation always, and the external classifier only for high and
// critical priority requests. External failure falls back to the local
// score and is never an error for the caller.
type Blender struct {
	extractor *SignalExtractor
	patterns  *PatternRegistry
	model     *RiskModel
	matcher   *TrendMatcher
	trainer   *Trainer
	external  ExternalClassifier
	scoring   config.ScoringConfig
	extCfg    config.ExternalConfig
	logger    *logger.Logger

	mu    sync.Mutex
	stats BlenderStats
}

// NewBlender wires the scoring pipeline. external may be nil, which
// disables blending entirely.
func NewBlender(
	extractor *SignalExtractor,
	patterns *PatternRegistry,
	model *RiskModel,
	matcher *TrendMatcher,
	trainer *Trainer,
	external ExternalClassifier,
	scoring config.ScoringConfig,
	extCfg config.ExternalConfig,
	log *logger.Logger,
) *Blender {
	return &Blender{
		extractor: extractor,
		patterns:  patterns,
		model:     model,
		matcher:   matcher,
		trainer:   trainer,
		external:  external,
		scoring:   scoring,
		extCfg:    extCfg,
		logger:    log.WithComponent("blender"),
	}
}

// Score assesses one text. Never returns an error for malformed or empty
// input; the degenerate case is a zero-score, floor-confidence result.
func (b *Blender) Score(ctx context.Context, req *models.ScoreRequest) *models.Assessment {
	signals := b.extractor.Extract(req.Text)
	patternCounts := b.patterns.MatchCounts(req.Text)
	prediction := b.model.Score(signals, patternCounts)
	matches := b.matcher.Match(req.Text)

	finalScore := prediction.RiskScore
	source := "local"
	var externalSignals []string

	if b.shouldBlend(req.Priority) {
		result, err := b.classifyExternal(ctx, req)
		if err != nil {
			b.logger.WithError(err).Warn().Msg("external classification failed, using local score")
			b.bump(func(s *BlenderStats) { s.Fallbacks++ })
		} else {
			finalScore = prediction.RiskScore*(1-b.extCfg.BlendWeight) + result.RiskScore*b.extCfg.BlendWeight
			source = "blended"
			externalSignals = result.Signals
			b.bump(func(s *BlenderStats) { s.Blended++ })
		}
	}

	rounded := int(math.Round(finalScore))
	label := models.LabelLegitimate
	if float64(rounded) > b.scoring.ScamThreshold {
		label = models.LabelScam
	}

	assessment := &models.Assessment{
		RiskScore:     rounded,
		Confidence:    prediction.Confidence,
		Label:         label,
		TopSignals:    b.topSignals(matches, prediction, externalSignals),
		MatchedTrends: matches,
		Source:        source,
		Timestamp:     time.Now().UTC(),
	}

	b.bump(func(s *BlenderStats) {
		s.Scored++
		if label == models.LabelScam {
			s.Scams++
		}
	})

	if b.trainer != nil && prediction.Confidence > b.scoring.AutoLabelConfidence && req.Text != "" {
		b.trainer.Ingest(ctx, req.Text, label, prediction.Confidence)
	}

	return assessment
}

// SubmitFeedback records an explicitly labeled example. Like every
// example it enters the window unverified and is verified by the next
// adaptation pass that replays it.
func (b *Blender) SubmitFeedback(ctx context.Context, text string, label models.Label, confidence float64) *models.TrainingExample {
	return b.trainer.Ingest(ctx, text, label, confidence)
}

// Stats returns a copy of the counters
func (b *Blender) Stats() BlenderStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

func (b *Blender) shouldBlend(priority models.Priority) bool {
	if b.external == nil || !b.extCfg.Enabled {
		return false
	}
	return priority == models.PriorityHigh || priority == models.PriorityCritical
}

func (b *Blender) classifyExternal(ctx context.Context, req *models.ScoreRequest) (*models.ExternalResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, b.extCfg.Timeout)
	defer cancel()
	return b.external.Classify(callCtx, req)
}

// topSignals assembles the explanation: the best-matching trend's title
// leads, then local factors, then anything the external classifier
// reported, capped at five entries.
func (b *Blender) topSignals(matches []models.TrendMatch, prediction *models.Prediction, externalSignals []string) []string {
	var signals []string
	if len(matches) > 0 {
		signals = append(signals, matches[0].Title)
	}
	for _, f := range prediction.Factors {
		signals = append(signals, f.Name)
	}
	signals = append(signals, externalSignals...)

	if len(signals) > maxExplainedFactors {
		signals = signals[:maxExplainedFactors]
	}
	return signals
}

func (b *Blender) bump(fn func(*BlenderStats)) {
	b.mu.Lock()
	fn(&b.stats)
	b.mu.Unlock()
}
