package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fraudlens/internal/config"
	"fraudlens/internal/domain/models"
	"fraudlens/pkg/logger"
)

const adaptLockKey = "fraudlens:training:adapt"

// TrainingRepository persists examples and weight snapshots.
// A nil repository disables persistence.
type TrainingRepository interface {
	SaveExample(ctx context.Context, ex *models.TrainingExample) error
	SaveWeights(ctx context.Context, snap *models.WeightSnapshot) error
}

// AdaptLocker serializes weight adaptation across instances.
// A nil locker means this is the only writer.
type AdaptLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// Trainer accumulates labeled examples and periodically nudges model
// weights toward the labels. All mutation happens under one mutex, so
// there is a single writer to the model at any time.
type Trainer struct {
	model     *RiskModel
	extractor *SignalExtractor
	patterns  *PatternRegistry
	repo      TrainingRepository
	locker    AdaptLocker
	cfg       config.TrainingConfig
	logger    *logger.Logger

	mu          sync.Mutex
	examples    []*models.TrainingExample
	pending     int
	adaptations int
}

// NewTrainer creates a trainer bound to the given model
func NewTrainer(
	model *RiskModel,
	extractor *SignalExtractor,
	patterns *PatternRegistry,
	repo TrainingRepository,
	locker AdaptLocker,
	cfg config.TrainingConfig,
	log *logger.Logger,
) *Trainer {
	return &Trainer{
		model:     model,
		extractor: extractor,
		patterns:  patterns,
		repo:      repo,
		locker:    locker,
		cfg:       cfg,
		logger:    log.WithComponent("trainer"),
	}
}

// Ingest derives features for text, stores it as a training example and
// triggers an adaptation pass once enough new examples have accumulated.
// Every example starts unverified; the adaptation pass that replays it
// marks it verified.
func (t *Trainer) Ingest(ctx context.Context, text string, label models.Label, confidence float64) *models.TrainingExample {
	signals := t.extractor.Extract(text)
	counts := signals.Counts()
	for category, c := range t.patterns.MatchCounts(text) {
		counts[category] = c
	}

	ex := &models.TrainingExample{
		ID:         uuid.New(),
		Text:       text,
		Signals:    signals.Named(),
		Counts:     counts,
		Label:      label,
		Confidence: confidence,
		Timestamp:  time.Now().UTC(),
	}

	t.mu.Lock()
	t.examples = append(t.examples, ex)
	t.pending++
	if t.pending >= t.cfg.BatchThreshold {
		t.adapt(ctx)
	}
	// snapshot under the mutex so a concurrent adaptation pass cannot
	// flip the verified flag while the example is being persisted
	persisted := *ex
	t.mu.Unlock()

	if t.repo != nil {
		if err := t.repo.SaveExample(ctx, &persisted); err != nil {
			t.logger.WithError(err).Warn().Msg("failed to persist training example")
		}
	}
	return ex
}

// Restore seeds the example window from persisted examples, oldest
// first. Restored examples carry no pending credit toward the next
// adaptation pass.
func (t *Trainer) Restore(examples []*models.TrainingExample) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.examples = append([]*models.TrainingExample(nil), examples...)
}

// adapt replays the most recent window of examples against the current
// weights and nudges the top contributing factors of every misclassified
// example by the learning rate, toward the example's label. Caller holds
// the mutex.
func (t *Trainer) adapt(ctx context.Context) {
	if t.locker != nil {
		ok, err := t.locker.AcquireLock(ctx, adaptLockKey, 30*time.Second)
		if err != nil {
			t.logger.WithError(err).Warn().Msg("adaptation lock unavailable, deferring")
			return
		}
		if !ok {
			t.logger.Debug().Msg("adaptation running elsewhere, deferring")
			return
		}
		defer func() {
			if err := t.locker.ReleaseLock(ctx, adaptLockKey); err != nil {
				t.logger.WithError(err).Warn().Msg("failed to release adaptation lock")
			}
		}()
	}

	window := t.examples
	if len(window) > t.cfg.WindowSize {
		window = window[len(window)-t.cfg.WindowSize:]
	}

	adjusted := 0
	for _, ex := range window {
		pred := t.model.ScoreFeatures(ex.Signals, ex.Counts)
		predicted := models.LabelLegitimate
		if pred.IsScam {
			predicted = models.LabelScam
		}
		if predicted == ex.Label {
			continue
		}

		delta := t.cfg.LearningRate
		if ex.Label == models.LabelLegitimate {
			delta = -delta
		}
		for _, f := range pred.Factors {
			t.model.AdjustWeight(f.Name, delta)
		}
		adjusted++
	}

	var flipped []models.TrainingExample
	for _, ex := range window {
		if !ex.Verified {
			ex.Verified = true
			flipped = append(flipped, *ex)
		}
	}
	t.pending = 0
	t.adaptations++

	t.logger.Info().
		Int("window", len(window)).
		Int("misclassified", adjusted).
		Int("adaptations", t.adaptations).
		Msg("weight adaptation pass complete")

	if t.repo != nil {
		// write the verified flips back so the store tracks the window
		for i := range flipped {
			if err := t.repo.SaveExample(ctx, &flipped[i]); err != nil {
				t.logger.WithError(err).Warn().Msg("failed to persist verified example")
			}
		}
		snap := &models.WeightSnapshot{
			Weights:     t.model.Weights(),
			SavedAt:     time.Now().UTC(),
			Adaptations: t.adaptations,
		}
		if err := t.repo.SaveWeights(ctx, snap); err != nil {
			t.logger.WithError(err).Warn().Msg("failed to persist weight snapshot")
		}
	}
}

// Adaptations returns how many adaptation passes have completed
func (t *Trainer) Adaptations() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.adaptations
}

// Accuracy replays every verified example against the current weights and
// returns the fraction the model now classifies correctly, recomputed on
// demand. Returns zero when nothing is verified yet.
func (t *Trainer) Accuracy() (float64, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	correct, verified := 0, 0
	for _, ex := range t.examples {
		if !ex.Verified {
			continue
		}
		verified++
		pred := t.model.ScoreFeatures(ex.Signals, ex.Counts)
		if pred.IsScam == (ex.Label == models.LabelScam) {
			correct++
		}
	}
	if verified == 0 {
		return 0, 0
	}
	return float64(correct) / float64(verified), verified
}

// TrainerStats is a point-in-time summary of the training state
type TrainerStats struct {
	Examples    int     `json:"examples"`
	Verified    int     `json:"verified"`
	Pending     int     `json:"pending"`
	Adaptations int     `json:"adaptations"`
	Accuracy    float64 `json:"accuracy"`
}

// Stats reports example counts, adaptation passes and current accuracy
func (t *Trainer) Stats() TrainerStats {
	accuracy, _ := t.Accuracy()

	t.mu.Lock()
	defer t.mu.Unlock()

	verified := 0
	for _, ex := range t.examples {
		if ex.Verified {
			verified++
		}
	}
	return TrainerStats{
		Examples:    len(t.examples),
		Verified:    verified,
		Pending:     t.pending,
		Adaptations: t.adaptations,
		Accuracy:    accuracy,
	}
}
