package services

import (
	"context"
	"time"

	"fraudlens/internal/config"
	"fraudlens/internal/domain/models"
	"fraudlens/pkg/logger"
)

// WeightStore persists model weight snapshots
type WeightStore interface {
	SaveSnapshot(ctx context.Context, snap *models.WeightSnapshot) error
}

// TrendStore persists catalog trends
type TrendStore interface {
	Upsert(ctx context.Context, trend *models.ScamTrend) error
}

// Snapshotter periodically writes model weights and the trend catalog
// to durable storage. All in-memory state stays authoritative; snapshots
// exist only so a restart resumes close to where it left off.
type Snapshotter struct {
	model   *RiskModel
	trainer *Trainer
	catalog *TrendCatalog
	weights WeightStore
	trends  TrendStore
	cfg     config.SnapshotConfig
	logger  *logger.Logger
}

// NewSnapshotter creates a snapshotter
func NewSnapshotter(
	model *RiskModel,
	trainer *Trainer,
	catalog *TrendCatalog,
	weights WeightStore,
	trends TrendStore,
	cfg config.SnapshotConfig,
	log *logger.Logger,
) *Snapshotter {
	return &Snapshotter{
		model:   model,
		trainer: trainer,
		catalog: catalog,
		weights: weights,
		trends:  trends,
		cfg:     cfg,
		logger:  log.WithComponent("snapshotter"),
	}
}

// Run starts the snapshot loop
func (s *Snapshotter) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("snapshots are disabled")
		return nil
	}

	s.logger.Info().Dur("interval", s.cfg.Interval).Msg("starting snapshot loop")

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final snapshot on shutdown, under its own deadline
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.snapshot(flushCtx)
			cancel()
			s.logger.Info().Msg("snapshot loop stopped")
			return ctx.Err()
		case <-ticker.C:
			s.snapshot(ctx)
		}
	}
}

func (s *Snapshotter) snapshot(ctx context.Context) {
	if s.weights != nil {
		snap := &models.WeightSnapshot{
			Weights:     s.model.Weights(),
			SavedAt:     time.Now().UTC(),
			Adaptations: s.trainer.Stats().Adaptations,
		}
		if err := s.weights.SaveSnapshot(ctx, snap); err != nil {
			s.logger.Warn().Err(err).Msg("failed to snapshot weights")
		}
	}

	if s.trends != nil {
		saved := 0
		for _, trend := range s.catalog.List() {
			if err := s.trends.Upsert(ctx, trend); err != nil {
				s.logger.Warn().Err(err).Str("trend_id", trend.ID).Msg("failed to snapshot trend")
				continue
			}
			saved++
		}
		s.logger.Debug().Int("trends", saved).Msg("snapshot complete")
	}
}
