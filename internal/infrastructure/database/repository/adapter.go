package repository

import (
	"context"

	"fraudlens/internal/domain/models"
)

// TrainerPersistenceAdapter adapts the training and weight repositories
// to the single interface the trainer expects
type TrainerPersistenceAdapter struct {
	training *TrainingRepository
	weights  *WeightRepository
}

// NewTrainerPersistenceAdapter creates a new adapter
func NewTrainerPersistenceAdapter(training *TrainingRepository, weights *WeightRepository) *TrainerPersistenceAdapter {
	return &TrainerPersistenceAdapter{
		training: training,
		weights:  weights,
	}
}

// SaveExample persists one training example
func (a *TrainerPersistenceAdapter) SaveExample(ctx context.Context, ex *models.TrainingExample) error {
	return a.training.SaveExample(ctx, ex)
}

// SaveWeights persists one weight snapshot
func (a *TrainerPersistenceAdapter) SaveWeights(ctx context.Context, snap *models.WeightSnapshot) error {
	return a.weights.SaveSnapshot(ctx, snap)
}
