package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fraudlens/internal/domain/models"
)

// WeightRepository persists model weight snapshots
type WeightRepository struct {
	pool *pgxpool.Pool
}

// NewWeightRepository creates a new weight snapshot repository
func NewWeightRepository(pool *pgxpool.Pool) *WeightRepository {
	return &WeightRepository{pool: pool}
}

// SaveSnapshot appends one snapshot
func (r *WeightRepository) SaveSnapshot(ctx context.Context, snap *models.WeightSnapshot) error {
	query := `
		INSERT INTO weight_snapshots (weights, adaptations, saved_at)
		VALUES ($1, $2, $3)`

	if _, err := r.pool.Exec(ctx, query, snap.Weights, snap.Adaptations, snap.SavedAt); err != nil {
		return fmt.Errorf("failed to save weight snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recent snapshot, or nil when none exists
func (r *WeightRepository) Latest(ctx context.Context) (*models.WeightSnapshot, error) {
	query := `
		SELECT weights, adaptations, saved_at
		FROM weight_snapshots
		ORDER BY saved_at DESC, id DESC
		LIMIT 1`

	var snap models.WeightSnapshot
	err := r.pool.QueryRow(ctx, query).Scan(&snap.Weights, &snap.Adaptations, &snap.SavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load weight snapshot: %w", err)
	}
	return &snap, nil
}
