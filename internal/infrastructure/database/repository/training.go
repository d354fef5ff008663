package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fraudlens/internal/domain/models"
)

// TrainingRepository persists labeled training examples
type TrainingRepository struct {
	pool *pgxpool.Pool
}

// NewTrainingRepository creates a new training example repository
func NewTrainingRepository(pool *pgxpool.Pool) *TrainingRepository {
	return &TrainingRepository{pool: pool}
}

// SaveExample inserts or updates one example. Updates only flip the
// verified flag, since examples are otherwise immutable.
func (r *TrainingRepository) SaveExample(ctx context.Context, ex *models.TrainingExample) error {
	query := `
		INSERT INTO training_examples (
			id, text, signals, counts, label, confidence, created_at, verified
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET verified = EXCLUDED.verified`

	_, err := r.pool.Exec(ctx, query,
		ex.ID, ex.Text, ex.Signals, ex.Counts,
		string(ex.Label), ex.Confidence, ex.Timestamp, ex.Verified,
	)
	if err != nil {
		return fmt.Errorf("failed to save training example: %w", err)
	}
	return nil
}

// ListRecent retrieves the most recent examples, newest first
func (r *TrainingRepository) ListRecent(ctx context.Context, limit int) ([]*models.TrainingExample, error) {
	query := `
		SELECT id, text, signals, counts, label, confidence, created_at, verified
		FROM training_examples
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list training examples: %w", err)
	}
	defer rows.Close()

	var examples []*models.TrainingExample
	for rows.Next() {
		ex, err := scanExample(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training example: %w", err)
		}
		examples = append(examples, ex)
	}
	return examples, rows.Err()
}

func scanExample(row pgx.Row) (*models.TrainingExample, error) {
	var (
		ex    models.TrainingExample
		label string
	)
	err := row.Scan(
		&ex.ID, &ex.Text, &ex.Signals, &ex.Counts,
		&label, &ex.Confidence, &ex.Timestamp, &ex.Verified,
	)
	if err != nil {
		return nil, err
	}
	ex.Label = models.Label(label)
	return &ex, nil
}
