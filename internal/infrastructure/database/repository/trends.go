package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fraudlens/internal/domain/models"
)

// TrendRepository persists the trend catalog
type TrendRepository struct {
	pool *pgxpool.Pool
}

// NewTrendRepository creates a new trend repository
func NewTrendRepository(pool *pgxpool.Pool) *TrendRepository {
	return &TrendRepository{pool: pool}
}

// Upsert inserts or replaces one trend
func (r *TrendRepository) Upsert(ctx context.Context, t *models.ScamTrend) error {
	query := `
		INSERT INTO scam_trends (
			id, title, description, risk_level, keywords, tactics,
			demographics, reported_cases, first_seen, last_updated,
			regions, examples, prevention_tips
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			risk_level = EXCLUDED.risk_level,
			keywords = EXCLUDED.keywords,
			tactics = EXCLUDED.tactics,
			demographics = EXCLUDED.demographics,
			reported_cases = EXCLUDED.reported_cases,
			last_updated = EXCLUDED.last_updated,
			regions = EXCLUDED.regions,
			examples = EXCLUDED.examples,
			prevention_tips = EXCLUDED.prevention_tips`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.Title, t.Description, string(t.RiskLevel), t.Keywords, t.Tactics,
		t.TargetDemographics, t.ReportedCases, t.FirstSeen, t.LastUpdated,
		t.Regions, t.Examples, t.PreventionTips,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert trend: %w", err)
	}
	return nil
}

// List retrieves all trends ordered by reported cases
func (r *TrendRepository) List(ctx context.Context) ([]*models.ScamTrend, error) {
	query := `
		SELECT id, title, description, risk_level, keywords, tactics,
			   demographics, reported_cases, first_seen, last_updated,
			   regions, examples, prevention_tips
		FROM scam_trends
		ORDER BY reported_cases DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trends: %w", err)
	}
	defer rows.Close()

	var trends []*models.ScamTrend
	for rows.Next() {
		t, err := scanTrend(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trend: %w", err)
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

func scanTrend(row pgx.Row) (*models.ScamTrend, error) {
	var (
		t         models.ScamTrend
		riskLevel string
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &riskLevel, &t.Keywords, &t.Tactics,
		&t.TargetDemographics, &t.ReportedCases, &t.FirstSeen, &t.LastUpdated,
		&t.Regions, &t.Examples, &t.PreventionTips,
	)
	if err != nil {
		return nil, err
	}
	t.RiskLevel = models.RiskLevel(riskLevel)
	return &t, nil
}
