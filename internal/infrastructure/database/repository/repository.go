package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories aggregates all persistence access
type Repositories struct {
	Trends   *TrendRepository
	Training *TrainingRepository
	Weights  *WeightRepository
}

// New creates the repository set over one connection pool
func New(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Trends:   NewTrendRepository(pool),
		Training: NewTrainingRepository(pool),
		Weights:  NewWeightRepository(pool),
	}
}

// EnsureSchema creates the tables if they do not exist yet
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scam_trends (
			id              TEXT PRIMARY KEY,
			title           TEXT NOT NULL,
			description     TEXT NOT NULL DEFAULT '',
			risk_level      TEXT NOT NULL,
			keywords        TEXT[] NOT NULL DEFAULT '{}',
			tactics         TEXT[] NOT NULL DEFAULT '{}',
			demographics    TEXT[] NOT NULL DEFAULT '{}',
			reported_cases  INTEGER NOT NULL DEFAULT 0,
			first_seen      TIMESTAMPTZ NOT NULL,
			last_updated    TIMESTAMPTZ NOT NULL,
			regions         TEXT[] NOT NULL DEFAULT '{}',
			examples        TEXT[] NOT NULL DEFAULT '{}',
			prevention_tips TEXT[] NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS training_examples (
			id         UUID PRIMARY KEY,
			text       TEXT NOT NULL,
			signals    JSONB NOT NULL,
			counts     JSONB NOT NULL,
			label      TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			verified   BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_training_examples_created_at
			ON training_examples (created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS weight_snapshots (
			id          BIGSERIAL PRIMARY KEY,
			weights     JSONB NOT NULL,
			adaptations INTEGER NOT NULL DEFAULT 0,
			saved_at    TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
