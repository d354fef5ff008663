package models

import (
	"time"

	"github.com/google/uuid"
)

// TrainingExample is one labeled text owned by the training store.
// Examples are created unverified and marked verified after they have
// been through an adaptation pass; they are never deleted.
type TrainingExample struct {
	ID         uuid.UUID          `json:"id"`
	Text       string             `json:"text"`
	Signals    map[string]float64 `json:"signals"` // derived on ingestion
	Counts     map[string]int     `json:"counts"`
	Label      Label              `json:"label"`
	Confidence float64            `json:"confidence"`
	Timestamp  time.Time          `json:"timestamp"`
	Verified   bool               `json:"verified"`
}

// WeightSnapshot is a persisted copy of the model weight table
type WeightSnapshot struct {
	Weights     map[string]float64 `json:"weights"`
	SavedAt     time.Time          `json:"saved_at"`
	Adaptations int                `json:"adaptations"`
}
