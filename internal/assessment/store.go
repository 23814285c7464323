package assessment

import (
	"context"

	"certus/internal/assessment/models"
	id "certus/pkg/domain"
)

// PillarSeed names the criterion rows to create when a cycle opens.
type PillarSeed struct {
	PillarNumber int
	Codes        []string
}

// ScoreStore persists criterion score records. Implementations return
// sentinel errors; services translate them into domain errors.
type ScoreStore interface {
	// InitCycle creates a not_rated score row for every criterion of every
	// pillar. Joins a caller transaction when one is carried in ctx.
	InitCycle(ctx context.Context, cycleID id.CycleID, seeds []PillarSeed) error

	// ListScores returns all score records for a cycle, keyed by pillar number.
	ListScores(ctx context.Context, cycleID id.CycleID) (map[int][]models.SubCriterionScore, error)

	// PillarScores returns the score records for one pillar.
	PillarScores(ctx context.Context, cycleID id.CycleID, pillarNumber int) ([]models.SubCriterionScore, error)

	// UpdateScore replaces one score record in full (rating and notes).
	// Returns sentinel.ErrNotFound if the row was never seeded.
	UpdateScore(ctx context.Context, cycleID id.CycleID, pillarNumber int, score models.SubCriterionScore) error
}
