package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"certus/internal/assessment"
	"certus/internal/assessment/models"
	id "certus/pkg/domain"
	"certus/pkg/platform/sentinel"
	txcontext "certus/pkg/platform/tx"

	"github.com/google/uuid"
)

// Store persists criterion scores in PostgreSQL.
// Pure I/O; aggregation and validation belong to the service layer.
type Store struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed score store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) InitCycle(ctx context.Context, cycleID id.CycleID, seeds []assessment.PillarSeed) error {
	query := `
		INSERT INTO criterion_scores (cycle_id, pillar_number, code, rating, notes, updated_at)
		VALUES ($1, $2, $3, $4, '', NOW())
	`
	execer := s.execer(ctx)
	for _, seed := range seeds {
		for _, code := range seed.Codes {
			if _, err := execer.ExecContext(ctx, query,
				uuid.UUID(cycleID), seed.PillarNumber, code, models.RatingNotRated,
			); err != nil {
				return fmt.Errorf("seed criterion score %s: %w", code, err)
			}
		}
	}
	return nil
}

func (s *Store) ListScores(ctx context.Context, cycleID id.CycleID) (map[int][]models.SubCriterionScore, error) {
	query := `
		SELECT pillar_number, code, rating, notes, updated_at
		FROM criterion_scores
		WHERE cycle_id = $1
		ORDER BY pillar_number, code
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(cycleID))
	if err != nil {
		return nil, fmt.Errorf("list criterion scores: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]models.SubCriterionScore)
	for rows.Next() {
		var pillarNumber int
		var score models.SubCriterionScore
		if err := rows.Scan(&pillarNumber, &score.Code, &score.Rating, &score.Notes, &score.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan criterion score: %w", err)
		}
		out[pillarNumber] = append(out[pillarNumber], score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate criterion scores: %w", err)
	}
	if len(out) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return out, nil
}

func (s *Store) PillarScores(ctx context.Context, cycleID id.CycleID, pillarNumber int) ([]models.SubCriterionScore, error) {
	query := `
		SELECT code, rating, notes, updated_at
		FROM criterion_scores
		WHERE cycle_id = $1 AND pillar_number = $2
		ORDER BY code
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(cycleID), pillarNumber)
	if err != nil {
		return nil, fmt.Errorf("list pillar scores: %w", err)
	}
	defer rows.Close()

	var out []models.SubCriterionScore
	for rows.Next() {
		var score models.SubCriterionScore
		if err := rows.Scan(&score.Code, &score.Rating, &score.Notes, &score.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pillar score: %w", err)
		}
		out = append(out, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pillar scores: %w", err)
	}
	if len(out) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return out, nil
}

// UpdateScore replaces the full score record. Last write wins; no field-level
// merging happens at any layer.
func (s *Store) UpdateScore(ctx context.Context, cycleID id.CycleID, pillarNumber int, score models.SubCriterionScore) error {
	query := `
		UPDATE criterion_scores
		SET rating = $4, notes = $5, updated_at = $6
		WHERE cycle_id = $1 AND pillar_number = $2 AND code = $3
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(cycleID), pillarNumber, score.Code, score.Rating, score.Notes, score.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update criterion score: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update criterion score rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
