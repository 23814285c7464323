package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"certus/internal/decision/models"
	id "certus/pkg/domain"
	"certus/pkg/platform/sentinel"
	txcontext "certus/pkg/platform/tx"
)

// Store persists decision revisions in PostgreSQL. Insert-only; the revision
// subquery runs inside the calculator's serializable transaction, so two
// concurrent calculations cannot claim the same revision.
type Store struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed decision store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) execer(ctx context.Context) dbQuerier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Save(ctx context.Context, decision *models.Decision) error {
	query := `
		INSERT INTO decisions (cycle_id, profile_id, revision, outcome, overall_weighted_score,
			global_auto_fail, global_auto_fail_reason, decided_at, created_at)
		SELECT $1, $2, COALESCE(MAX(revision) + 1, 0), $3, $4, $5, $6, $7, $8
		FROM decisions WHERE cycle_id = $1
		RETURNING revision
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(decision.CycleID),
		uuid.UUID(decision.ProfileID),
		decision.Outcome,
		decision.OverallWeightedScore,
		decision.GlobalAutoFail,
		decision.GlobalAutoFailReason,
		decision.DecidedAt,
		decision.CreatedAt,
	).Scan(&decision.Revision)
	if err != nil {
		return fmt.Errorf("save decision: %w", err)
	}
	return nil
}

func (s *Store) Latest(ctx context.Context, cycleID id.CycleID) (*models.Decision, error) {
	query := `
		SELECT cycle_id, profile_id, revision, outcome, overall_weighted_score,
			global_auto_fail, global_auto_fail_reason, decided_at, created_at
		FROM decisions
		WHERE cycle_id = $1
		ORDER BY revision DESC
		LIMIT 1
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(cycleID))

	var decision models.Decision
	var cID, pID uuid.UUID
	var score sql.NullFloat64
	var reason sql.NullString
	var decidedAt sql.NullTime
	err := row.Scan(&cID, &pID, &decision.Revision, &decision.Outcome, &score,
		&decision.GlobalAutoFail, &reason, &decidedAt, &decision.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan decision: %w", err)
	}
	decision.CycleID = id.CycleID(cID)
	decision.ProfileID = id.ProfileID(pID)
	if score.Valid {
		decision.OverallWeightedScore = &score.Float64
	}
	if reason.Valid {
		decision.GlobalAutoFailReason = &reason.String
	}
	if decidedAt.Valid {
		decision.DecidedAt = &decidedAt.Time
	}
	return &decision, nil
}
