package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"certus/internal/profile/models"
	id "certus/pkg/domain"
	"certus/pkg/platform/sentinel"
	txcontext "certus/pkg/platform/tx"
)

// Store persists cycles in PostgreSQL. A partial unique index guarantees at
// most one open cycle per profile even under concurrent opens.
type Store struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed cycle store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Create(ctx context.Context, cycle *models.Cycle) error {
	query := `
		INSERT INTO cycles (id, profile_id, state, disqualified, disqualification_reason, opened_at, closed_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(cycle.ID),
		uuid.UUID(cycle.ProfileID),
		cycle.State,
		cycle.Disqualified,
		cycle.DisqualificationReason,
		cycle.OpenedAt,
		cycle.ClosedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create cycle: %w", err)
	}
	return nil
}

func (s *Store) Latest(ctx context.Context, profileID id.ProfileID) (*models.Cycle, error) {
	query := `
		SELECT id, profile_id, state, disqualified, COALESCE(disqualification_reason, ''), opened_at, closed_at
		FROM cycles
		WHERE profile_id = $1
		ORDER BY opened_at DESC
		LIMIT 1
	`
	return s.scanCycle(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(profileID)))
}

func (s *Store) Close(ctx context.Context, cycleID id.CycleID, at time.Time) error {
	query := `
		UPDATE cycles
		SET state = $2, closed_at = $3
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(cycleID), models.CycleStateClosed, at)
	if err != nil {
		return fmt.Errorf("close cycle: %w", err)
	}
	return requireAffected(res)
}

func (s *Store) SetDisqualification(ctx context.Context, cycleID id.CycleID, flagged bool, reason string) error {
	query := `
		UPDATE cycles
		SET disqualified = $2, disqualification_reason = NULLIF($3, '')
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(cycleID), flagged, reason)
	if err != nil {
		return fmt.Errorf("set disqualification: %w", err)
	}
	return requireAffected(res)
}

func (s *Store) scanCycle(row *sql.Row) (*models.Cycle, error) {
	var cycle models.Cycle
	var cycleID, profileID uuid.UUID
	var closedAt sql.NullTime
	err := row.Scan(&cycleID, &profileID, &cycle.State, &cycle.Disqualified, &cycle.DisqualificationReason, &cycle.OpenedAt, &closedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan cycle: %w", err)
	}
	cycle.ID = id.CycleID(cycleID)
	cycle.ProfileID = id.ProfileID(profileID)
	if closedAt.Valid {
		cycle.ClosedAt = &closedAt.Time
	}
	return &cycle, nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
