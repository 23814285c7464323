package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"certus/internal/assessment"
	"certus/internal/catalog"
	decisionmodels "certus/internal/decision/models"
	"certus/internal/platform/metrics"
	"certus/internal/profile/models"
	id "certus/pkg/domain"
	dErrors "certus/pkg/domain-errors"
	"certus/pkg/platform/audit"
	"certus/pkg/platform/sentinel"
	txcontext "certus/pkg/platform/tx"
	"certus/pkg/requestcontext"
)

// DecisionStore is the slice of the decision store the lifecycle needs: the
// pending revision created when a cycle opens.
type DecisionStore interface {
	Save(ctx context.Context, decision *decisionmodels.Decision) error
}

// Service manages cycle lifecycle and the compliance disqualification flag.
type Service struct {
	defs      *catalog.Definitions
	db        *sql.DB // nil in unit tests; skips transactional wrapping
	cycles    Store
	scores    assessment.ScoreStore
	decisions DecisionStore
	audit     audit.Store
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New constructs the cycle lifecycle service.
func New(defs *catalog.Definitions, db *sql.DB, cycles Store, scores assessment.ScoreStore, decisions DecisionStore, auditStore audit.Store, m *metrics.Metrics, logger *slog.Logger) (*Service, error) {
	if defs == nil {
		return nil, fmt.Errorf("catalogue definitions are required")
	}
	if cycles == nil {
		return nil, fmt.Errorf("cycle store is required")
	}
	if scores == nil {
		return nil, fmt.Errorf("score store is required")
	}
	if decisions == nil {
		return nil, fmt.Errorf("decision store is required")
	}
	return &Service{
		defs:      defs,
		db:        db,
		cycles:    cycles,
		scores:    scores,
		decisions: decisions,
		audit:     auditStore,
		metrics:   m,
		logger:    logger,
	}, nil
}

// OpenCycle starts a certification cycle for a profile: all criteria seeded
// not_rated, assessments in progress, decision pending. An open prior cycle is
// closed first; opening a renewal supersedes it.
func (s *Service) OpenCycle(ctx context.Context, profileID id.ProfileID) (*models.Cycle, error) {
	now := requestcontext.Now(ctx)

	var opened *models.Cycle
	err := s.withTx(ctx, func(ctx context.Context) error {
		prior, err := s.cycles.Latest(ctx, profileID)
		switch {
		case err == nil:
			if prior.Open() {
				if err := s.cycles.Close(ctx, prior.ID, now); err != nil {
					return dErrors.Wrap(dErrors.CodeInternal, "close superseded cycle", err)
				}
			}
		case errors.Is(err, sentinel.ErrNotFound):
			// First cycle for this profile.
		default:
			return dErrors.Wrap(dErrors.CodeInternal, "load cycle", err)
		}

		cycle := &models.Cycle{
			ID:        id.NewCycleID(),
			ProfileID: profileID,
			State:     models.CycleStateUnderReview,
			OpenedAt:  now,
		}
		if err := s.cycles.Create(ctx, cycle); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "profile already has an open cycle")
			}
			return dErrors.Wrap(dErrors.CodeInternal, "create cycle", err)
		}

		seeds := make([]assessment.PillarSeed, 0, len(s.defs.Pillars))
		for _, p := range s.defs.Pillars {
			codes := make([]string, 0, len(p.Criteria))
			for _, c := range p.Criteria {
				codes = append(codes, c.Code)
			}
			seeds = append(seeds, assessment.PillarSeed{PillarNumber: p.Number, Codes: codes})
		}
		if err := s.scores.InitCycle(ctx, cycle.ID, seeds); err != nil {
			return dErrors.Wrap(dErrors.CodeInternal, "seed criterion scores", err)
		}

		pending := &decisionmodels.Decision{
			ProfileID: profileID,
			CycleID:   cycle.ID,
			Outcome:   decisionmodels.OutcomePending,
			CreatedAt: now,
		}
		if err := s.decisions.Save(ctx, pending); err != nil {
			return dErrors.Wrap(dErrors.CodeInternal, "create pending decision", err)
		}

		s.emitAudit(ctx, audit.Event{
			Timestamp:  now,
			ProfileID:  profileID,
			CycleID:    cycle.ID,
			Action:     audit.ActionCycleOpened,
			ReviewerID: requestcontext.ReviewerID(ctx),
			RequestID:  requestcontext.RequestID(ctx),
		})

		opened = cycle
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CyclesOpened.Inc()
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "certification cycle opened",
			"profile_id", profileID,
			"cycle_id", opened.ID,
		)
	}
	return opened, nil
}

// CloseCycle closes the profile's active cycle. Further scoring and
// calculation attempts return stale_state.
func (s *Service) CloseCycle(ctx context.Context, profileID id.ProfileID) (*models.Cycle, error) {
	cycle, err := s.activeCycle(ctx, profileID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	if err := s.cycles.Close(ctx, cycle.ID, now); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "close cycle", err)
	}
	cycle.State = models.CycleStateClosed
	cycle.ClosedAt = &now

	s.emitAudit(ctx, audit.Event{
		Timestamp:  now,
		ProfileID:  profileID,
		CycleID:    cycle.ID,
		Action:     audit.ActionCycleClosed,
		ReviewerID: requestcontext.ReviewerID(ctx),
		RequestID:  requestcontext.RequestID(ctx),
	})
	return cycle, nil
}

// SetDisqualification records the compliance workflow's global
// disqualification flag on the active cycle. The calculator reads the flag;
// this method never computes a decision itself.
func (s *Service) SetDisqualification(ctx context.Context, profileID id.ProfileID, flagged bool, reason string) (*models.Cycle, error) {
	cycle, err := s.activeCycle(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if err := s.cycles.SetDisqualification(ctx, cycle.ID, flagged, reason); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "set disqualification", err)
	}
	cycle.Disqualified = flagged
	cycle.DisqualificationReason = reason

	outcome := "cleared"
	if flagged {
		outcome = "flagged"
	}
	s.emitAudit(ctx, audit.Event{
		Timestamp:  requestcontext.Now(ctx),
		ProfileID:  profileID,
		CycleID:    cycle.ID,
		Action:     audit.ActionDisqualificationSet,
		ReviewerID: requestcontext.ReviewerID(ctx),
		Outcome:    outcome,
		Reason:     reason,
		RequestID:  requestcontext.RequestID(ctx),
	})
	return cycle, nil
}

// Latest exposes the profile's most recent cycle to other services.
func (s *Service) Latest(ctx context.Context, profileID id.ProfileID) (*models.Cycle, error) {
	return s.cycles.Latest(ctx, profileID)
}

func (s *Service) activeCycle(ctx context.Context, profileID id.ProfileID) (*models.Cycle, error) {
	cycle, err := s.cycles.Latest(ctx, profileID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile has no certification cycle")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load cycle", err)
	}
	if !cycle.Open() {
		return nil, dErrors.New(dErrors.CodeStaleState, "certification cycle is closed")
	}
	return cycle, nil
}

// withTx runs fn inside a transaction carried in ctx when a database is
// configured; unit tests against memory stores run fn directly.
func (s *Service) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "begin transaction", err)
	}
	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "commit transaction", err)
	}
	return nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Append(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "audit event append failed",
			"action", event.Action,
			"error", err,
		)
	}
}
