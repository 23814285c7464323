package decision

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"certus/internal/assessment"
	assessmentmodels "certus/internal/assessment/models"
	"certus/internal/catalog"
	"certus/internal/decision/models"
	"certus/internal/platform/metrics"
	profilemodels "certus/internal/profile/models"
	id "certus/pkg/domain"
	dErrors "certus/pkg/domain-errors"
	"certus/pkg/platform/audit"
	"certus/pkg/platform/sentinel"
	txcontext "certus/pkg/platform/tx"
	"certus/pkg/requestcontext"
)

// CycleStore is the subset of the cycle store the calculator needs.
type CycleStore interface {
	Latest(ctx context.Context, profileID id.ProfileID) (*profilemodels.Cycle, error)
}

// Service computes and persists the global certification decision. Every
// calculation is a full recompute from the current criterion scores; nothing
// derived is read back.
type Service struct {
	defs    *catalog.Definitions
	db      *sql.DB // nil in unit tests; calculation then runs untransacted
	cycles  CycleStore
	scores  assessment.ScoreStore
	store   Store
	audit   audit.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New constructs the decision calculator.
func New(defs *catalog.Definitions, db *sql.DB, cycles CycleStore, scores assessment.ScoreStore, store Store, auditStore audit.Store, m *metrics.Metrics, logger *slog.Logger) (*Service, error) {
	if defs == nil {
		return nil, fmt.Errorf("catalogue definitions are required")
	}
	if cycles == nil {
		return nil, fmt.Errorf("cycle store is required")
	}
	if scores == nil {
		return nil, fmt.Errorf("score store is required")
	}
	if store == nil {
		return nil, fmt.Errorf("decision store is required")
	}
	return &Service{
		defs:    defs,
		db:      db,
		cycles:  cycles,
		scores:  scores,
		store:   store,
		audit:   auditStore,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("certus/decision"),
	}, nil
}

// Calculate recomputes the global decision for the profile's active cycle and
// persists it as a new revision. A global disqualification short-circuits the
// pillar walk entirely; any unrated criterion aborts with
// incomplete_assessment and leaves the prior decision untouched.
func (s *Service) Calculate(ctx context.Context, profileID id.ProfileID) (*models.Decision, error) {
	ctx, span := s.tracer.Start(ctx, "decision.Calculate")
	defer span.End()

	started := time.Now()

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

	var decision *models.Decision
	err = s.withSerializableTx(ctx, func(ctx context.Context) error {
		decision, err = s.calculate(ctx, cycle)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncDecisionCalculated(string(decision.Outcome))
		s.metrics.ObserveDecisionDuration(time.Since(started))
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "decision calculated",
			"profile_id", profileID,
			"cycle_id", cycle.ID,
			"revision", decision.Revision,
			"outcome", decision.Outcome,
		)
	}
	return decision, nil
}

func (s *Service) calculate(ctx context.Context, cycle *profilemodels.Cycle) (*models.Decision, error) {
	now := requestcontext.Now(ctx)
	decision := &models.Decision{
		ProfileID: cycle.ProfileID,
		CycleID:   cycle.ID,
		DecidedAt: &now,
		CreatedAt: now,
	}

	if cycle.Disqualified {
		reason := cycle.DisqualificationReason
		decision.Outcome = models.OutcomeNotCertified
		decision.GlobalAutoFail = true
		decision.GlobalAutoFailReason = &reason
		return decision, s.persist(ctx, decision, "global disqualification")
	}

	scoresByPillar, err := s.scores.ListScores(ctx, cycle.ID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load criterion scores", err)
	}

	var (
		overall        float64
		anyFail        bool
		anyConditional bool
	)
	for _, def := range s.defs.Pillars {
		result := assessment.Aggregate(def, s.defs.Thresholds, scoresByPillar[def.Number])
		switch result.Status {
		case assessmentmodels.StatusInProgress:
			return nil, dErrors.New(dErrors.CodeIncompleteAssessment,
				fmt.Sprintf("pillar %d %q has unrated criteria", def.Number, def.Name))
		case assessmentmodels.StatusFail:
			anyFail = true
		case assessmentmodels.StatusConditional:
			anyConditional = true
		}
		// Auto-failed pillars carry no score; they contribute zero.
		if result.WeightedScore != nil {
			overall += def.Weight * *result.WeightedScore
		}
	}

	switch {
	case anyFail:
		decision.Outcome = models.OutcomeNotCertified
	case anyConditional:
		decision.Outcome = models.OutcomeConditionalCertification
	default:
		decision.Outcome = models.OutcomeCertified
	}
	decision.OverallWeightedScore = &overall

	return decision, s.persist(ctx, decision, "")
}

func (s *Service) persist(ctx context.Context, decision *models.Decision, reason string) error {
	if err := s.store.Save(ctx, decision); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "save decision", err)
	}
	s.emitAudit(ctx, audit.Event{
		Timestamp:  *decision.DecidedAt,
		ProfileID:  decision.ProfileID,
		CycleID:    decision.CycleID,
		Action:     audit.ActionDecisionCalculated,
		ReviewerID: requestcontext.ReviewerID(ctx),
		Subject:    fmt.Sprintf("revision %d", decision.Revision),
		Outcome:    string(decision.Outcome),
		Reason:     reason,
		RequestID:  requestcontext.RequestID(ctx),
	})
	return nil
}

// Get returns the most recent decision revision for the profile's latest
// cycle, the pending placeholder included.
func (s *Service) Get(ctx context.Context, profileID id.ProfileID) (*models.Decision, error) {
	cycle, err := s.cycles.Latest(ctx, profileID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile has no certification cycle")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load cycle", err)
	}

	decision, err := s.store.Latest(ctx, cycle.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no decision recorded for cycle")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load decision", err)
	}
	return decision, nil
}

// withSerializableTx guards the read-scores-then-write-decision sequence
// against concurrent rating updates.
func (s *Service) withSerializableTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
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
