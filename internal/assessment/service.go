package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"certus/internal/assessment/models"
	"certus/internal/catalog"
	"certus/internal/platform/metrics"
	profilemodels "certus/internal/profile/models"
	id "certus/pkg/domain"
	dErrors "certus/pkg/domain-errors"
	"certus/pkg/platform/audit"
	"certus/pkg/platform/sentinel"
	"certus/pkg/requestcontext"
)

// CycleStore is the slice of the profile store the scorer needs.
type CycleStore interface {
	// Latest returns the profile's most recent cycle regardless of state.
	// Returns sentinel.ErrNotFound if the profile has no cycle.
	Latest(ctx context.Context, profileID id.ProfileID) (*profilemodels.Cycle, error)
}

// Service records criterion ratings and serves materialized assessments.
// Rating a criterion re-aggregates its pillar synchronously; it never touches
// the global decision.
type Service struct {
	defs    *catalog.Definitions
	cycles  CycleStore
	scores  ScoreStore
	cache   *Cache
	audit   audit.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New constructs the scorer service.
func New(defs *catalog.Definitions, cycles CycleStore, scores ScoreStore, cache *Cache, auditStore audit.Store, m *metrics.Metrics, logger *slog.Logger) (*Service, error) {
	if defs == nil {
		return nil, fmt.Errorf("catalogue definitions are required")
	}
	if cycles == nil {
		return nil, fmt.Errorf("cycle store is required")
	}
	if scores == nil {
		return nil, fmt.Errorf("score store is required")
	}
	return &Service{
		defs:    defs,
		cycles:  cycles,
		scores:  scores,
		cache:   cache,
		audit:   auditStore,
		metrics: m,
		logger:  logger,
	}, nil
}

// RateCriterionRequest carries one validated rating write.
type RateCriterionRequest struct {
	ProfileID     id.ProfileID
	PillarNumber  int
	CriterionCode string
	Rating        models.Rating
	Notes         string
}

// RateCriterion replaces the score record for one criterion and returns the
// refreshed pillar assessment. A rejected write leaves all prior state intact.
func (s *Service) RateCriterion(ctx context.Context, req RateCriterionRequest) (*models.PillarAssessment, error) {
	pillarDef, ok := s.defs.Pillar(req.PillarNumber)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("pillar %d is not defined", req.PillarNumber))
	}
	if _, ok := pillarDef.Criterion(req.CriterionCode); !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("criterion %s is not defined in pillar %d", req.CriterionCode, req.PillarNumber))
	}
	if _, ok := req.Rating.Value(); !ok {
		return nil, dErrors.New(dErrors.CodeInvalidRating, "rating must be one of red, amber, green")
	}

	cycle, err := s.cycles.Latest(ctx, req.ProfileID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile has no certification cycle")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load cycle", err)
	}
	if !cycle.Open() {
		return nil, dErrors.New(dErrors.CodeStaleState, "certification cycle is closed")
	}

	score := models.SubCriterionScore{
		Code:      req.CriterionCode,
		Rating:    req.Rating,
		Notes:     req.Notes,
		UpdatedAt: requestcontext.Now(ctx),
	}
	if err := s.scores.UpdateScore(ctx, cycle.ID, req.PillarNumber, score); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "criterion score record not found for this cycle")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "update criterion score", err)
	}

	if err := s.cache.Invalidate(ctx, cycle.ID); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "assessment cache invalidation failed",
			"cycle_id", cycle.ID,
			"error", err,
		)
	}

	refreshed, err := s.materializePillar(ctx, cycle, pillarDef)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncRatingRecorded(req.Rating.String())
		if refreshed.AutoFailTriggered {
			s.metrics.PillarAutoFails.Inc()
		}
	}
	s.emitAudit(ctx, audit.Event{
		Timestamp:  requestcontext.Now(ctx),
		ProfileID:  req.ProfileID,
		CycleID:    cycle.ID,
		Action:     audit.ActionRatingRecorded,
		ReviewerID: requestcontext.ReviewerID(ctx),
		Subject:    fmt.Sprintf("pillar %d criterion %s", req.PillarNumber, req.CriterionCode),
		Outcome:    req.Rating.String(),
		RequestID:  requestcontext.RequestID(ctx),
	})

	return refreshed, nil
}

// ListAssessments returns the five materialized pillar assessments for the
// profile's latest cycle. Served from cache when possible; any score write
// for the cycle invalidates the entry.
func (s *Service) ListAssessments(ctx context.Context, profileID id.ProfileID) ([]models.PillarAssessment, error) {
	cycle, err := s.cycles.Latest(ctx, profileID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile has no certification cycle")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load cycle", err)
	}

	if cached, ok := s.cache.Get(ctx, cycle.ID); ok {
		if s.metrics != nil {
			s.metrics.CacheHits.Inc()
		}
		return cached, nil
	}
	if s.metrics != nil {
		s.metrics.CacheMisses.Inc()
	}

	byPillar, err := s.scores.ListScores(ctx, cycle.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no assessments found for this cycle")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list scores", err)
	}

	assessments := make([]models.PillarAssessment, 0, len(s.defs.Pillars))
	for _, def := range s.defs.Pillars {
		a := Materialize(def, s.defs.Thresholds, byPillar[def.Number])
		a.ProfileID = profileID
		a.CycleID = cycle.ID
		assessments = append(assessments, a)
	}

	if err := s.cache.Set(ctx, cycle.ID, assessments); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "assessment cache population failed",
			"cycle_id", cycle.ID,
			"error", err,
		)
	}
	return assessments, nil
}

func (s *Service) materializePillar(ctx context.Context, cycle *profilemodels.Cycle, def catalog.PillarDefinition) (*models.PillarAssessment, error) {
	scores, err := s.scores.PillarScores(ctx, cycle.ID, def.Number)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load pillar scores", err)
	}
	a := Materialize(def, s.defs.Thresholds, scores)
	a.ProfileID = cycle.ProfileID
	a.CycleID = cycle.ID
	return &a, nil
}

// emitAudit appends an audit event, logging instead of failing the request on
// error: the domain write has already committed at this point.
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
