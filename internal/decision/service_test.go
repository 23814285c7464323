package decision_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"certus/internal/assessment"
	assessmentmodels "certus/internal/assessment/models"
	assessmentmemory "certus/internal/assessment/store/memory"
	"certus/internal/catalog"
	"certus/internal/decision"
	"certus/internal/decision/models"
	decisionmemory "certus/internal/decision/store/memory"
	profilemodels "certus/internal/profile/models"
	profilememory "certus/internal/profile/store/memory"
	id "certus/pkg/domain"
	dErrors "certus/pkg/domain-errors"
	auditmemory "certus/pkg/platform/audit/store/memory"
)

// =============================================================================
// Decision Calculator Test Suite
// =============================================================================
// Justification for unit tests: outcome priority, the disqualification
// short-circuit, and the incomplete-assessment gate are pure decision logic
// whose combinations are far cheaper to enumerate here than over HTTP.

type DecisionServiceSuite struct {
	suite.Suite
	defs      *catalog.Definitions
	cycles    *profilememory.Store
	scores    *assessmentmemory.Store
	decisions *decisionmemory.Store
	audit     *auditmemory.Store
	service   *decision.Service
	profileID id.ProfileID
	cycle     *profilemodels.Cycle
}

func TestDecisionServiceSuite(t *testing.T) {
	suite.Run(t, new(DecisionServiceSuite))
}

func (s *DecisionServiceSuite) SetupTest() {
	s.defs = catalog.Default()
	s.cycles = profilememory.New()
	s.scores = assessmentmemory.New()
	s.decisions = decisionmemory.New()
	s.audit = auditmemory.New()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var err error
	s.service, err = decision.New(s.defs, nil, s.cycles, s.scores, s.decisions, s.audit, nil, logger)
	s.Require().NoError(err)

	s.profileID = id.NewProfileID()
	s.cycle = s.openCycle(s.profileID)
}

func (s *DecisionServiceSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *DecisionServiceSuite) openCycle(profileID id.ProfileID) *profilemodels.Cycle {
	ctx := context.Background()
	cycle := &profilemodels.Cycle{
		ID:        id.NewCycleID(),
		ProfileID: profileID,
		State:     profilemodels.CycleStateUnderReview,
		OpenedAt:  time.Now(),
	}
	s.Require().NoError(s.cycles.Create(ctx, cycle))

	seeds := make([]assessment.PillarSeed, 0, len(s.defs.Pillars))
	for _, p := range s.defs.Pillars {
		codes := make([]string, 0, len(p.Criteria))
		for _, c := range p.Criteria {
			codes = append(codes, c.Code)
		}
		seeds = append(seeds, assessment.PillarSeed{PillarNumber: p.Number, Codes: codes})
	}
	s.Require().NoError(s.scores.InitCycle(ctx, cycle.ID, seeds))
	return cycle
}

// ratePillar assigns one rating to every criterion of a pillar.
func (s *DecisionServiceSuite) ratePillar(pillarNumber int, rating assessmentmodels.Rating) {
	ctx := context.Background()
	def, ok := s.defs.Pillar(pillarNumber)
	s.Require().True(ok)
	for _, c := range def.Criteria {
		err := s.scores.UpdateScore(ctx, s.cycle.ID, pillarNumber, assessmentmodels.SubCriterionScore{
			Code:      c.Code,
			Rating:    rating,
			UpdatedAt: time.Now(),
		})
		s.Require().NoError(err)
	}
}

func (s *DecisionServiceSuite) rateAllPillars(rating assessmentmodels.Rating) {
	for _, p := range s.defs.Pillars {
		s.ratePillar(p.Number, rating)
	}
}

// failPillar rates a pillar fully but leaves its weighted score below the
// conditional threshold without touching auto-fail criteria.
func (s *DecisionServiceSuite) failPillar(pillarNumber int) {
	ctx := context.Background()
	def, ok := s.defs.Pillar(pillarNumber)
	s.Require().True(ok)
	for _, c := range def.Criteria {
		rating := assessmentmodels.RatingRed
		if c.AutoFail {
			rating = assessmentmodels.RatingAmber
		}
		err := s.scores.UpdateScore(ctx, s.cycle.ID, pillarNumber, assessmentmodels.SubCriterionScore{
			Code:      c.Code,
			Rating:    rating,
			UpdatedAt: time.Now(),
		})
		s.Require().NoError(err)
	}
}

// conditionalPillar rates a pillar all amber, landing between the thresholds.
func (s *DecisionServiceSuite) conditionalPillar(pillarNumber int) {
	s.ratePillar(pillarNumber, assessmentmodels.RatingAmber)
}

// =============================================================================
// Incomplete Assessment Gate
// =============================================================================

func (s *DecisionServiceSuite) TestIncompleteGate() {
	ctx := context.Background()

	s.Run("unrated criteria block calculation", func() {
		_, err := s.service.Calculate(ctx, s.profileID)
		s.Equal(dErrors.CodeIncompleteAssessment, dErrors.CodeOf(err))
	})

	s.Run("a rejected calculation records no revision", func() {
		_, err := s.service.Calculate(ctx, s.profileID)
		s.Error(err)
		s.Empty(s.decisions.Revisions(s.cycle.ID))
	})

	s.Run("one missing rating out of twenty-five still blocks", func() {
		s.rateAllPillars(assessmentmodels.RatingGreen)
		err := s.scores.UpdateScore(ctx, s.cycle.ID, 5, assessmentmodels.SubCriterionScore{
			Code:   "D5",
			Rating: assessmentmodels.RatingNotRated,
		})
		s.Require().NoError(err)

		_, err = s.service.Calculate(ctx, s.profileID)
		s.Equal(dErrors.CodeIncompleteAssessment, dErrors.CodeOf(err))
	})
}

// =============================================================================
// Outcome Priority
// =============================================================================

func (s *DecisionServiceSuite) TestOutcomes() {
	ctx := context.Background()

	s.Run("all pillars pass certifies with a full score", func() {
		s.rateAllPillars(assessmentmodels.RatingGreen)
		d, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)
		s.Equal(models.OutcomeCertified, d.Outcome)
		s.Require().NotNil(d.OverallWeightedScore)
		s.InDelta(1.0, *d.OverallWeightedScore, 1e-9)
		s.Require().NotNil(d.DecidedAt)
	})

	s.Run("any failed pillar wins over conditionals", func() {
		s.rateAllPillars(assessmentmodels.RatingGreen)
		s.failPillar(3)
		s.conditionalPillar(4)
		d, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)
		s.Equal(models.OutcomeNotCertified, d.Outcome)
	})

	s.Run("a conditional pillar without failures grants conditional certification", func() {
		s.rateAllPillars(assessmentmodels.RatingGreen)
		s.conditionalPillar(2)
		d, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)
		s.Equal(models.OutcomeConditionalCertification, d.Outcome)
	})

	s.Run("auto-failed pillar contributes zero to the overall score", func() {
		s.rateAllPillars(assessmentmodels.RatingGreen)
		// L1 is auto-fail; a red rating nulls pillar 1's score entirely.
		err := s.scores.UpdateScore(ctx, s.cycle.ID, 1, assessmentmodels.SubCriterionScore{
			Code:      "L1",
			Rating:    assessmentmodels.RatingRed,
			UpdatedAt: time.Now(),
		})
		s.Require().NoError(err)

		d, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)
		s.Equal(models.OutcomeNotCertified, d.Outcome)
		s.Require().NotNil(d.OverallWeightedScore)

		var p1 catalog.PillarDefinition
		p1, _ = s.defs.Pillar(1)
		s.InDelta(1.0-p1.Weight, *d.OverallWeightedScore, 1e-9)
	})

	s.Run("identical inputs produce identical outcomes", func() {
		s.rateAllPillars(assessmentmodels.RatingGreen)
		s.conditionalPillar(2)
		first, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)
		second, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)
		s.Equal(first.Outcome, second.Outcome)
		s.InDelta(*first.OverallWeightedScore, *second.OverallWeightedScore, 1e-9)
		s.Equal(first.Revision+1, second.Revision)
	})
}

// =============================================================================
// Global Disqualification
// =============================================================================

func (s *DecisionServiceSuite) TestDisqualification() {
	ctx := context.Background()

	s.Run("disqualification short-circuits even a perfect scorecard", func() {
		s.rateAllPillars(assessmentmodels.RatingGreen)
		s.Require().NoError(s.cycles.SetDisqualification(ctx, s.cycle.ID, true, "sanctions match"))

		d, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)
		s.Equal(models.OutcomeNotCertified, d.Outcome)
		s.True(d.GlobalAutoFail)
		s.Require().NotNil(d.GlobalAutoFailReason)
		s.Equal("sanctions match", *d.GlobalAutoFailReason)
		s.Nil(d.OverallWeightedScore)
	})

	s.Run("disqualification skips the incomplete gate", func() {
		// No ratings at all; the short-circuit must still decide.
		s.Require().NoError(s.cycles.SetDisqualification(ctx, s.cycle.ID, true, "fraud conviction"))
		d, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)
		s.Equal(models.OutcomeNotCertified, d.Outcome)
	})

	s.Run("clearing the flag restores normal evaluation", func() {
		s.rateAllPillars(assessmentmodels.RatingGreen)
		s.Require().NoError(s.cycles.SetDisqualification(ctx, s.cycle.ID, true, "sanctions match"))
		s.Require().NoError(s.cycles.SetDisqualification(ctx, s.cycle.ID, false, ""))

		d, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)
		s.Equal(models.OutcomeCertified, d.Outcome)
		s.False(d.GlobalAutoFail)
	})
}

// =============================================================================
// Revisions and Lookup
// =============================================================================

func (s *DecisionServiceSuite) TestRevisionsAndGet() {
	ctx := context.Background()

	s.Run("every calculation appends a revision", func() {
		s.rateAllPillars(assessmentmodels.RatingGreen)
		first, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)
		s.Equal(0, first.Revision)

		s.conditionalPillar(2)
		second, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)
		s.Equal(1, second.Revision)

		revisions := s.decisions.Revisions(s.cycle.ID)
		s.Require().Len(revisions, 2)
		s.Equal(models.OutcomeCertified, revisions[0].Outcome)
		s.Equal(models.OutcomeConditionalCertification, revisions[1].Outcome)
	})

	s.Run("get returns the latest revision", func() {
		s.rateAllPillars(assessmentmodels.RatingGreen)
		_, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)
		s.failPillar(3)
		latest, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)

		got, err := s.service.Get(ctx, s.profileID)
		s.Require().NoError(err)
		s.Equal(latest.Revision, got.Revision)
		s.Equal(models.OutcomeNotCertified, got.Outcome)
	})

	s.Run("get without any decision returns not found", func() {
		_, err := s.service.Get(ctx, s.profileID)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("unknown profile returns not found", func() {
		_, err := s.service.Get(ctx, id.NewProfileID())
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("closed cycle rejects calculation", func() {
		s.rateAllPillars(assessmentmodels.RatingGreen)
		s.Require().NoError(s.cycles.Close(ctx, s.cycle.ID, time.Now()))
		_, err := s.service.Calculate(ctx, s.profileID)
		s.Equal(dErrors.CodeStaleState, dErrors.CodeOf(err))
	})
}

// =============================================================================
// Audit Trail
// =============================================================================

func (s *DecisionServiceSuite) TestAuditTrail() {
	ctx := context.Background()

	s.Run("each persisted decision emits one audit event", func() {
		s.rateAllPillars(assessmentmodels.RatingGreen)
		_, err := s.service.Calculate(ctx, s.profileID)
		s.Require().NoError(err)

		events := s.audit.Events()
		s.Require().Len(events, 1)
		s.Equal(string(models.OutcomeCertified), events[0].Outcome)
	})

	s.Run("blocked calculations emit nothing", func() {
		_, err := s.service.Calculate(ctx, s.profileID)
		s.Error(err)
		s.Empty(s.audit.Events())
	})
}
