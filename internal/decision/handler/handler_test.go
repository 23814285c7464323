package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"certus/internal/assessment"
	assessmentmodels "certus/internal/assessment/models"
	assessmentmemory "certus/internal/assessment/store/memory"
	"certus/internal/catalog"
	"certus/internal/decision"
	"certus/internal/decision/handler"
	decisionmemory "certus/internal/decision/store/memory"
	profilemodels "certus/internal/profile/models"
	profilememory "certus/internal/profile/store/memory"
	id "certus/pkg/domain"
	"certus/pkg/testutil"
)

// =============================================================================
// Decision Handler Test Suite
// =============================================================================

type DecisionHandlerSuite struct {
	suite.Suite
	router    chi.Router
	defs      *catalog.Definitions
	cycles    *profilememory.Store
	scores    *assessmentmemory.Store
	profileID id.ProfileID
	cycleID   id.CycleID
}

func TestDecisionHandlerSuite(t *testing.T) {
	suite.Run(t, new(DecisionHandlerSuite))
}

func (s *DecisionHandlerSuite) SetupTest() {
	s.defs = catalog.Default()
	s.cycles = profilememory.New()
	s.scores = assessmentmemory.New()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service, err := decision.New(s.defs, nil, s.cycles, s.scores, decisionmemory.New(), nil, nil, logger)
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	handler.New(service, logger).Register(s.router)

	s.profileID = id.NewProfileID()
	s.seedCycle()
}

func (s *DecisionHandlerSuite) seedCycle() {
	ctx := context.Background()
	cycle := &profilemodels.Cycle{
		ID:        id.NewCycleID(),
		ProfileID: s.profileID,
		State:     profilemodels.CycleStateUnderReview,
		OpenedAt:  time.Now(),
	}
	s.Require().NoError(s.cycles.Create(ctx, cycle))
	s.cycleID = cycle.ID

	seeds := make([]assessment.PillarSeed, 0, len(s.defs.Pillars))
	for _, p := range s.defs.Pillars {
		codes := make([]string, 0, len(p.Criteria))
		for _, c := range p.Criteria {
			codes = append(codes, c.Code)
		}
		seeds = append(seeds, assessment.PillarSeed{PillarNumber: p.Number, Codes: codes})
	}
	s.Require().NoError(s.scores.InitCycle(ctx, cycle.ID, seeds))
}

func (s *DecisionHandlerSuite) rateEverything(rating assessmentmodels.Rating) {
	ctx := context.Background()
	for _, p := range s.defs.Pillars {
		for _, c := range p.Criteria {
			err := s.scores.UpdateScore(ctx, s.cycleID, p.Number, assessmentmodels.SubCriterionScore{
				Code:      c.Code,
				Rating:    rating,
				UpdatedAt: time.Now(),
			})
			s.Require().NoError(err)
		}
	}
}

func (s *DecisionHandlerSuite) TestCalculate() {
	path := func(profileID id.ProfileID) string {
		return "/profiles/" + profileID.String() + "/decision:calculate"
	}

	s.Run("incomplete assessments return 409", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, path(s.profileID)))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "incomplete_assessment")
	})

	s.Run("complete scorecard calculates and returns the decision", func() {
		s.rateEverything(assessmentmodels.RatingGreen)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, path(s.profileID)))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[handler.DecisionResponse](s.T(), rr)
		s.Equal("certified", resp.Outcome)
		s.NotNil(resp.OverallWeightedScore)
		s.NotNil(resp.DecidedAt)
	})

	s.Run("unknown profile returns 404", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, path(id.NewProfileID())))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *DecisionHandlerSuite) TestGet() {
	path := "/profiles/" + s.profileID.String() + "/decision"

	s.Run("no decision yet returns 404", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, path))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("returns the latest revision after calculation", func() {
		s.rateEverything(assessmentmodels.RatingAmber)
		calc := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, path+":calculate"))
		testutil.AssertStatus(s.T(), calc, http.StatusOK)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, path))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[handler.DecisionResponse](s.T(), rr)
		s.Equal("conditional_certification", resp.Outcome)
	})
}
