//go:build integration

package decision_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"certus/internal/assessment"
	assessmentmodels "certus/internal/assessment/models"
	assessmentpg "certus/internal/assessment/store/postgres"
	"certus/internal/catalog"
	"certus/internal/decision"
	decisionmodels "certus/internal/decision/models"
	decisionpg "certus/internal/decision/store/postgres"
	"certus/internal/profile"
	profilepg "certus/internal/profile/store/postgres"
	id "certus/pkg/domain"
	dErrors "certus/pkg/domain-errors"
	auditpg "certus/pkg/platform/audit/store/postgres"
	"certus/pkg/testutil"
	"certus/pkg/testutil/containers"
)

// TestCertificationLifecycle walks one profile through the full flow against
// real PostgreSQL: open, rate, calculate, disqualify, recalculate, close.
func TestCertificationLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	pg := containers.GetManager().GetPostgres(t)
	require.NoError(t, pg.TruncateTables(ctx, "cycles", "criterion_scores", "decisions", "audit_outbox"))

	defs := catalog.Default()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cycles := profilepg.New(pg.DB)
	scores := assessmentpg.New(pg.DB)
	decisions := decisionpg.New(pg.DB)
	auditStore := auditpg.New(pg.DB)

	assessmentSvc, err := assessment.New(defs, cycles, scores, nil, auditStore, nil, logger)
	require.NoError(t, err)
	profileSvc, err := profile.New(defs, pg.DB, cycles, scores, decisions, auditStore, nil, logger)
	require.NoError(t, err)
	decisionSvc, err := decision.New(defs, pg.DB, cycles, scores, decisions, auditStore, nil, logger)
	require.NoError(t, err)

	profileID := id.NewProfileID()

	testutil.Given(t, "a freshly opened certification cycle", func(t *testing.T) {
		cycle, err := profileSvc.OpenCycle(ctx, profileID)
		require.NoError(t, err)
		require.True(t, cycle.Open())

		pending, err := decisionSvc.Get(ctx, profileID)
		require.NoError(t, err)
		require.Equal(t, decisionmodels.OutcomePending, pending.Outcome)
	})

	testutil.When(t, "the decision is calculated before any ratings", func(t *testing.T) {
		_, err := decisionSvc.Calculate(ctx, profileID)
		require.Equal(t, dErrors.CodeIncompleteAssessment, dErrors.CodeOf(err))
	})

	testutil.When(t, "every criterion is rated green", func(t *testing.T) {
		for _, p := range defs.Pillars {
			for _, c := range p.Criteria {
				_, err := assessmentSvc.RateCriterion(ctx, assessment.RateCriterionRequest{
					ProfileID:     profileID,
					PillarNumber:  p.Number,
					CriterionCode: c.Code,
					Rating:        assessmentmodels.RatingGreen,
				})
				require.NoError(t, err)
			}
		}
	})

	testutil.Then(t, "the profile is certified with a full score", func(t *testing.T) {
		d, err := decisionSvc.Calculate(ctx, profileID)
		require.NoError(t, err)
		require.Equal(t, decisionmodels.OutcomeCertified, d.Outcome)
		require.NotNil(t, d.OverallWeightedScore)
		require.InDelta(t, 1.0, *d.OverallWeightedScore, 1e-9)
	})

	testutil.When(t, "compliance disqualifies the profile", func(t *testing.T) {
		_, err := profileSvc.SetDisqualification(ctx, profileID, true, "sanctions match")
		require.NoError(t, err)
	})

	testutil.Then(t, "recalculation overrides the perfect scorecard", func(t *testing.T) {
		d, err := decisionSvc.Calculate(ctx, profileID)
		require.NoError(t, err)
		require.Equal(t, decisionmodels.OutcomeNotCertified, d.Outcome)
		require.True(t, d.GlobalAutoFail)
	})

	testutil.Then(t, "closing the cycle freezes all state", func(t *testing.T) {
		closed, err := profileSvc.CloseCycle(ctx, profileID)
		require.NoError(t, err)
		require.NotNil(t, closed.ClosedAt)

		_, err = assessmentSvc.RateCriterion(ctx, assessment.RateCriterionRequest{
			ProfileID:     profileID,
			PillarNumber:  1,
			CriterionCode: "L1",
			Rating:        assessmentmodels.RatingGreen,
		})
		require.Equal(t, dErrors.CodeStaleState, dErrors.CodeOf(err))

		_, err = decisionSvc.Calculate(ctx, profileID)
		require.Equal(t, dErrors.CodeStaleState, dErrors.CodeOf(err))
	})

	testutil.Then(t, "every action left an audit outbox row", func(t *testing.T) {
		var count int
		require.NoError(t, pg.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM audit_outbox").Scan(&count))
		// cycle open + 25 ratings + 2 decisions + disqualification + close
		require.Equal(t, 30, count)
	})
}
