//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"certus/internal/profile/models"
	"certus/internal/profile/store/postgres"
	id "certus/pkg/domain"
	"certus/pkg/platform/sentinel"
	"certus/pkg/testutil/containers"
)

type CyclePostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestCyclePostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CyclePostgresSuite))
}

func (s *CyclePostgresSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *CyclePostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "cycles"))
}

func newCycle(profileID id.ProfileID) *models.Cycle {
	return &models.Cycle{
		ID:        id.NewCycleID(),
		ProfileID: profileID,
		State:     models.CycleStateUnderReview,
		OpenedAt:  time.Now().UTC(),
	}
}

func (s *CyclePostgresSuite) TestCreateAndLatest() {
	ctx := context.Background()
	profileID := id.NewProfileID()

	cycle := newCycle(profileID)
	s.Require().NoError(s.store.Create(ctx, cycle))

	got, err := s.store.Latest(ctx, profileID)
	s.Require().NoError(err)
	s.Equal(cycle.ID, got.ID)
	s.Equal(models.CycleStateUnderReview, got.State)
	s.False(got.Disqualified)

	_, err = s.store.Latest(ctx, id.NewProfileID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// The partial unique index must allow exactly one open cycle per profile even
// under concurrent creation attempts.
func (s *CyclePostgresSuite) TestOneOpenCyclePerProfile() {
	ctx := context.Background()
	profileID := id.NewProfileID()
	const goroutines = 20

	var wg sync.WaitGroup
	var successes, conflicts atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, newCycle(profileID))
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}

func (s *CyclePostgresSuite) TestCloseReleasesTheSlot() {
	ctx := context.Background()
	profileID := id.NewProfileID()

	first := newCycle(profileID)
	s.Require().NoError(s.store.Create(ctx, first))
	s.ErrorIs(s.store.Create(ctx, newCycle(profileID)), sentinel.ErrConflict)

	s.Require().NoError(s.store.Close(ctx, first.ID, time.Now().UTC()))

	second := newCycle(profileID)
	s.Require().NoError(s.store.Create(ctx, second))

	latest, err := s.store.Latest(ctx, profileID)
	s.Require().NoError(err)
	s.Equal(second.ID, latest.ID)
}

func (s *CyclePostgresSuite) TestDisqualificationRoundTrip() {
	ctx := context.Background()
	profileID := id.NewProfileID()
	cycle := newCycle(profileID)
	s.Require().NoError(s.store.Create(ctx, cycle))

	s.Require().NoError(s.store.SetDisqualification(ctx, cycle.ID, true, "sanctions match"))
	got, err := s.store.Latest(ctx, profileID)
	s.Require().NoError(err)
	s.True(got.Disqualified)
	s.Equal("sanctions match", got.DisqualificationReason)

	s.Require().NoError(s.store.SetDisqualification(ctx, cycle.ID, false, ""))
	got, err = s.store.Latest(ctx, profileID)
	s.Require().NoError(err)
	s.False(got.Disqualified)

	s.ErrorIs(s.store.SetDisqualification(ctx, id.NewCycleID(), true, "x"), sentinel.ErrNotFound)
}
