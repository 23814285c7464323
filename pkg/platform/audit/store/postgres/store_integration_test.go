//go:build integration

package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "certus/pkg/domain"
	"certus/pkg/platform/audit"
	"certus/pkg/platform/audit/store/postgres"
	txcontext "certus/pkg/platform/tx"
	"certus/pkg/testutil/containers"
)

type OutboxSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestOutboxSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OutboxSuite))
}

func (s *OutboxSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *OutboxSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_outbox"))
}

func (s *OutboxSuite) unpublishedCount(ctx context.Context) int {
	var count int
	err := s.postgres.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM audit_outbox WHERE published = FALSE").Scan(&count)
	s.Require().NoError(err)
	return count
}

func (s *OutboxSuite) TestAppend() {
	ctx := context.Background()

	event := audit.Event{
		Timestamp:  time.Now().UTC(),
		ProfileID:  id.NewProfileID(),
		CycleID:    id.NewCycleID(),
		Action:     audit.ActionRatingRecorded,
		ReviewerID: "reviewer-1",
		Subject:    "pillar 1 criterion L1",
		Outcome:    "green",
		RequestID:  "req-123",
	}
	s.Require().NoError(s.store.Append(ctx, event))
	s.Equal(1, s.unpublishedCount(ctx))

	var raw []byte
	err := s.postgres.DB.QueryRowContext(ctx, "SELECT payload FROM audit_outbox").Scan(&raw)
	s.Require().NoError(err)

	var payload map[string]any
	s.Require().NoError(json.Unmarshal(raw, &payload))
	s.Equal(string(audit.ActionRatingRecorded), payload["Action"])
	s.Equal("reviewer-1", payload["ReviewerID"])
	s.Equal(event.ProfileID.String(), payload["ProfileID"])
	s.Equal("green", payload["Outcome"])
}

// The outbox write must join a caller-carried transaction so audit rows exist
// iff the domain write commits.
func (s *OutboxSuite) TestJoinsTransaction() {
	ctx := context.Background()

	s.Run("rollback discards the event", func() {
		tx, err := s.postgres.DB.BeginTx(ctx, nil)
		s.Require().NoError(err)

		txCtx := txcontext.WithTx(ctx, tx)
		s.Require().NoError(s.store.Append(txCtx, audit.Event{
			Timestamp: time.Now().UTC(),
			Action:    audit.ActionCycleOpened,
		}))
		s.Require().NoError(tx.Rollback())

		s.Equal(0, s.unpublishedCount(ctx))
	})

	s.Run("commit persists the event", func() {
		tx, err := s.postgres.DB.BeginTx(ctx, nil)
		s.Require().NoError(err)

		txCtx := txcontext.WithTx(ctx, tx)
		s.Require().NoError(s.store.Append(txCtx, audit.Event{
			Timestamp: time.Now().UTC(),
			Action:    audit.ActionCycleOpened,
		}))
		s.Require().NoError(tx.Commit())

		s.Equal(1, s.unpublishedCount(ctx))
	})
}
