package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	audit "certus/pkg/platform/audit"
	txcontext "certus/pkg/platform/tx"
)

// Store implements audit.Store using the transactional outbox pattern.
// Events are written to the outbox table and published to Kafka by the relay.
// When the caller carries a transaction in context the outbox write joins it,
// so an audit event is recorded iff the domain write commits.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store that writes to the outbox.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// outboxPayload is the JSON structure published to Kafka. Field names match
// audit.Event for proper deserialization by the consumer.
type outboxPayload struct {
	ID         string `json:"ID"`
	Timestamp  string `json:"Timestamp"`
	ProfileID  string `json:"ProfileID,omitempty"`
	CycleID    string `json:"CycleID,omitempty"`
	Action     string `json:"Action"`
	ReviewerID string `json:"ReviewerID,omitempty"`
	Subject    string `json:"Subject,omitempty"`
	Outcome    string `json:"Outcome,omitempty"`
	Reason     string `json:"Reason,omitempty"`
	RequestID  string `json:"RequestID,omitempty"`
}

// Append writes an audit event to the outbox table for Kafka publishing.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	payload := outboxPayload{
		ID:         eventID.String(),
		Timestamp:  ts.UTC().Format(time.RFC3339Nano),
		Action:     string(event.Action),
		ReviewerID: event.ReviewerID,
		Subject:    event.Subject,
		Outcome:    event.Outcome,
		Reason:     event.Reason,
		RequestID:  event.RequestID,
	}
	if !event.ProfileID.IsNil() {
		payload.ProfileID = event.ProfileID.String()
	}
	if !event.CycleID.IsNil() {
		payload.CycleID = event.CycleID.String()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}

	query := `
		INSERT INTO audit_outbox (id, created_at, payload, published)
		VALUES ($1, $2, $3, FALSE)
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, eventID, ts, body); err != nil {
		return fmt.Errorf("append audit outbox: %w", err)
	}
	return nil
}
