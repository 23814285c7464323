// Package audit defines the engine's audit events and the outbox they flow
// through. The engine announces what it did; durable audit storage is the
// external audit subsystem's concern, fed from the Kafka topic the relay
// publishes to.
package audit

import (
	"context"
	"time"

	id "certus/pkg/domain"
)

// Action names for engine audit events.
type Action string

const (
	ActionRatingRecorded      Action = "rating_recorded"
	ActionDecisionCalculated  Action = "decision_calculated"
	ActionCycleOpened         Action = "cycle_opened"
	ActionCycleClosed         Action = "cycle_closed"
	ActionDisqualificationSet Action = "disqualification_set"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp  time.Time
	ProfileID  id.ProfileID
	CycleID    id.CycleID
	Action     Action
	ReviewerID string // who performed the action, from the request context
	Subject    string // what was acted on (criterion code, pillar number, ...)
	Outcome    string // resulting state (rating value, decision outcome, ...)
	Reason     string // free text (auto-fail reason, disqualification reason)
	RequestID  string // correlation ID from HTTP request context
}

// Store accepts events for eventual delivery. Implementations must be safe
// for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
}
