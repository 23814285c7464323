// Package profile manages the engine-side record of certification cycles:
// opening (and thereby superseding), closing, and the compliance-set
// disqualification flag.
package profile

import (
	"context"
	"time"

	"certus/internal/profile/models"
	id "certus/pkg/domain"
)

// Store persists cycles. Implementations return sentinel errors; the service
// translates them.
type Store interface {
	// Create inserts a new cycle. Returns sentinel.ErrConflict when the
	// profile already has an open cycle.
	Create(ctx context.Context, cycle *models.Cycle) error

	// Latest returns the profile's most recent cycle regardless of state.
	Latest(ctx context.Context, profileID id.ProfileID) (*models.Cycle, error)

	// Close marks a cycle closed.
	Close(ctx context.Context, cycleID id.CycleID, at time.Time) error

	// SetDisqualification sets or clears the global disqualification flag.
	SetDisqualification(ctx context.Context, cycleID id.CycleID, flagged bool, reason string) error
}
