// Package decision implements the global decision calculator and the
// versioned decision record store.
package decision

import (
	"context"

	"certus/internal/decision/models"
	id "certus/pkg/domain"
)

// Store persists decision revisions. Implementations return sentinel errors.
type Store interface {
	// Save inserts a new revision, assigning Revision = latest + 1 (0 for the
	// first). The passed decision's Revision field is ignored on input and
	// populated on return.
	Save(ctx context.Context, decision *models.Decision) error

	// Latest returns the highest revision for a cycle.
	Latest(ctx context.Context, cycleID id.CycleID) (*models.Decision, error)
}
