// Package models defines the engine's view of a profile's certification
// cycle. Profiles themselves are owned by the external SME-management
// subsystem; the engine records only what it needs to gate scoring.
package models

import (
	"time"

	id "certus/pkg/domain"
)

// CycleState gates what the engine will accept for a cycle.
type CycleState string

const (
	// CycleStateUnderReview allows scoring and decision calculation.
	CycleStateUnderReview CycleState = "under_review"
	// CycleStateClosed rejects all further mutation; a renewal opens a fresh
	// cycle instead.
	CycleStateClosed CycleState = "closed"
)

// Cycle is one certification period for a profile. The disqualification flag
// is set by the external compliance workflow; the engine only reads it.
type Cycle struct {
	ID                     id.CycleID
	ProfileID              id.ProfileID
	State                  CycleState
	Disqualified           bool
	DisqualificationReason string
	OpenedAt               time.Time
	ClosedAt               *time.Time
}

// Open reports whether the cycle still accepts mutation.
func (c *Cycle) Open() bool {
	return c.State != CycleStateClosed
}
