// Package models defines the certification decision record.
package models

import (
	"time"

	id "certus/pkg/domain"
)

// Outcome is the binding result of a certification cycle.
type Outcome string

const (
	OutcomePending                  Outcome = "pending"
	OutcomeCertified                Outcome = "certified"
	OutcomeConditionalCertification Outcome = "conditional_certification"
	OutcomeNotCertified             Outcome = "not_certified"
)

// Decision is one revision of a cycle's certification decision. Revisions are
// insert-only; the API always serves the latest one, and prior revisions stay
// available to the external audit subsystem.
type Decision struct {
	ProfileID id.ProfileID
	CycleID   id.CycleID
	Revision  int

	Outcome Outcome
	// OverallWeightedScore is nil while the decision is pending and for
	// globally disqualified profiles, where pillar scoring is skipped.
	OverallWeightedScore *float64
	GlobalAutoFail       bool
	GlobalAutoFailReason *string
	// DecidedAt is nil only for the pending revision created at cycle open.
	DecidedAt *time.Time
	CreatedAt time.Time
}
