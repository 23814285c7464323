package handler

import (
	"time"

	"certus/internal/decision/models"
)

// DecisionResponse is the HTTP representation of a decision revision.
type DecisionResponse struct {
	ProfileID            string     `json:"profile_id"`
	CycleID              string     `json:"cycle_id"`
	Revision             int        `json:"revision"`
	Outcome              string     `json:"outcome"`
	OverallWeightedScore *float64   `json:"overall_weighted_score"`
	GlobalAutoFail       bool       `json:"global_auto_fail"`
	GlobalAutoFailReason *string    `json:"global_auto_fail_reason,omitempty"`
	DecidedAt            *time.Time `json:"decided_at,omitempty"`
}

// FromDecision converts a domain decision to an HTTP response.
func FromDecision(d *models.Decision) *DecisionResponse {
	return &DecisionResponse{
		ProfileID:            d.ProfileID.String(),
		CycleID:              d.CycleID.String(),
		Revision:             d.Revision,
		Outcome:              string(d.Outcome),
		OverallWeightedScore: d.OverallWeightedScore,
		GlobalAutoFail:       d.GlobalAutoFail,
		GlobalAutoFailReason: d.GlobalAutoFailReason,
		DecidedAt:            d.DecidedAt,
	}
}
