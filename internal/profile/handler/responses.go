package handler

import (
	"time"

	"certus/internal/profile/models"
)

// CycleResponse is the HTTP representation of a certification cycle.
type CycleResponse struct {
	ID                     string     `json:"id"`
	ProfileID              string     `json:"profile_id"`
	State                  string     `json:"state"`
	Disqualified           bool       `json:"disqualified"`
	DisqualificationReason string     `json:"disqualification_reason,omitempty"`
	OpenedAt               time.Time  `json:"opened_at"`
	ClosedAt               *time.Time `json:"closed_at,omitempty"`
}

// FromCycle converts a domain cycle to an HTTP response.
func FromCycle(c *models.Cycle) *CycleResponse {
	return &CycleResponse{
		ID:                     c.ID.String(),
		ProfileID:              c.ProfileID.String(),
		State:                  string(c.State),
		Disqualified:           c.Disqualified,
		DisqualificationReason: c.DisqualificationReason,
		OpenedAt:               c.OpenedAt,
		ClosedAt:               c.ClosedAt,
	}
}
