package handler

import (
	"time"

	"certus/internal/assessment/models"
)

// AssessmentResponse is the HTTP representation of one pillar assessment.
type AssessmentResponse struct {
	ProfileID         string                  `json:"profile_id"`
	CycleID           string                  `json:"cycle_id"`
	PillarNumber      int                     `json:"pillar_number"`
	PillarName        string                  `json:"pillar_name"`
	PillarWeight      float64                 `json:"pillar_weight"`
	Scores            []CriterionScoreResponse `json:"scores"`
	WeightedScore     *float64                `json:"weighted_score"`
	Status            string                  `json:"status"`
	AutoFailTriggered bool                    `json:"auto_fail_triggered"`
	AutoFailReason    *string                 `json:"auto_fail_reason,omitempty"`
}

// CriterionScoreResponse is one criterion's score within a pillar.
type CriterionScoreResponse struct {
	Code      string     `json:"code"`
	Rating    string     `json:"rating"`
	Notes     string     `json:"notes,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// FromAssessment converts a domain pillar assessment to an HTTP response.
func FromAssessment(a *models.PillarAssessment) *AssessmentResponse {
	scores := make([]CriterionScoreResponse, 0, len(a.Scores))
	for _, s := range a.Scores {
		sc := CriterionScoreResponse{
			Code:   s.Code,
			Rating: string(s.Rating),
			Notes:  s.Notes,
		}
		if !s.UpdatedAt.IsZero() {
			t := s.UpdatedAt
			sc.UpdatedAt = &t
		}
		scores = append(scores, sc)
	}
	return &AssessmentResponse{
		ProfileID:         a.ProfileID.String(),
		CycleID:           a.CycleID.String(),
		PillarNumber:      a.PillarNumber,
		PillarName:        a.PillarName,
		PillarWeight:      a.PillarWeight,
		Scores:            scores,
		WeightedScore:     a.WeightedScore,
		Status:            string(a.Status),
		AutoFailTriggered: a.AutoFailTriggered,
		AutoFailReason:    a.AutoFailReason,
	}
}

// FromAssessments converts the full pillar list.
func FromAssessments(assessments []models.PillarAssessment) []*AssessmentResponse {
	out := make([]*AssessmentResponse, 0, len(assessments))
	for i := range assessments {
		out = append(out, FromAssessment(&assessments[i]))
	}
	return out
}
