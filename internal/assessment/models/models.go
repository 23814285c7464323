// Package models defines the assessment domain: ratings, criterion scores,
// and the per-pillar assessment the engine derives from them.
package models

import (
	"time"

	id "certus/pkg/domain"
	dErrors "certus/pkg/domain-errors"
)

// Rating is a reviewer's qualitative score for one criterion.
type Rating string

const (
	RatingNotRated Rating = "not_rated"
	RatingRed      Rating = "red"
	RatingAmber    Rating = "amber"
	RatingGreen    Rating = "green"
)

// ratingValues maps reviewable ratings to their numeric contribution.
// RatingNotRated is deliberately absent: an unrated criterion never scores,
// it only blocks completeness.
var ratingValues = map[Rating]float64{
	RatingRed:   0.0,
	RatingAmber: 0.5,
	RatingGreen: 1.0,
}

// ParseRating constructs a Rating from external input. Only the three
// reviewer-assignable values are accepted; resetting to not_rated is an
// administrative action, not a rating.
func ParseRating(s string) (Rating, error) {
	r := Rating(s)
	if _, ok := ratingValues[r]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidRating, "rating must be one of red, amber, green")
	}
	return r, nil
}

// Value returns the numeric contribution of a rating. ok is false for
// not_rated (and anything unknown).
func (r Rating) Value() (float64, bool) {
	v, ok := ratingValues[r]
	return v, ok
}

func (r Rating) String() string { return string(r) }

// Status is the derived state of a pillar assessment.
type Status string

const (
	StatusInProgress  Status = "in_progress"
	StatusPass        Status = "pass"
	StatusConditional Status = "conditional"
	StatusFail        Status = "fail"
)

// SubCriterionScore is the mutable per-criterion record. Writes always replace
// the whole record (rating and notes together) so concurrent edits to the same
// criterion resolve last-write-wins without field merging.
type SubCriterionScore struct {
	Code      string
	Rating    Rating
	Notes     string
	UpdatedAt time.Time
}

// PillarAssessment is the derived view of one pillar for one cycle. Derived
// fields are recomputed from the criterion scores on every materialization;
// nothing here drifts from the score records.
type PillarAssessment struct {
	ProfileID    id.ProfileID
	CycleID      id.CycleID
	PillarNumber int
	PillarName   string
	PillarWeight float64
	Scores       []SubCriterionScore

	// WeightedScore is nil until every criterion is rated.
	WeightedScore     *float64
	Status            Status
	AutoFailTriggered bool
	AutoFailReason    *string
}
