// Package assessment implements criterion scoring and pillar aggregation: the
// layer that turns reviewer ratings into per-pillar results.
package assessment

import (
	"certus/internal/assessment/models"
	"certus/internal/catalog"
)

// AggregateResult is the derived state of one pillar.
type AggregateResult struct {
	WeightedScore     *float64
	Status            models.Status
	AutoFailTriggered bool
	AutoFailReason    *string
}

// Aggregate derives a pillar's weighted score and status from its criterion
// scores. Pure function, recomputed from scratch on every call; both the
// scorer and the decision calculator rely on it to keep pillar state
// consistent with the latest ratings.
//
// Evaluation order matters and is fixed:
//  1. An auto-fail criterion rated red fails the pillar outright. This is
//     checked first because it is decisive even while other criteria are
//     still unrated.
//  2. Any unrated criterion leaves the pillar in progress with no score.
//  3. Otherwise the weight-normalized average of rating values is compared
//     against the configured thresholds.
func Aggregate(def catalog.PillarDefinition, thresholds catalog.Thresholds, scores []models.SubCriterionScore) AggregateResult {
	byCode := make(map[string]models.SubCriterionScore, len(scores))
	for _, s := range scores {
		byCode[s.Code] = s
	}

	// Auto-fail short-circuit.
	for _, c := range def.Criteria {
		if !c.AutoFail {
			continue
		}
		if byCode[c.Code].Rating == models.RatingRed {
			reason := c.Name
			return AggregateResult{
				Status:            models.StatusFail,
				AutoFailTriggered: true,
				AutoFailReason:    &reason,
			}
		}
	}

	// Completeness check.
	for _, c := range def.Criteria {
		if _, rated := byCode[c.Code].Rating.Value(); !rated {
			return AggregateResult{Status: models.StatusInProgress}
		}
	}

	// Weight-normalized average in [0,1].
	var weightSum, valueSum float64
	for _, c := range def.Criteria {
		v, _ := byCode[c.Code].Rating.Value()
		weightSum += c.Weight
		valueSum += c.Weight * v
	}
	score := valueSum / weightSum

	status := models.StatusFail
	switch {
	case score >= thresholds.Pass:
		status = models.StatusPass
	case score >= thresholds.Conditional:
		status = models.StatusConditional
	}

	return AggregateResult{
		WeightedScore: &score,
		Status:        status,
	}
}

// Materialize combines a pillar definition with its score records into the
// full assessment view. Scores are ordered as the catalogue orders criteria;
// a missing record surfaces as not_rated rather than being invented.
func Materialize(def catalog.PillarDefinition, thresholds catalog.Thresholds, scores []models.SubCriterionScore) models.PillarAssessment {
	byCode := make(map[string]models.SubCriterionScore, len(scores))
	for _, s := range scores {
		byCode[s.Code] = s
	}
	ordered := make([]models.SubCriterionScore, 0, len(def.Criteria))
	for _, c := range def.Criteria {
		s, ok := byCode[c.Code]
		if !ok {
			s = models.SubCriterionScore{Code: c.Code, Rating: models.RatingNotRated}
		}
		ordered = append(ordered, s)
	}

	result := Aggregate(def, thresholds, ordered)
	return models.PillarAssessment{
		PillarNumber:      def.Number,
		PillarName:        def.Name,
		PillarWeight:      def.Weight,
		Scores:            ordered,
		WeightedScore:     result.WeightedScore,
		Status:            result.Status,
		AutoFailTriggered: result.AutoFailTriggered,
		AutoFailReason:    result.AutoFailReason,
	}
}
