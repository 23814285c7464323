// Package catalog holds the certification definition catalogue: the five
// pillars, their criteria and weights, and the scoring thresholds. The
// catalogue is read-only input to the engine, versioned independently of any
// profile's assessments.
package catalog

import (
	"fmt"
	"math"
)

// weightTolerance absorbs float representation noise when checking that
// weights sum to 1.
const weightTolerance = 1e-9

// Definitions is one immutable version of the certification catalogue.
type Definitions struct {
	Version    string             `json:"version"`
	Disclaimer string             `json:"disclaimer"`
	Thresholds Thresholds         `json:"thresholds"`
	Pillars    []PillarDefinition `json:"pillars"`
}

// Thresholds are the deployment-supplied score cutoffs for deriving a pillar
// status from its weighted score.
type Thresholds struct {
	Pass        float64 `json:"pass"`
	Conditional float64 `json:"conditional"`
}

// PillarDefinition describes one of the five assessment dimensions.
type PillarDefinition struct {
	Number      int                   `json:"number"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Weight      float64               `json:"weight"`
	Criteria    []CriterionDefinition `json:"criteria"`
}

// CriterionDefinition describes one individually rated requirement.
type CriterionDefinition struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
	// AutoFail marks a criterion whose red rating fails the whole pillar
	// regardless of every other score.
	AutoFail bool `json:"auto_fail"`
	// MandatoryEvidence lists the evidence labels reviewers expect to see.
	// Informational only; the engine never inspects evidence.
	MandatoryEvidence []string `json:"mandatory_evidence"`
}

// Pillar returns the definition for a pillar number.
func (d *Definitions) Pillar(number int) (PillarDefinition, bool) {
	for _, p := range d.Pillars {
		if p.Number == number {
			return p, true
		}
	}
	return PillarDefinition{}, false
}

// Criterion returns the definition for a code within a pillar.
func (p *PillarDefinition) Criterion(code string) (CriterionDefinition, bool) {
	for _, c := range p.Criteria {
		if c.Code == code {
			return c, true
		}
	}
	return CriterionDefinition{}, false
}

// Validate checks the structural invariants of a catalogue version. A
// catalogue that fails validation must never be served.
func (d *Definitions) Validate() error {
	if d.Version == "" {
		return fmt.Errorf("catalogue version is required")
	}
	if err := d.Thresholds.validate(); err != nil {
		return err
	}
	if len(d.Pillars) != 5 {
		return fmt.Errorf("catalogue must define exactly 5 pillars, got %d", len(d.Pillars))
	}

	seenNumbers := make(map[int]bool, len(d.Pillars))
	var pillarWeightSum float64
	for _, p := range d.Pillars {
		if p.Number < 1 || p.Number > 5 {
			return fmt.Errorf("pillar number %d out of range 1-5", p.Number)
		}
		if seenNumbers[p.Number] {
			return fmt.Errorf("duplicate pillar number %d", p.Number)
		}
		seenNumbers[p.Number] = true
		if p.Name == "" {
			return fmt.Errorf("pillar %d: name is required", p.Number)
		}
		if p.Weight <= 0 || p.Weight > 1 {
			return fmt.Errorf("pillar %d: weight must be in (0,1], got %g", p.Number, p.Weight)
		}
		pillarWeightSum += p.Weight

		if len(p.Criteria) == 0 {
			return fmt.Errorf("pillar %d: at least one criterion is required", p.Number)
		}
		seenCodes := make(map[string]bool, len(p.Criteria))
		var criterionWeightSum float64
		for _, c := range p.Criteria {
			if c.Code == "" {
				return fmt.Errorf("pillar %d: criterion code is required", p.Number)
			}
			if seenCodes[c.Code] {
				return fmt.Errorf("pillar %d: duplicate criterion code %q", p.Number, c.Code)
			}
			seenCodes[c.Code] = true
			if c.Weight <= 0 || c.Weight > 1 {
				return fmt.Errorf("pillar %d criterion %s: weight must be in (0,1], got %g", p.Number, c.Code, c.Weight)
			}
			criterionWeightSum += c.Weight
		}
		if math.Abs(criterionWeightSum-1) > weightTolerance {
			return fmt.Errorf("pillar %d: criterion weights must sum to 1, got %g", p.Number, criterionWeightSum)
		}
	}
	if math.Abs(pillarWeightSum-1) > weightTolerance {
		return fmt.Errorf("pillar weights must sum to 1, got %g", pillarWeightSum)
	}
	return nil
}

func (t Thresholds) validate() error {
	if t.Pass <= 0 || t.Pass > 1 {
		return fmt.Errorf("pass threshold must be in (0,1], got %g", t.Pass)
	}
	if t.Conditional < 0 || t.Conditional >= t.Pass {
		return fmt.Errorf("conditional threshold must satisfy 0 <= conditional < pass, got %g", t.Conditional)
	}
	return nil
}
