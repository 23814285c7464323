package handler

import "certus/internal/catalog"

// DefinitionsResponse is the HTTP representation of the criteria catalogue.
type DefinitionsResponse struct {
	Version    string             `json:"version"`
	Disclaimer string             `json:"disclaimer,omitempty"`
	Thresholds ThresholdsResponse `json:"thresholds"`
	Pillars    []PillarResponse   `json:"pillars"`
}

// ThresholdsResponse carries the decision cut-offs.
type ThresholdsResponse struct {
	Pass        float64 `json:"pass"`
	Conditional float64 `json:"conditional"`
}

// PillarResponse is one pillar definition.
type PillarResponse struct {
	Number      int                 `json:"number"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Weight      float64             `json:"weight"`
	Criteria    []CriterionResponse `json:"criteria"`
}

// CriterionResponse is one criterion definition.
type CriterionResponse struct {
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	Weight            float64  `json:"weight"`
	AutoFail          bool     `json:"auto_fail"`
	MandatoryEvidence []string `json:"mandatory_evidence,omitempty"`
}

// FromDefinitions converts the catalogue to its HTTP response.
func FromDefinitions(defs *catalog.Definitions) *DefinitionsResponse {
	pillars := make([]PillarResponse, 0, len(defs.Pillars))
	for _, p := range defs.Pillars {
		criteria := make([]CriterionResponse, 0, len(p.Criteria))
		for _, c := range p.Criteria {
			criteria = append(criteria, CriterionResponse{
				Code:              c.Code,
				Name:              c.Name,
				Description:       c.Description,
				Weight:            c.Weight,
				AutoFail:          c.AutoFail,
				MandatoryEvidence: c.MandatoryEvidence,
			})
		}
		pillars = append(pillars, PillarResponse{
			Number:      p.Number,
			Name:        p.Name,
			Description: p.Description,
			Weight:      p.Weight,
			Criteria:    criteria,
		})
	}
	return &DefinitionsResponse{
		Version:    defs.Version,
		Disclaimer: defs.Disclaimer,
		Thresholds: ThresholdsResponse{
			Pass:        defs.Thresholds.Pass,
			Conditional: defs.Thresholds.Conditional,
		},
		Pillars: pillars,
	}
}
