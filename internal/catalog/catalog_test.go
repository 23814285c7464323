package catalog

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Catalogue Validation Test Suite
// =============================================================================
// Justification for unit tests: a malformed catalogue silently corrupts every
// score computed from it. Validation must reject each structural defect with
// a message that points at the offending pillar or criterion.

type CatalogSuite struct {
	suite.Suite
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) TestDefaultIsValid() {
	defs := Default()
	s.NoError(defs.Validate())
	s.Len(defs.Pillars, 5)

	total := 0
	for _, p := range defs.Pillars {
		total += len(p.Criteria)
	}
	s.Equal(25, total)
}

func (s *CatalogSuite) TestValidate() {
	s.Run("missing version is rejected", func() {
		defs := Default()
		defs.Version = ""
		s.ErrorContains(defs.Validate(), "version")
	})

	s.Run("wrong pillar count is rejected", func() {
		defs := Default()
		defs.Pillars = defs.Pillars[:4]
		s.ErrorContains(defs.Validate(), "exactly 5 pillars")
	})

	s.Run("duplicate pillar number is rejected", func() {
		defs := Default()
		defs.Pillars[1].Number = defs.Pillars[0].Number
		s.ErrorContains(defs.Validate(), "duplicate pillar number")
	})

	s.Run("pillar weights must sum to one", func() {
		defs := Default()
		defs.Pillars[0].Weight = 0.5
		s.ErrorContains(defs.Validate(), "sum to 1")
	})

	s.Run("criterion weights must sum to one", func() {
		defs := Default()
		defs.Pillars[2].Criteria[0].Weight = 0.9
		s.ErrorContains(defs.Validate(), "sum to 1")
	})

	s.Run("duplicate criterion code within a pillar is rejected", func() {
		defs := Default()
		defs.Pillars[0].Criteria[1].Code = defs.Pillars[0].Criteria[0].Code
		s.ErrorContains(defs.Validate(), "duplicate criterion code")
	})

	s.Run("conditional threshold must sit below pass", func() {
		defs := Default()
		defs.Thresholds.Conditional = defs.Thresholds.Pass
		s.ErrorContains(defs.Validate(), "conditional")
	})

	s.Run("pass threshold above one is rejected", func() {
		defs := Default()
		defs.Thresholds.Pass = 1.5
		s.ErrorContains(defs.Validate(), "pass threshold")
	})
}

func (s *CatalogSuite) TestLookups() {
	defs := Default()

	s.Run("pillar lookup by number", func() {
		p, ok := defs.Pillar(2)
		s.True(ok)
		s.Equal(2, p.Number)

		_, ok = defs.Pillar(6)
		s.False(ok)
	})

	s.Run("criterion lookup by code", func() {
		p, ok := defs.Pillar(1)
		s.Require().True(ok)
		c, ok := p.Criterion("L1")
		s.True(ok)
		s.Equal("L1", c.Code)
		s.True(c.AutoFail)

		_, ok = p.Criterion("F1")
		s.False(ok)
	})
}

func (s *CatalogSuite) TestLoad() {
	s.Run("empty path serves the built-in catalogue", func() {
		defs, err := Load("")
		s.Require().NoError(err)
		s.NoError(defs.Validate())
	})

	s.Run("missing file returns an error", func() {
		_, err := Load("/nonexistent/catalogue.json")
		s.Error(err)
	})
}
