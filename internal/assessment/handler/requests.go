package handler

import (
	"strings"

	"certus/internal/assessment/models"
	dErrors "certus/pkg/domain-errors"
)

const maxNotesLength = 2000

// RateCriterionRequest is the HTTP request body for rating a criterion.
type RateCriterionRequest struct {
	Rating string `json:"rating"`
	Notes  string `json:"notes"`

	// Parsed values (populated by Validate)
	parsedRating models.Rating
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RateCriterionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Rating = strings.TrimSpace(r.Rating)
	if r.Rating == "" {
		return dErrors.New(dErrors.CodeValidation, "rating is required")
	}
	rating, err := models.ParseRating(r.Rating)
	if err != nil {
		return err
	}
	r.parsedRating = rating

	if len(r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes must be at most 2000 characters")
	}
	r.Notes = strings.TrimSpace(r.Notes)

	return nil
}

// ParsedRating returns the validated rating.
func (r *RateCriterionRequest) ParsedRating() models.Rating {
	return r.parsedRating
}
