package handler

import (
	"strings"

	dErrors "certus/pkg/domain-errors"
)

const maxReasonLength = 500

// SetDisqualificationRequest is the HTTP request body for the global
// disqualification flag.
type SetDisqualificationRequest struct {
	Disqualified bool   `json:"disqualified"`
	Reason       string `json:"reason"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SetDisqualificationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Reason = strings.TrimSpace(r.Reason)
	if len(r.Reason) > maxReasonLength {
		return dErrors.New(dErrors.CodeValidation, "reason must be at most 500 characters")
	}
	if r.Disqualified && r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required when disqualifying")
	}
	if !r.Disqualified {
		r.Reason = ""
	}

	return nil
}
