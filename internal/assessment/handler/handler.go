// Package handler exposes the assessment endpoints: the reviewer's scoring
// surface and the read side of pillar state.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"certus/internal/assessment"
	"certus/internal/assessment/models"
	id "certus/pkg/domain"
	dErrors "certus/pkg/domain-errors"
	"certus/pkg/platform/httputil"
	"certus/pkg/requestcontext"
)

// Service defines the interface for assessment operations.
type Service interface {
	RateCriterion(ctx context.Context, req assessment.RateCriterionRequest) (*models.PillarAssessment, error)
	ListAssessments(ctx context.Context, profileID id.ProfileID) ([]models.PillarAssessment, error)
}

// Handler wires assessment endpoints to the assessment service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an assessment handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts assessment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/profiles/{profileID}/assessments", h.HandleListAssessments)
	r.Put("/profiles/{profileID}/pillars/{pillarNumber}/criteria/{criterionCode}", h.HandleRateCriterion)
}

// HandleRateCriterion handles PUT /profiles/{profileID}/pillars/{pillarNumber}/criteria/{criterionCode}.
func (h *Handler) HandleRateCriterion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	profileID, err := id.ParseProfileID(chi.URLParam(r, "profileID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	pillarNumber, err := strconv.Atoi(chi.URLParam(r, "pillarNumber"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "pillar number must be an integer"))
		return
	}
	criterionCode := chi.URLParam(r, "criterionCode")

	req, ok := httputil.DecodeAndPrepare[RateCriterionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.RateCriterion(ctx, assessment.RateCriterionRequest{
		ProfileID:     profileID,
		PillarNumber:  pillarNumber,
		CriterionCode: criterionCode,
		Rating:        req.ParsedRating(),
		Notes:         req.Notes,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "criterion rating failed",
			"request_id", requestID,
			"profile_id", profileID,
			"pillar_number", pillarNumber,
			"criterion_code", criterionCode,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "criterion rated",
		"request_id", requestID,
		"profile_id", profileID,
		"pillar_number", pillarNumber,
		"criterion_code", criterionCode,
		"rating", req.Rating,
		"pillar_status", result.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromAssessment(result))
}

// HandleListAssessments handles GET /profiles/{profileID}/assessments.
func (h *Handler) HandleListAssessments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	profileID, err := id.ParseProfileID(chi.URLParam(r, "profileID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	assessments, err := h.service.ListAssessments(ctx, profileID)
	if err != nil {
		h.logger.ErrorContext(ctx, "assessment listing failed",
			"request_id", requestID,
			"profile_id", profileID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromAssessments(assessments))
}
