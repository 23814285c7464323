// Package handler exposes the global decision endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"certus/internal/decision/models"
	id "certus/pkg/domain"
	"certus/pkg/platform/httputil"
	"certus/pkg/requestcontext"
)

// Service defines the interface for decision operations.
type Service interface {
	Calculate(ctx context.Context, profileID id.ProfileID) (*models.Decision, error)
	Get(ctx context.Context, profileID id.ProfileID) (*models.Decision, error)
}

// Handler wires decision endpoints to the decision service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a decision handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts decision endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/profiles/{profileID}/decision", h.HandleGet)
	r.Post("/profiles/{profileID}/decision:calculate", h.HandleCalculate)
}

// HandleCalculate handles POST /profiles/{profileID}/decision:calculate.
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	profileID, err := id.ParseProfileID(chi.URLParam(r, "profileID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decision, err := h.service.Calculate(ctx, profileID)
	if err != nil {
		h.logger.ErrorContext(ctx, "decision calculation failed",
			"request_id", requestID,
			"profile_id", profileID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "decision calculated",
		"request_id", requestID,
		"profile_id", profileID,
		"outcome", decision.Outcome,
		"revision", decision.Revision,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromDecision(decision))
}

// HandleGet handles GET /profiles/{profileID}/decision.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	profileID, err := id.ParseProfileID(chi.URLParam(r, "profileID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decision, err := h.service.Get(ctx, profileID)
	if err != nil {
		h.logger.ErrorContext(ctx, "decision lookup failed",
			"request_id", requestID,
			"profile_id", profileID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromDecision(decision))
}
