// Package handler exposes the cycle lifecycle and disqualification endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"certus/internal/profile/models"
	id "certus/pkg/domain"
	"certus/pkg/platform/httputil"
	"certus/pkg/requestcontext"
)

// Service defines the interface for cycle lifecycle operations.
type Service interface {
	OpenCycle(ctx context.Context, profileID id.ProfileID) (*models.Cycle, error)
	CloseCycle(ctx context.Context, profileID id.ProfileID) (*models.Cycle, error)
	SetDisqualification(ctx context.Context, profileID id.ProfileID, flagged bool, reason string) (*models.Cycle, error)
}

// Handler wires cycle lifecycle endpoints to the profile service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a profile handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts cycle lifecycle endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/profiles/{profileID}/cycles", h.HandleOpenCycle)
	r.Post("/profiles/{profileID}/cycles/current:close", h.HandleCloseCycle)
	r.Put("/profiles/{profileID}/disqualification", h.HandleSetDisqualification)
}

// HandleOpenCycle handles POST /profiles/{profileID}/cycles.
func (h *Handler) HandleOpenCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	profileID, err := id.ParseProfileID(chi.URLParam(r, "profileID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	cycle, err := h.service.OpenCycle(ctx, profileID)
	if err != nil {
		h.logger.ErrorContext(ctx, "cycle open failed",
			"request_id", requestID,
			"profile_id", profileID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromCycle(cycle))
}

// HandleCloseCycle handles POST /profiles/{profileID}/cycles/current:close.
func (h *Handler) HandleCloseCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	profileID, err := id.ParseProfileID(chi.URLParam(r, "profileID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	cycle, err := h.service.CloseCycle(ctx, profileID)
	if err != nil {
		h.logger.ErrorContext(ctx, "cycle close failed",
			"request_id", requestID,
			"profile_id", profileID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromCycle(cycle))
}

// HandleSetDisqualification handles PUT /profiles/{profileID}/disqualification.
func (h *Handler) HandleSetDisqualification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	profileID, err := id.ParseProfileID(chi.URLParam(r, "profileID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetDisqualificationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	cycle, err := h.service.SetDisqualification(ctx, profileID, req.Disqualified, req.Reason)
	if err != nil {
		h.logger.ErrorContext(ctx, "disqualification update failed",
			"request_id", requestID,
			"profile_id", profileID,
			"disqualified", req.Disqualified,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "disqualification updated",
		"request_id", requestID,
		"profile_id", profileID,
		"disqualified", req.Disqualified,
	)

	httputil.WriteJSON(w, http.StatusOK, FromCycle(cycle))
}
