// Package handler serves the published criteria catalogue.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"certus/internal/catalog"
	"certus/pkg/platform/httputil"
)

// Handler serves the read-only catalogue endpoint.
type Handler struct {
	defs   *catalog.Definitions
	logger *slog.Logger
}

// New constructs a catalogue handler.
func New(defs *catalog.Definitions, logger *slog.Logger) *Handler {
	return &Handler{defs: defs, logger: logger}
}

// Register mounts the catalogue endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/definitions", h.HandleGetDefinitions)
}

// HandleGetDefinitions handles GET /definitions. The catalogue is immutable
// for the life of the process, so the response is built from the loaded
// definitions directly.
func (h *Handler) HandleGetDefinitions(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromDefinitions(h.defs))
}
