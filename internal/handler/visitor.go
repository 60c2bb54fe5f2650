package handler

import (
	"net/http"

	"github.com/cinevault/cinevault/internal/model"
	"github.com/cinevault/cinevault/internal/store"
)

// VisitorHandler serves the public visitor counter.
type VisitorHandler struct {
	store *store.Store
}

// NewVisitorHandler creates a new VisitorHandler.
func NewVisitorHandler(st *store.Store) *VisitorHandler {
	return &VisitorHandler{store: st}
}

// Track increments the visitor counter.
// POST /api/visitors/track
func (h *VisitorHandler) Track(w http.ResponseWriter, r *http.Request) {
	if err := h.store.IncrementVisitors(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Error tracking visitor")
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Visitor tracked successfully"})
}

// Count returns the current visitor count.
// GET /api/visitors/count
func (h *VisitorHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.VisitorCount(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching visitor count")
		return
	}
	writeJSON(w, http.StatusOK, model.CountResponse{Count: count})
}
