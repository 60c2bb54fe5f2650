package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cinevault/cinevault/internal/model"
	"github.com/cinevault/cinevault/internal/store"
)

// MovieHandler serves the catalog read and write endpoints. Reads are public;
// writes sit behind the access gate.
type MovieHandler struct {
	store *store.Store
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(st *store.Store) *MovieHandler {
	return &MovieHandler{store: st}
}

// List returns all catalog entries, newest first.
// GET /api/movies
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	movies, err := h.store.ListMovies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching movies")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// Get returns a single catalog entry by ID.
// GET /api/movies/{movieID}
func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	movie, err := h.store.GetMovie(r.Context(), chi.URLParam(r, "movieID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Movie not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error fetching movie")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// Create adds a new catalog entry after validating the required fields and
// the three required download link tiers.
// POST /api/movies (bearer token)
func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	var movie model.Movie
	if err := readJSON(r, &movie); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := validateMovie(&movie); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.CreateMovie(r.Context(), &movie); err != nil {
		writeError(w, http.StatusInternalServerError, "Error saving movie")
		return
	}
	writeJSON(w, http.StatusCreated, movie)
}

// Update replaces an existing catalog entry. The full validation contract
// applies, same as Create.
// PUT /api/movies/{movieID} (bearer token)
func (h *MovieHandler) Update(w http.ResponseWriter, r *http.Request) {
	var movie model.Movie
	if err := readJSON(r, &movie); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := validateMovie(&movie); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	movie.ID = chi.URLParam(r, "movieID")
	if err := h.store.UpdateMovie(r.Context(), &movie); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Movie not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error updating movie")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// Delete removes a catalog entry.
// DELETE /api/movies/{movieID} (bearer token)
func (h *MovieHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteMovie(r.Context(), chi.URLParam(r, "movieID")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Movie not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error deleting movie")
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Movie deleted successfully"})
}

// validateMovie normalizes the entry and returns a failure message, or ""
// when the entry is valid.
func validateMovie(movie *model.Movie) string {
	movie.Normalize()
	if missing := movie.MissingFields(); len(missing) > 0 {
		return "Missing required fields: " + strings.Join(missing, ", ")
	}
	if !movie.DownloadLinks.Complete() {
		return "Missing required download links. Must include 720p, 1080p, and 1440p links."
	}
	return ""
}
