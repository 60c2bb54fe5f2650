package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/cinevault/cinevault/internal/model"
	"github.com/cinevault/cinevault/internal/server/middleware"
	"github.com/cinevault/cinevault/internal/service"
	"github.com/cinevault/cinevault/internal/store"
)

// AdminHandler serves the administrator identity lifecycle: login, credential
// rotation, bootstrap, status, and the debug-only reset.
type AdminHandler struct {
	store   *store.Store
	authSvc *service.AuthService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(st *store.Store, authSvc *service.AuthService) *AdminHandler {
	return &AdminHandler{store: st, authSvc: authSvc}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates the administrator and returns an access token.
// POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	admin, token, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{
		Token:    token,
		Username: admin.Username,
	})
}

type changeCredentialsRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewUsername     string `json:"newUsername"`
	NewPassword     string `json:"newPassword"`
}

// ChangeCredentials rotates the administrator's username and/or password.
// The caller's identity comes from the access gate; the current password is
// re-verified before anything changes.
// POST /api/admin/change-credentials (bearer token)
func (h *AdminHandler) ChangeCredentials(w http.ResponseWriter, r *http.Request) {
	var req changeCredentialsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	adminID := middleware.GetAdminID(r.Context())
	_, err := h.authSvc.RotateCredentials(r.Context(), adminID, req.CurrentPassword, req.NewUsername, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, service.ErrSecretTooShort):
			writeError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		case errors.Is(err, store.ErrConflict):
			writeError(w, http.StatusConflict, "Username already taken")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Admin not found")
		default:
			writeError(w, http.StatusInternalServerError, "Server error while updating credentials")
		}
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Credentials updated successfully"})
}

// Init ensures the default administrator identity exists. Safe to call any
// number of times; the supervisor runs the same operation at startup.
// POST /api/admin/init
func (h *AdminHandler) Init(w http.ResponseWriter, r *http.Request) {
	created, err := h.authSvc.EnsureDefaultAdmin(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error during admin initialization")
		return
	}

	message := "Admin already exists"
	if created {
		message = "Default admin created successfully"
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: message})
}

// Status reports whether an administrator identity exists.
// GET /api/admin/status
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	admin, err := h.store.FirstAdmin(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, model.AdminStatusResponse{Exists: false})
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error while getting admin status")
		return
	}

	writeJSON(w, http.StatusOK, model.AdminStatusResponse{
		Exists:    true,
		Username:  admin.Username,
		CreatedAt: admin.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Reset removes all administrator identities. Debug-only; the next bootstrap
// run restores the single-identity invariant.
// POST /api/admin/reset
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAllAdmins(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Server error while resetting admins")
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "All admins deleted"})
}
