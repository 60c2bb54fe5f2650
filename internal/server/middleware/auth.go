package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cinevault/cinevault/internal/service"
)

type contextKeyAuth string

// AdminIDKey is the context key for the authenticated administrator ID.
const AdminIDKey contextKeyAuth = "admin_id"

// Authenticate returns an HTTP middleware that gates protected operations on
// a valid bearer token. It extracts the token from the Authorization header,
// verifies it with the AuthService, and attaches the resolved administrator
// ID to the request context. A missing, malformed, or expired token ends the
// request with a 401 before the wrapped handler runs; the gate performs no
// mutation of its own.
func Authenticate(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, "No token provided")
				return
			}

			adminID, err := authSvc.VerifyToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				writeAuthError(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), AdminIDKey, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminID extracts the authenticated administrator ID from the context.
// Returns an empty string for unauthenticated requests.
func GetAdminID(ctx context.Context) string {
	if id, ok := ctx.Value(AdminIDKey).(string); ok {
		return id
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	// Manually construct JSON to avoid an import cycle with the handler package.
	w.Write([]byte(`{"message":"` + message + `"}`))
}
