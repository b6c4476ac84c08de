package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/adityavermaa/sahayata-backend/internal/services"
)

type contextKey string

// AdminIDKey is the request-context key holding the authenticated admin's ID.
const AdminIDKey contextKey = "admin_id"

// RequireAdmin validates the admin session token from the Authorization
// header (Bearer scheme). Unauthenticated requests get a 401 JSON body; no
// distinction is made between missing and invalid tokens.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r.Header.Get("Authorization"))

		adminID, ok, err := services.ValidateAdminSession(r.Context(), token)
		if err != nil || !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"Admin authentication required"}`))
			return
		}

		ctx := context.WithValue(r.Context(), AdminIDKey, adminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
