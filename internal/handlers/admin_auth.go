package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adityavermaa/sahayata-backend/internal/database"
	"github.com/adityavermaa/sahayata-backend/internal/services"
	"github.com/adityavermaa/sahayata-backend/pkg/utils"
)

// AdminSigninRequest represents the request to sign in as admin.
type AdminSigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminSigninResponse is returned after an admin signin attempt. Token is an
// opaque server-side session token, to be sent as Authorization: Bearer.
type AdminSigninResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Admin   map[string]interface{} `json:"admin,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

// AdminSignin handles admin login and creates a session.
func AdminSignin(w http.ResponseWriter, r *http.Request) {
	var req AdminSigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AdminSigninResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, AdminSigninResponse{
			Success: false,
			Message: "Username and password are required",
		})
		return
	}

	var adminID uuid.UUID
	var createdAt time.Time
	var username, passwordHash string

	err := database.PostgresDB.QueryRow(`
		SELECT id, created_at, username, password_hash
		FROM admins
		WHERE username = $1
	`, req.Username).Scan(&adminID, &createdAt, &username, &passwordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSON(w, http.StatusUnauthorized, AdminSigninResponse{
				Success: false,
				Message: "Invalid username or password",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, AdminSigninResponse{
			Success: false,
			Message: "Database error",
		})
		return
	}

	valid, err := utils.VerifyPassword(req.Password, passwordHash)
	if err != nil || !valid {
		writeJSON(w, http.StatusUnauthorized, AdminSigninResponse{
			Success: false,
			Message: "Invalid username or password",
		})
		return
	}

	token, err := services.CreateAdminSession(r.Context(), adminID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, AdminSigninResponse{
			Success: false,
			Message: "Failed to create session",
		})
		return
	}

	writeJSON(w, http.StatusOK, AdminSigninResponse{
		Success: true,
		Message: "Admin signed in successfully",
		Admin: map[string]interface{}{
			"id":         adminID.String(),
			"username":   username,
			"created_at": createdAt,
		},
		Token: token,
	})
}

// AdminSignout invalidates the current admin session.
func AdminSignout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = strings.TrimSpace(parts[1])
		}
	}

	if err := services.InvalidateAdminSession(r.Context(), token); err != nil {
		writeMessage(w, http.StatusInternalServerError, false, "Failed to sign out")
		return
	}

	writeMessage(w, http.StatusOK, true, "Signed out")
}
