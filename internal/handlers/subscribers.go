package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adityavermaa/sahayata-backend/internal/database"
	"github.com/adityavermaa/sahayata-backend/internal/models"
	"github.com/adityavermaa/sahayata-backend/pkg/utils"
)

// RegisterSubscriberRequest represents a citizen alert-registration request.
type RegisterSubscriberRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location"`
}

// RegisterSubscriberResponse is returned after a registration attempt.
type RegisterSubscriberResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Subscriber *models.Subscriber `json:"subscriber,omitempty"`
}

// ListSubscribersResponse is the admin listing of subscribers.
type ListSubscribersResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message,omitempty"`
	Subscribers []models.Subscriber `json:"subscribers"`
	Total       int                 `json:"total"`
}

// RegisterSubscriber handles citizen registration for location alerts.
// Accepts JSON or form-encoded bodies.
func RegisterSubscriber(w http.ResponseWriter, r *http.Request) {
	var req RegisterSubscriberRequest

	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			writeMessage(w, http.StatusBadRequest, false, "Invalid form body")
			return
		}
		req.Email = r.PostFormValue("email")
		req.Phone = r.PostFormValue("phone")
		req.Location = r.PostFormValue("location")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	location := strings.TrimSpace(req.Location)

	if email == "" || !strings.Contains(email, "@") {
		writeMessage(w, http.StatusBadRequest, false, "A valid email is required")
		return
	}
	if location == "" {
		writeMessage(w, http.StatusBadRequest, false, "Location is required")
		return
	}

	phone := ""
	if strings.TrimSpace(req.Phone) != "" {
		normalized, err := utils.NormalizePhone(req.Phone)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, false, "Phone number must be a valid 10-digit Indian mobile number")
			return
		}
		phone = normalized
	}

	// Duplicate guard; the unique index on email is the backstop for
	// concurrent registrations.
	var existingID uuid.UUID
	err := database.PostgresDB.QueryRow(
		`SELECT id FROM subscribers WHERE LOWER(email) = $1`, email,
	).Scan(&existingID)
	if err == nil {
		writeMessage(w, http.StatusConflict, false, "Email already registered")
		return
	} else if err != sql.ErrNoRows {
		writeMessage(w, http.StatusInternalServerError, false, "Database error")
		return
	}

	sub := models.Subscriber{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Email:     email,
		Phone:     phone,
		Location:  location,
	}

	_, err = database.PostgresDB.Exec(`
		INSERT INTO subscribers (id, created_at, email, phone, location)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
	`, sub.ID, sub.CreatedAt, sub.Email, sub.Phone, sub.Location)
	if err != nil {
		if isUniqueViolation(err) {
			writeMessage(w, http.StatusConflict, false, "Email already registered")
			return
		}
		writeMessage(w, http.StatusInternalServerError, false, "Failed to register")
		return
	}

	writeJSON(w, http.StatusCreated, RegisterSubscriberResponse{
		Success:    true,
		Message:    "Registered successfully! You will now receive alerts.",
		Subscriber: &sub,
	})
}

// ListSubscribers returns all subscribers, newest-first (admin only).
func ListSubscribers(w http.ResponseWriter, r *http.Request) {
	rows, err := database.PostgresDB.Query(`
		SELECT id, created_at, email, COALESCE(phone, ''), location
		FROM subscribers
		ORDER BY created_at DESC
	`)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ListSubscribersResponse{
			Success: false, Message: "Failed to fetch subscribers", Subscribers: []models.Subscriber{},
		})
		return
	}
	defer rows.Close()

	subscribers := make([]models.Subscriber, 0)
	for rows.Next() {
		var s models.Subscriber
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Email, &s.Phone, &s.Location); err != nil {
			writeJSON(w, http.StatusInternalServerError, ListSubscribersResponse{
				Success: false, Message: "Failed to scan subscribers", Subscribers: []models.Subscriber{},
			})
			return
		}
		subscribers = append(subscribers, s)
	}

	writeJSON(w, http.StatusOK, ListSubscribersResponse{
		Success:     true,
		Subscribers: subscribers,
		Total:       len(subscribers),
	})
}

// DeleteSubscriber removes a subscriber by id (admin only).
func DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, false, "A valid subscriber id is required")
		return
	}

	res, err := database.PostgresDB.Exec(`DELETE FROM subscribers WHERE id = $1`, id)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, false, "Failed to delete subscriber")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeMessage(w, http.StatusNotFound, false, "Subscriber not found")
		return
	}

	writeMessage(w, http.StatusOK, true, "Subscriber deleted successfully")
}
