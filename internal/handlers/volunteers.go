package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adityavermaa/sahayata-backend/internal/database"
	"github.com/adityavermaa/sahayata-backend/internal/models"
	"github.com/adityavermaa/sahayata-backend/pkg/utils"
)

const maxUploadSize = 10 << 20 // 10MB

// EnrollVolunteerRequest represents a volunteer enrollment.
type EnrollVolunteerRequest struct {
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Location     string `json:"location,omitempty"`
	Skills       string `json:"skills,omitempty"`
	Availability string `json:"availability,omitempty"`
}

// EnrollVolunteerResponse is returned after an enrollment attempt.
type EnrollVolunteerResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Volunteer *models.Volunteer `json:"volunteer,omitempty"`
}

// ListVolunteersResponse lists enrolled volunteers.
type ListVolunteersResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Volunteers []models.Volunteer `json:"volunteers"`
	Total      int                `json:"total"`
}

// EnrollVolunteer handles volunteer enrollment. Accepts multipart form data
// (with an optional profile_pic file uploaded to Cloudinary) or JSON.
func EnrollVolunteer(w http.ResponseWriter, r *http.Request) {
	var req EnrollVolunteerRequest
	profileURL := ""

	if isFormRequest(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			if err := r.ParseForm(); err != nil {
				writeMessage(w, http.StatusBadRequest, false, "Invalid form body")
				return
			}
		}
		req.Name = r.PostFormValue("name")
		req.Age, _ = strconv.Atoi(r.PostFormValue("age"))
		req.Email = r.PostFormValue("email")
		req.Phone = r.PostFormValue("phone")
		req.Location = r.PostFormValue("location")
		req.Skills = r.PostFormValue("skills")
		req.Availability = r.PostFormValue("availability")

		if r.MultipartForm != nil {
			if _, header, err := r.FormFile("profile_pic"); err == nil && header.Filename != "" {
				if cloudinaryService == nil {
					writeMessage(w, http.StatusInternalServerError, false, "File uploads are not available")
					return
				}
				url, err := cloudinaryService.UploadFileFromHeader(r.Context(), header, "sahayata/volunteers")
				if err != nil {
					writeMessage(w, http.StatusInternalServerError, false, "Failed to upload profile picture")
					return
				}
				profileURL = url
			}
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" {
		writeMessage(w, http.StatusBadRequest, false, "Name is required")
		return
	}
	if email == "" || !strings.Contains(email, "@") {
		writeMessage(w, http.StatusBadRequest, false, "A valid email is required")
		return
	}
	if req.Age <= 0 {
		writeMessage(w, http.StatusBadRequest, false, "A valid age is required")
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

	var existingID uuid.UUID
	err := database.PostgresDB.QueryRow(
		`SELECT id FROM volunteers WHERE LOWER(email) = $1`, email,
	).Scan(&existingID)
	if err == nil {
		writeMessage(w, http.StatusConflict, false, "This email is already registered as a volunteer")
		return
	} else if err != sql.ErrNoRows {
		writeMessage(w, http.StatusInternalServerError, false, "Database error")
		return
	}

	vol := models.Volunteer{
		ID:            uuid.New(),
		CreatedAt:     time.Now().UTC(),
		Name:          req.Name,
		Age:           req.Age,
		Email:         email,
		Phone:         phone,
		Location:      strings.TrimSpace(req.Location),
		Skills:        strings.TrimSpace(req.Skills),
		Availability:  strings.TrimSpace(req.Availability),
		ProfilePicURL: profileURL,
	}

	_, err = database.PostgresDB.Exec(`
		INSERT INTO volunteers (id, created_at, name, age, email, phone, location, skills, availability, profile_pic_url)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, NULLIF($10, ''))
	`, vol.ID, vol.CreatedAt, vol.Name, vol.Age, vol.Email, vol.Phone, vol.Location, vol.Skills, vol.Availability, vol.ProfilePicURL)
	if err != nil {
		if isUniqueViolation(err) {
			writeMessage(w, http.StatusConflict, false, "This email is already registered as a volunteer")
			return
		}
		writeMessage(w, http.StatusInternalServerError, false, "Failed to enroll volunteer")
		return
	}

	writeJSON(w, http.StatusCreated, EnrollVolunteerResponse{
		Success:   true,
		Message:   "Volunteer registered successfully",
		Volunteer: &vol,
	})
}

// ListVolunteers returns all volunteers, newest-first.
func ListVolunteers(w http.ResponseWriter, r *http.Request) {
	rows, err := database.PostgresDB.Query(`
		SELECT id, created_at, name, age, email, COALESCE(phone, ''), COALESCE(location, ''),
		       COALESCE(skills, ''), COALESCE(availability, ''), COALESCE(profile_pic_url, '')
		FROM volunteers
		ORDER BY created_at DESC
	`)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ListVolunteersResponse{
			Success: false, Message: "Failed to fetch volunteers", Volunteers: []models.Volunteer{},
		})
		return
	}
	defer rows.Close()

	volunteers := make([]models.Volunteer, 0)
	for rows.Next() {
		var v models.Volunteer
		if err := rows.Scan(&v.ID, &v.CreatedAt, &v.Name, &v.Age, &v.Email, &v.Phone,
			&v.Location, &v.Skills, &v.Availability, &v.ProfilePicURL); err != nil {
			writeJSON(w, http.StatusInternalServerError, ListVolunteersResponse{
				Success: false, Message: "Failed to scan volunteers", Volunteers: []models.Volunteer{},
			})
			return
		}
		volunteers = append(volunteers, v)
	}

	writeJSON(w, http.StatusOK, ListVolunteersResponse{
		Success:    true,
		Volunteers: volunteers,
		Total:      len(volunteers),
	})
}

// DeleteVolunteer removes a volunteer by id (admin only).
func DeleteVolunteer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, false, "A valid volunteer id is required")
		return
	}

	res, err := database.PostgresDB.Exec(`DELETE FROM volunteers WHERE id = $1`, id)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, false, "Failed to delete volunteer")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeMessage(w, http.StatusNotFound, false, "Volunteer not found")
		return
	}

	writeMessage(w, http.StatusOK, true, "Volunteer deleted successfully")
}
