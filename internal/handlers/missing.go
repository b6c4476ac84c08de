package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adityavermaa/sahayata-backend/internal/database"
	"github.com/adityavermaa/sahayata-backend/internal/models"
)

// ReportMissingPersonRequest represents a public missing-person report.
type ReportMissingPersonRequest struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	Gender           string `json:"gender"`
	Location         string `json:"location"`
	DateSeen         string `json:"date_seen"`
	Description      string `json:"description"`
	Notes            string `json:"notes,omitempty"`
	ReporterName     string `json:"reporter_name"`
	ReporterContact  string `json:"reporter_contact"`
	ReporterRelation string `json:"reporter_relation"`
	PhotoURL         string `json:"photo_url,omitempty"`
}

// ReportMissingPersonResponse is returned after a report submission.
type ReportMissingPersonResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Report  *models.MissingPerson `json:"report,omitempty"`
}

// ListMissingPersonsResponse lists missing-person reports.
type ListMissingPersonsResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Reports []models.MissingPerson `json:"reports"`
	Total   int                    `json:"total"`
}

// ReportMissingPerson handles a public missing-person report. Accepts
// multipart form data (with an optional photo file uploaded to Cloudinary)
// or JSON (with an optional pre-uploaded photo_url).
func ReportMissingPerson(w http.ResponseWriter, r *http.Request) {
	var req ReportMissingPersonRequest

	if isFormRequest(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			if err := r.ParseForm(); err != nil {
				writeMessage(w, http.StatusBadRequest, false, "Invalid form body")
				return
			}
		}
		req.Name = r.PostFormValue("name")
		req.Age, _ = strconv.Atoi(r.PostFormValue("age"))
		req.Gender = r.PostFormValue("gender")
		req.Location = r.PostFormValue("location")
		req.DateSeen = r.PostFormValue("date_seen")
		req.Description = r.PostFormValue("description")
		req.Notes = r.PostFormValue("notes")
		req.ReporterName = r.PostFormValue("reporter_name")
		req.ReporterContact = r.PostFormValue("reporter_contact")
		req.ReporterRelation = r.PostFormValue("reporter_relation")

		if r.MultipartForm != nil {
			if _, header, err := r.FormFile("photo"); err == nil && header.Filename != "" {
				if cloudinaryService == nil {
					writeMessage(w, http.StatusInternalServerError, false, "File uploads are not available")
					return
				}
				url, err := cloudinaryService.UploadFileFromHeader(r.Context(), header, "sahayata/missing")
				if err != nil {
					writeMessage(w, http.StatusInternalServerError, false, "Failed to upload photo")
					return
				}
				req.PhotoURL = url
			}
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	required := []struct {
		field string
		value string
	}{
		{"Name", req.Name},
		{"Gender", req.Gender},
		{"Location", req.Location},
		{"Date last seen", req.DateSeen},
		{"Description", req.Description},
		{"Reporter name", req.ReporterName},
		{"Reporter contact", req.ReporterContact},
		{"Reporter relation", req.ReporterRelation},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			writeMessage(w, http.StatusBadRequest, false, f.field+" is required")
			return
		}
	}
	if req.Age <= 0 {
		writeMessage(w, http.StatusBadRequest, false, "A valid age is required")
		return
	}

	report := models.MissingPerson{
		ID:               uuid.New(),
		CreatedAt:        time.Now().UTC(),
		Name:             strings.TrimSpace(req.Name),
		Age:              req.Age,
		Gender:           strings.TrimSpace(req.Gender),
		Location:         strings.TrimSpace(req.Location),
		DateSeen:         strings.TrimSpace(req.DateSeen),
		Description:      strings.TrimSpace(req.Description),
		Notes:            strings.TrimSpace(req.Notes),
		ReporterName:     strings.TrimSpace(req.ReporterName),
		ReporterContact:  strings.TrimSpace(req.ReporterContact),
		ReporterRelation: strings.TrimSpace(req.ReporterRelation),
		PhotoURL:         strings.TrimSpace(req.PhotoURL),
		Status:           models.MissingStatusActive,
	}

	_, err := database.PostgresDB.Exec(`
		INSERT INTO missing_persons (
			id, created_at, name, age, gender, location, date_seen,
			description, notes, reporter_name, reporter_contact,
			reporter_relation, photo_url, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12, NULLIF($13, ''), $14)
	`, report.ID, report.CreatedAt, report.Name, report.Age, report.Gender, report.Location,
		report.DateSeen, report.Description, report.Notes, report.ReporterName,
		report.ReporterContact, report.ReporterRelation, report.PhotoURL, report.Status)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, false, "Failed to file report")
		return
	}

	writeJSON(w, http.StatusCreated, ReportMissingPersonResponse{
		Success: true,
		Message: "Missing person reported successfully",
		Report:  &report,
	})
}

// ListMissingPersons returns active missing-person reports, newest-first.
// The public listing never includes resolved reports.
func ListMissingPersons(w http.ResponseWriter, r *http.Request) {
	listMissingPersons(w, `
		SELECT id, created_at, name, age, gender, location, date_seen,
		       description, COALESCE(notes, ''), reporter_name, reporter_contact,
		       reporter_relation, COALESCE(photo_url, ''), status
		FROM missing_persons
		WHERE status = 'active'
		ORDER BY created_at DESC
	`)
}

// AdminListMissingPersons returns all reports, active first, then
// newest-first within each status (admin only).
func AdminListMissingPersons(w http.ResponseWriter, r *http.Request) {
	listMissingPersons(w, `
		SELECT id, created_at, name, age, gender, location, date_seen,
		       description, COALESCE(notes, ''), reporter_name, reporter_contact,
		       reporter_relation, COALESCE(photo_url, ''), status
		FROM missing_persons
		ORDER BY status ASC, created_at DESC
	`)
}

func listMissingPersons(w http.ResponseWriter, query string) {
	rows, err := database.PostgresDB.Query(query)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ListMissingPersonsResponse{
			Success: false, Message: "Failed to fetch reports", Reports: []models.MissingPerson{},
		})
		return
	}
	defer rows.Close()

	reports := make([]models.MissingPerson, 0)
	for rows.Next() {
		var m models.MissingPerson
		if err := rows.Scan(&m.ID, &m.CreatedAt, &m.Name, &m.Age, &m.Gender, &m.Location,
			&m.DateSeen, &m.Description, &m.Notes, &m.ReporterName, &m.ReporterContact,
			&m.ReporterRelation, &m.PhotoURL, &m.Status); err != nil {
			writeJSON(w, http.StatusInternalServerError, ListMissingPersonsResponse{
				Success: false, Message: "Failed to scan reports", Reports: []models.MissingPerson{},
			})
			return
		}
		reports = append(reports, m)
	}

	writeJSON(w, http.StatusOK, ListMissingPersonsResponse{
		Success: true,
		Reports: reports,
		Total:   len(reports),
	})
}

// UpdateMissingStatusRequest carries the new report status.
type UpdateMissingStatusRequest struct {
	Status string `json:"status"`
}

// UpdateMissingPersonStatus transitions a report between active and resolved
// (admin only). Unknown ids get a 404 and nothing is mutated.
func UpdateMissingPersonStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, false, "A valid report id is required")
		return
	}

	var req UpdateMissingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !models.ValidMissingStatus(status) {
		writeMessage(w, http.StatusBadRequest, false, "Status must be 'active' or 'resolved'")
		return
	}

	res, err := database.PostgresDB.Exec(
		`UPDATE missing_persons SET status = $1 WHERE id = $2`, status, id,
	)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, false, "Failed to update report")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeMessage(w, http.StatusNotFound, false, "Report not found")
		return
	}

	writeMessage(w, http.StatusOK, true, "Report status updated")
}

// DeleteMissingPerson removes a report by id (admin only).
func DeleteMissingPerson(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, false, "A valid report id is required")
		return
	}

	res, err := database.PostgresDB.Exec(`DELETE FROM missing_persons WHERE id = $1`, id)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, false, "Failed to delete report")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeMessage(w, http.StatusNotFound, false, "Report not found")
		return
	}

	writeMessage(w, http.StatusOK, true, "Report deleted successfully")
}
