package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lib/pq"
)

// Response is the common JSON envelope for simple outcomes.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, Response{Success: success, Message: message})
}

// isFormRequest reports whether the request carries a form-encoded or
// multipart body. Public submission endpoints accept both form posts and
// JSON; responses are always JSON.
func isFormRequest(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Backstop for duplicate checks racing concurrent inserts.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
