package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestReportMissingPersonValidation(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			"missing name",
			`{"age":30,"gender":"male","location":"Pune","date_seen":"2026-08-20","description":"d","reporter_name":"r","reporter_contact":"c","reporter_relation":"rel"}`,
			"Name is required",
		},
		{
			"missing description",
			`{"name":"n","age":30,"gender":"male","location":"Pune","date_seen":"2026-08-20","reporter_name":"r","reporter_contact":"c","reporter_relation":"rel"}`,
			"Description is required",
		},
		{
			"zero age",
			`{"name":"n","gender":"male","location":"Pune","date_seen":"2026-08-20","description":"d","reporter_name":"r","reporter_contact":"c","reporter_relation":"rel"}`,
			"A valid age is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, ReportMissingPerson, "/api/missing", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			var resp Response
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMsg)
			}
		})
	}
}

func TestReportMissingPersonSuccess(t *testing.T) {
	mock := setupTestDB(t)

	mock.ExpectExec("INSERT INTO missing_persons").
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{
		"name": "  Ravi Kumar ",
		"age": 34,
		"gender": "male",
		"location": "Pune",
		"date_seen": "2026-08-20",
		"description": "Last seen near the riverbank",
		"reporter_name": "Asha",
		"reporter_contact": "9876543210",
		"reporter_relation": "sister"
	}`
	rr := postJSON(t, ReportMissingPerson, "/api/missing", body)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}

	var resp ReportMissingPersonResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Report == nil {
		t.Fatal("response has no report")
	}
	if resp.Report.Name != "Ravi Kumar" {
		t.Errorf("name = %q, want trimmed Ravi Kumar", resp.Report.Name)
	}
	if resp.Report.Status != "active" {
		t.Errorf("status = %q, want active", resp.Report.Status)
	}
	if resp.Report.PhotoURL != "" {
		t.Errorf("photo url = %q, want empty without an upload", resp.Report.PhotoURL)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdateMissingPersonStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mock := setupTestDB(t)
		mock.ExpectExec("UPDATE missing_persons").
			WillReturnResult(sqlmock.NewResult(0, 1))

		rr := putStatus(t, uuid.New().String(), `{"status":"Resolved"}`)
		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200: %s", rr.Code, rr.Body.String())
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		mock := setupTestDB(t)
		mock.ExpectExec("UPDATE missing_persons").
			WillReturnResult(sqlmock.NewResult(0, 0))

		rr := putStatus(t, uuid.New().String(), `{"status":"resolved"}`)
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		setupTestDB(t)
		rr := putStatus(t, uuid.New().String(), `{"status":"archived"}`)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		setupTestDB(t)
		rr := putStatus(t, "not-a-uuid", `{"status":"resolved"}`)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})
}

func putStatus(t *testing.T, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/missing/status?id="+id, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	UpdateMissingPersonStatus(rr, req)
	return rr
}

func TestAdminListMissingPersonsOrdersActiveFirst(t *testing.T) {
	mock := setupTestDB(t)

	rows := sqlmock.NewRows([]string{
		"id", "created_at", "name", "age", "gender", "location", "date_seen",
		"description", "notes", "reporter_name", "reporter_contact",
		"reporter_relation", "photo_url", "status",
	})
	mock.ExpectQuery(`ORDER BY status ASC, created_at DESC`).WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/missing", nil)
	rr := httptest.NewRecorder()
	AdminListMissingPersons(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListMissingPersonsPublicExcludesResolved(t *testing.T) {
	mock := setupTestDB(t)

	rows := sqlmock.NewRows([]string{
		"id", "created_at", "name", "age", "gender", "location", "date_seen",
		"description", "notes", "reporter_name", "reporter_contact",
		"reporter_relation", "photo_url", "status",
	})
	mock.ExpectQuery(`WHERE status = 'active'`).WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/missing", nil)
	rr := httptest.NewRecorder()
	ListMissingPersons(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
