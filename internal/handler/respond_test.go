package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/apperrors"
)

func TestFail(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{apperrors.Validation("autosave.save", "caseId required"), http.StatusBadRequest, "caseId required"},
		{apperrors.NotFound("admin.get", "submission not found"), http.StatusNotFound, "submission not found"},
		{apperrors.Forbidden("auth.login", "invalid credentials"), http.StatusUnauthorized, "invalid credentials"},
		{apperrors.Store("autosave.save", errors.New("dial tcp: refused")), http.StatusInternalServerError, "Save failed"},
		{errors.New("plain"), http.StatusInternalServerError, "Save failed"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		fail(rec, tt.err, "Save failed")
		if rec.Code != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, rec.Code, tt.status)
		}
		var body map[string]string
		json.Unmarshal(rec.Body.Bytes(), &body)
		if body["error"] != tt.msg {
			t.Errorf("%v: error = %q, want %q", tt.err, body["error"], tt.msg)
		}
	}
}

func TestWriteFile(t *testing.T) {
	rec := httptest.NewRecorder()
	writeFile(rec, "text/csv; charset=utf-8", "submission_1.csv", []byte("id\n"))
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="submission_1.csv"` {
		t.Fatalf("Content-Disposition = %q", got)
	}
	if rec.Body.String() != "id\n" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}
