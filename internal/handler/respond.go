package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/apperrors"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 4 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

func writeFile(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindForbidden:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// fail writes err with its status. Caller-facing kinds keep their own
// message; everything else is reported as fallback.
func fail(w http.ResponseWriter, err error, fallback string) {
	status := statusFor(err)
	msg := fallback
	var ae *apperrors.Error
	if status != http.StatusInternalServerError && errors.As(err, &ae) && ae.Msg != "" {
		msg = ae.Msg
	}
	writeError(w, status, msg)
}
