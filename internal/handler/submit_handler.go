package handler

import (
	"net/http"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/service"
)

// IdempotencyHeader carries the client's per-submission token.
const IdempotencyHeader = "Idempotency-Key"

type SubmitHandler struct {
	svc *service.SubmissionService
}

func NewSubmitHandler(svc *service.SubmissionService) *SubmitHandler {
	return &SubmitHandler{svc: svc}
}

// Submit answers ok once an id is assigned, whether or not the record was
// stored or the email went out.
func (h *SubmitHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := readJSON(r, &data); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	res, err := h.svc.Submit(r.Context(), models.FromAny(data), r.Header.Get(IdempotencyHeader))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]any{"ok": true, "id": res.ID}
	if res.Duplicate {
		resp["duplicate"] = true
	}
	writeJSON(w, http.StatusOK, resp)
}
