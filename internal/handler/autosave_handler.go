package handler

import (
	"net/http"
	"time"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/service"
)

type AutosaveHandler struct {
	svc   *service.AutosaveService
	delay time.Duration
}

// NewAutosaveHandler serves the case record. delay is the quiescence window
// advertised to wizards with the defaults.
func NewAutosaveHandler(svc *service.AutosaveService, delay time.Duration) *AutosaveHandler {
	return &AutosaveHandler{svc: svc, delay: delay}
}

func (h *AutosaveHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CaseID string         `json:"caseId"`
		Data   map[string]any `json:"data"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusInternalServerError, "Save failed")
		return
	}
	savedAt, err := h.svc.Save(r.Context(), req.CaseID, models.FromAny(req.Data))
	if err != nil {
		fail(w, err, "Save failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "saved_at": savedAt})
}

func (h *AutosaveHandler) Load(w http.ResponseWriter, r *http.Request) {
	state, found, err := h.svc.Load(r.Context(), r.URL.Query().Get("caseId"))
	if err != nil {
		fail(w, err, "Load failed")
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "data": state})
}

func (h *AutosaveHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	caseID := r.URL.Query().Get("caseId")
	data, err := h.svc.Defaults(caseID)
	if err != nil {
		fail(w, err, "Load failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"caseId":          caseID,
		"data":            data,
		"autosaveDelayMs": h.delay.Milliseconds(),
	})
}
