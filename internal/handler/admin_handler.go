package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/export"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/registry"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/service"
)

type AdminHandler struct {
	svc *service.AdminService
	reg *registry.Registry
}

func NewAdminHandler(svc *service.AdminService, reg *registry.Registry) *AdminHandler {
	return &AdminHandler{svc: svc, reg: reg}
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to fetch submissions",
			"details": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"count":       len(subs),
		"submissions": subs,
	})
}

func (h *AdminHandler) ExportAllCSV(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}
	writeFile(w, "text/csv; charset=utf-8", "submissions.csv", export.CSVAll(h.reg, subs))
}

func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, err := h.svc.Get(r.Context(), id)
	if err != nil {
		fail(w, err, "Failed to fetch submission")
		return
	}
	writeFile(w, "text/csv; charset=utf-8", id+".csv", export.CSV(h.reg, sub))
}

func (h *AdminHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, err := h.svc.Get(r.Context(), id)
	if err != nil {
		fail(w, err, "Failed to fetch submission")
		return
	}
	body, err := export.JSON(sub)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeFile(w, "application/json", id+".json", body)
}
