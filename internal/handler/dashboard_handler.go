package handler

import (
	"net/http"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/service"
)

type DashboardHandler struct {
	svc *service.AdminService
}

func NewDashboardHandler(svc *service.AdminService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}
	writeJSON(w, http.StatusOK, d)
}
