package handler

import (
	"net/http"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.Login(req.Password)
	if err != nil {
		fail(w, err, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
