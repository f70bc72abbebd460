package handler

import (
	"net/http"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/prefill"
)

type PrefillHandler struct {
	svc *prefill.Service
}

func NewPrefillHandler(svc *prefill.Service) *PrefillHandler {
	return &PrefillHandler{svc: svc}
}

func (h *PrefillHandler) linkToken(w http.ResponseWriter, r *http.Request, products []string) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create link token")
		return
	}
	tok, err := h.svc.LinkToken(r.Context(), req.UserID, products)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create link token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"link_token": tok})
}

func (h *PrefillHandler) BankLinkToken(w http.ResponseWriter, r *http.Request) {
	h.linkToken(w, r, prefill.BankProducts)
}

func (h *PrefillHandler) CreditLinkToken(w http.ResponseWriter, r *http.Request) {
	h.linkToken(w, r, prefill.CreditProducts)
}

type publicTokenRequest struct {
	PublicToken string `json:"public_token"`
}

func (h *PrefillHandler) ExchangeBank(w http.ResponseWriter, r *http.Request) {
	var req publicTokenRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch financial data")
		return
	}
	res, err := h.svc.ImportBank(r.Context(), req.PublicToken)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch financial data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"formFields":       res.FormFields,
		"accountSummaries": res.AccountSummaries,
		"breakdown":        res.Breakdown,
	})
}

func (h *PrefillHandler) CreditCheck(w http.ResponseWriter, r *http.Request) {
	var req publicTokenRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusInternalServerError, "Credit check failed")
		return
	}
	res, err := h.svc.CreditCheck(r.Context(), req.PublicToken)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Credit check failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"debts":      res.Debts,
		"totalDebt":  res.TotalDebt,
		"formFields": res.FormFields,
		"summary":    res.Summary,
	})
}
