package httpx

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/ecowear/marketplace/internal/policy"
	"github.com/ecowear/marketplace/internal/store"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	DB    *sql.DB
	Rules policy.Rules
}

func (h *AdminHandler) RegisterProtected(r chi.Router) {
	r.Get("/admin/sellers", h.listSellers)
	r.Get("/admin/verification-requests", h.verificationRequests)
	r.Put("/admin/sellers/{id}/verify", h.verifySeller)
	r.Put("/admin/sellers/{id}/reject", h.rejectSeller)
	r.Get("/admin/stats", h.stats)
}

func (h *AdminHandler) require(w http.ResponseWriter, r *http.Request) bool {
	if err := h.Rules.Decide(policyCaller(r), policy.ActionAdminister, ""); err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}

func (h *AdminHandler) listSellers(w http.ResponseWriter, r *http.Request) {
	if !h.require(w, r) {
		return
	}

	result, err := store.ListSellers(r.Context(), h.DB, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sellers": result})
}

func (h *AdminHandler) verificationRequests(w http.ResponseWriter, r *http.Request) {
	if !h.require(w, r) {
		return
	}

	result, err := store.ListSellers(r.Context(), h.DB, "pending")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sellers": result})
}

func (h *AdminHandler) verifySeller(w http.ResponseWriter, r *http.Request) {
	if !h.require(w, r) {
		return
	}

	account, err := store.VerifySeller(r.Context(), h.DB, chi.URLParam(r, "id"), callerFrom(r).AccountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) rejectSeller(w http.ResponseWriter, r *http.Request) {
	if !h.require(w, r) {
		return
	}

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := store.RejectSeller(r.Context(), h.DB, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AdminHandler) stats(w http.ResponseWriter, r *http.Request) {
	if !h.require(w, r) {
		return
	}

	stats, err := store.GetAdminStats(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
