package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kaushalkrsna1602/auraflow/internal/auth"
	"github.com/kaushalkrsna1602/auraflow/internal/tribe"
)

type AuraHandler struct {
	svc    *tribe.Service
	logger *slog.Logger
}

func NewAuraHandler(svc *tribe.Service, logger *slog.Logger) *AuraHandler {
	return &AuraHandler{svc: svc, logger: logger}
}

type giveAuraRequest struct {
	ToUserID int64  `json:"to_user_id"`
	Amount   int    `json:"amount"`
	Reason   string `json:"reason"`
}

func (h *AuraHandler) Give(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req giveAuraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	txn, err := h.svc.GiveAura(groupID, auth.UserID(r.Context()), req.ToUserID, req.Amount, req.Reason)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}
