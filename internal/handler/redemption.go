package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kaushalkrsna1602/auraflow/internal/auth"
	"github.com/kaushalkrsna1602/auraflow/internal/model"
	"github.com/kaushalkrsna1602/auraflow/internal/tribe"
)

type RedemptionHandler struct {
	svc    *tribe.Service
	logger *slog.Logger
}

func NewRedemptionHandler(svc *tribe.Service, logger *slog.Logger) *RedemptionHandler {
	return &RedemptionHandler{svc: svc, logger: logger}
}

func (h *RedemptionHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	details, err := h.svc.PendingRedemptions(groupID, auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if details == nil {
		details = []model.RedemptionDetail{}
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *RedemptionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	details, err := h.svc.UserRedemptions(groupID, auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if details == nil {
		details = []model.RedemptionDetail{}
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *RedemptionHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	details, err := h.svc.RecentRedemptionAlerts(groupID, auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if details == nil {
		details = []model.RedemptionDetail{}
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *RedemptionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.svc.Approve(id, auth.UserID(r.Context())); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": model.RedemptionApproved})
}

func (h *RedemptionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		AdminNotes *string `json:"admin_notes"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
			return
		}
	}

	if err := h.svc.Reject(id, auth.UserID(r.Context()), req.AdminNotes); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": model.RedemptionRejected})
}
