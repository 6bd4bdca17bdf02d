package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kaushalkrsna1602/auraflow/internal/auth"
	"github.com/kaushalkrsna1602/auraflow/internal/model"
	"github.com/kaushalkrsna1602/auraflow/internal/tribe"
)

type GroupHandler struct {
	svc    *tribe.Service
	logger *slog.Logger
}

func NewGroupHandler(svc *tribe.Service, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{svc: svc, logger: logger}
}

type groupRequest struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	group, err := h.svc.CreateGroup(auth.UserID(r.Context()), req.Name, req.IsPublic)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.ListGroupsForUser(auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if groups == nil {
		groups = []model.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.ListPublicGroups()
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if groups == nil {
		groups = []model.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	group, err := h.svc.GetGroup(id, auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	member, err := h.svc.JoinGroup(id, auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *GroupHandler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InviteCode string `json:"invite_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	member, err := h.svc.JoinByInviteCode(req.InviteCode, auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.svc.LeaveGroup(id, auth.UserID(r.Context())); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	group, err := h.svc.RenameGroup(id, auth.UserID(r.Context()), req.Name)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.svc.DeleteGroup(id, auth.UserID(r.Context())); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	targetID, err := parsePathInt(r, "user_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}

	if err := h.svc.RemoveMember(id, auth.UserID(r.Context()), targetID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroupHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	targetID, err := parsePathInt(r, "user_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	member, err := h.svc.UpdateMemberRole(id, auth.UserID(r.Context()), targetID, req.Role)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *GroupHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	entries, err := h.svc.Leaderboard(id, auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *GroupHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := parseLimit(l); err == nil {
			limit = n
		}
	}

	txns, err := h.svc.ActivityFeed(id, auth.UserID(r.Context()), limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}
