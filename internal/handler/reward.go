package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kaushalkrsna1602/auraflow/internal/auth"
	"github.com/kaushalkrsna1602/auraflow/internal/model"
	"github.com/kaushalkrsna1602/auraflow/internal/tribe"
)

type RewardHandler struct {
	svc    *tribe.Service
	logger *slog.Logger
}

func NewRewardHandler(svc *tribe.Service, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{svc: svc, logger: logger}
}

type rewardRequest struct {
	Title            string `json:"title"`
	Cost             int    `json:"cost"`
	Icon             string `json:"icon"`
	RequiresApproval bool   `json:"requires_approval"`
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	reward, err := h.svc.CreateReward(groupID, auth.UserID(r.Context()), req.Title, req.Cost, req.Icon, req.RequiresApproval)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, reward)
}

func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	rewards, err := h.svc.ListRewards(groupID, auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if rewards == nil {
		rewards = []model.Reward{}
	}
	writeJSON(w, http.StatusOK, rewards)
}

func (h *RewardHandler) Update(w http.ResponseWriter, r *http.Request) {
	rewardID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	reward, err := h.svc.UpdateReward(rewardID, auth.UserID(r.Context()), req.Title, req.Cost, req.Icon, req.RequiresApproval)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reward)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rewardID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.svc.DeleteReward(rewardID, auth.UserID(r.Context())); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RewardHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	rewardID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	result, err := h.svc.RedeemReward(rewardID, auth.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
