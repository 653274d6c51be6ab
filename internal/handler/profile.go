package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/taskly/internal/auth"
	"github.com/dukerupert/taskly/internal/store"
)

type ProfileHandler struct {
	profileStore *store.ProfileStore
	logger       *slog.Logger
}

func NewProfileHandler(ps *store.ProfileStore, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profileStore: ps, logger: logger}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileStore.GetByID(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type settingsRequest struct {
	DisplayName         string `json:"display_name"`
	Timezone            string `json:"timezone"`
	DailyResetHour      int    `json:"daily_reset_hour"`
	WeekStartsOn        int    `json:"week_starts_on"`
	NotificationEnabled bool   `json:"notification_enabled"`
}

func (h *ProfileHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "display name is required"})
		return
	}
	if req.Timezone == "" {
		req.Timezone = "UTC"
	} else if _, err := time.LoadLocation(req.Timezone); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown timezone"})
		return
	}
	if req.DailyResetHour < 0 || req.DailyResetHour > 23 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "daily reset hour must be 0-23"})
		return
	}
	if req.WeekStartsOn < 0 || req.WeekStartsOn > 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week start must be 0-6"})
		return
	}

	profile, err := h.profileStore.UpdateSettings(
		auth.UserID(r.Context()),
		req.DisplayName, req.Timezone,
		req.DailyResetHour, req.WeekStartsOn, req.NotificationEnabled,
	)
	if err != nil {
		h.logger.Error("update settings", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update settings"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
