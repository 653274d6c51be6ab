package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/taskly/internal/auth"
	"github.com/dukerupert/taskly/internal/model"
	"github.com/dukerupert/taskly/internal/store"
)

type HouseholdHandler struct {
	householdStore *store.HouseholdStore
	taskStore      *store.TaskStore
	logger         *slog.Logger
}

func NewHouseholdHandler(hs *store.HouseholdStore, ts *store.TaskStore, logger *slog.Logger) *HouseholdHandler {
	return &HouseholdHandler{householdStore: hs, taskStore: ts, logger: logger}
}

func (h *HouseholdHandler) List(w http.ResponseWriter, r *http.Request) {
	households, err := h.householdStore.ListForProfile(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list households", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list groups"})
		return
	}
	if households == nil {
		households = []model.Household{}
	}
	writeJSON(w, http.StatusOK, households)
}

type householdRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *HouseholdHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req householdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	household, err := h.householdStore.Create(req.Name, req.Description, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create group"})
		return
	}
	writeJSON(w, http.StatusCreated, household)
}

type joinRequest struct {
	InviteCode string `json:"invite_code"`
}

func (h *HouseholdHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.InviteCode))
	if code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invite code is required"})
		return
	}

	household, err := h.householdStore.Join(code, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("join household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to join group"})
		return
	}
	if household == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no group matches that invite code"})
		return
	}
	writeJSON(w, http.StatusOK, household)
}

// Members lists a household's members. Only members may look.
func (h *HouseholdHandler) Members(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	member, err := h.householdStore.GetMember(id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("check membership", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list members"})
		return
	}
	if member == nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not a member of this group"})
		return
	}

	members, err := h.householdStore.ListMembers(id)
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list members"})
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// Tasks lists a household's shared tasks, membership required.
func (h *HouseholdHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	member, err := h.householdStore.GetMember(id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("check membership", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list group tasks"})
		return
	}
	if member == nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not a member of this group"})
		return
	}

	tasks, err := h.taskStore.ListForHousehold(id)
	if err != nil {
		h.logger.Error("list household tasks", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list group tasks"})
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}
