package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/taskly/internal/auth"
	"github.com/dukerupert/taskly/internal/model"
	"github.com/dukerupert/taskly/internal/recurrence"
	"github.com/dukerupert/taskly/internal/store"
)

type TaskHandler struct {
	taskStore      *store.TaskStore
	profileStore   *store.ProfileStore
	householdStore *store.HouseholdStore
	challengeStore *store.ChallengeStore
	logger         *slog.Logger
}

func NewTaskHandler(ts *store.TaskStore, ps *store.ProfileStore, hs *store.HouseholdStore, cs *store.ChallengeStore, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskStore:      ts,
		profileStore:   ps,
		householdStore: hs,
		challengeStore: cs,
		logger:         logger,
	}
}

// today resolves the current date in the signed-in profile's timezone.
func (h *TaskHandler) today(r *http.Request) (string, error) {
	profile, err := h.profileStore.GetByID(auth.UserID(r.Context()))
	if err != nil {
		return "", err
	}
	if profile == nil {
		return model.UTCToday(), nil
	}
	return profile.Today(), nil
}

// canAccess reports whether the user owns the task directly or through
// household membership.
func (h *TaskHandler) canAccess(task *model.Task, userID int64) (bool, error) {
	if task.UserID != nil {
		return *task.UserID == userID, nil
	}
	if task.HouseholdID != nil {
		member, err := h.householdStore.GetMember(*task.HouseholdID, userID)
		if err != nil {
			return false, err
		}
		return member != nil, nil
	}
	return false, nil
}

type taskRequest struct {
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Icon               string         `json:"icon"`
	Color              string         `json:"color"`
	TaskType           model.TaskType `json:"task_type"`
	HouseholdID        *int64         `json:"household_id"`
	Recurrence         string         `json:"recurrence"`
	RecurrenceDays     []int          `json:"recurrence_days"`
	RecurrenceInterval int            `json:"recurrence_interval"`
	HasProgress        bool           `json:"has_progress"`
	ProgressUnit       string         `json:"progress_unit"`
	ProgressTarget     *int           `json:"progress_target"`
	StartDate          string         `json:"start_date"`
	EndDate            *string        `json:"end_date"`
	SortOrder          int            `json:"sort_order"`
}

// validate returns a user-facing message, or "" when the request is fine.
func (r *taskRequest) validate() string {
	if strings.TrimSpace(r.Title) == "" {
		return "title is required"
	}
	if r.Recurrence != "" {
		if _, err := recurrence.ParseFrequency(r.Recurrence); err != nil {
			return "unknown recurrence"
		}
	}
	return ""
}

func (r *taskRequest) params() store.TaskParams {
	return store.TaskParams{
		Title:              strings.TrimSpace(r.Title),
		Description:        r.Description,
		Icon:               r.Icon,
		Color:              r.Color,
		TaskType:           r.TaskType,
		Recurrence:         r.Recurrence,
		RecurrenceDays:     r.RecurrenceDays,
		RecurrenceInterval: r.RecurrenceInterval,
		HasProgress:        r.HasProgress,
		ProgressUnit:       r.ProgressUnit,
		ProgressTarget:     r.ProgressTarget,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		SortOrder:          r.SortOrder,
	}
}

// List returns the user's active tasks merged with today's completions.
// ?due=today narrows the list to tasks whose recurrence has an occurrence
// on the current date.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	today, err := h.today(r)
	if err != nil {
		h.logger.Error("resolve today", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tasks"})
		return
	}

	tasks, err := h.taskStore.ListWithTodayCompletion(auth.UserID(r.Context()), today)
	if err != nil {
		h.logger.Error("list tasks", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tasks"})
		return
	}
	if tasks == nil {
		tasks = []model.TaskWithCompletion{}
	}

	if r.URL.Query().Get("due") == "today" {
		tasks = filterDueToday(tasks, today)
	}

	writeJSON(w, http.StatusOK, tasks)
}

func filterDueToday(tasks []model.TaskWithCompletion, today string) []model.TaskWithCompletion {
	date, err := time.Parse("2006-01-02", today)
	if err != nil {
		return tasks
	}

	due := make([]model.TaskWithCompletion, 0, len(tasks))
	for _, t := range tasks {
		start, err := time.Parse("2006-01-02", t.StartDate)
		if err != nil {
			due = append(due, t)
			continue
		}
		rule := recurrence.NewRule(recurrence.Frequency(t.Recurrence), t.RecurrenceDays, t.RecurrenceInterval)
		if rule.DueOn(start, date) {
			due = append(due, t)
		}
	}
	return due
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}
	p := req.params()

	userID := auth.UserID(r.Context())
	if req.HouseholdID != nil {
		member, err := h.householdStore.GetMember(*req.HouseholdID, userID)
		if err != nil {
			h.logger.Error("check membership", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create task"})
			return
		}
		if member == nil {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "not a member of that group"})
			return
		}
		p.HouseholdID = req.HouseholdID
	} else {
		p.UserID = &userID
	}

	today, err := h.today(r)
	if err != nil {
		h.logger.Error("resolve today", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create task"})
		return
	}

	task, err := h.taskStore.Create(p, today)
	if err != nil {
		h.logger.Error("create task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create task"})
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// getOwnedTask loads the task and enforces access, writing the error
// response itself when the task is missing or off-limits.
func (h *TaskHandler) getOwnedTask(w http.ResponseWriter, r *http.Request) *model.Task {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil
	}

	task, err := h.taskStore.GetByID(id)
	if err != nil {
		h.logger.Error("get task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return nil
	}
	if task == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return nil
	}

	ok, err := h.canAccess(task, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("check task access", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return nil
	}
	if !ok {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not your task"})
		return nil
	}
	return task
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	task := h.getOwnedTask(w, r)
	if task == nil {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	updated, err := h.taskStore.Update(task.ID, req.params())
	if err != nil {
		h.logger.Error("update task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update task"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Archive soft-deletes. Completion history stays queryable for stats.
func (h *TaskHandler) Archive(w http.ResponseWriter, r *http.Request) {
	task := h.getOwnedTask(w, r)
	if task == nil {
		return
	}

	if err := h.taskStore.Archive(task.ID); err != nil {
		h.logger.Error("archive task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete task"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completeRequest struct {
	Status        model.CompletionStatus `json:"status"`
	ProgressValue *int                   `json:"progress_value"`
	Notes         string                 `json:"notes"`
}

// Complete records today's completion for a task. Repeating the call
// overwrites the day's entry rather than stacking a second one. Flipping a
// task to completed bumps the running score on any live completion
// challenges; flipping it back down undoes the bump.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	task := h.getOwnedTask(w, r)
	if task == nil {
		return
	}

	var req completeRequest
	json.NewDecoder(r.Body).Decode(&req)

	status := req.Status
	if status == "" {
		status = model.StatusCompleted
		// A progress task short of its target counts as partial.
		if task.HasProgress && task.ProgressTarget != nil && req.ProgressValue != nil && *req.ProgressValue < *task.ProgressTarget {
			status = model.StatusPartial
		}
	}

	userID := auth.UserID(r.Context())
	today, err := h.today(r)
	if err != nil {
		h.logger.Error("resolve today", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to complete task"})
		return
	}

	prior, err := h.taskStore.GetCompletion(task.ID, userID, today)
	if err != nil {
		h.logger.Error("get prior completion", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to complete task"})
		return
	}

	completion, err := h.taskStore.UpsertCompletion(task.ID, userID, today, status, req.ProgressValue, req.Notes)
	if err != nil {
		h.logger.Error("upsert completion", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to complete task"})
		return
	}

	h.bumpChallengeScores(prior, completion, userID, today)

	writeJSON(w, http.StatusCreated, completion)
}

// Uncomplete removes today's completion entirely.
func (h *TaskHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	task := h.getOwnedTask(w, r)
	if task == nil {
		return
	}

	userID := auth.UserID(r.Context())
	today, err := h.today(r)
	if err != nil {
		h.logger.Error("resolve today", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to uncomplete task"})
		return
	}

	prior, err := h.taskStore.GetCompletion(task.ID, userID, today)
	if err != nil {
		h.logger.Error("get prior completion", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to uncomplete task"})
		return
	}

	if err := h.taskStore.DeleteCompletion(task.ID, userID, today); err != nil {
		h.logger.Error("delete completion", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to uncomplete task"})
		return
	}

	h.bumpChallengeScores(prior, nil, userID, today)

	w.WriteHeader(http.StatusNoContent)
}

// bumpChallengeScores adjusts challenge scores on the completed/not-completed
// transition. Score updates are best effort; a failure logs but never fails
// the completion itself.
func (h *TaskHandler) bumpChallengeScores(prior, current *model.TaskCompletion, userID int64, date string) {
	was := prior != nil && prior.Status == model.StatusCompleted
	now := current != nil && current.Status == model.StatusCompleted

	var delta int
	switch {
	case !was && now:
		delta = 1
	case was && !now:
		delta = -1
	default:
		return
	}

	if err := h.challengeStore.BumpScores(userID, date, delta); err != nil {
		h.logger.Error("bump challenge scores", "error", err, "delta", delta)
	}
}
