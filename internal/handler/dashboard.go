package handler

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/taskly/internal/auth"
	"github.com/dukerupert/taskly/internal/model"
	"github.com/dukerupert/taskly/internal/stats"
	"github.com/dukerupert/taskly/internal/store"
)

// The dashboard shows the trailing week; the stats page owns longer windows.
const dashboardStatsDays = 7

type DashboardHandler struct {
	profileStore   *store.ProfileStore
	taskStore      *store.TaskStore
	challengeStore *store.ChallengeStore
	logger         *slog.Logger
}

func NewDashboardHandler(ps *store.ProfileStore, ts *store.TaskStore, cs *store.ChallengeStore, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		profileStore:   ps,
		taskStore:      ts,
		challengeStore: cs,
		logger:         logger,
	}
}

type dashboardResponse struct {
	Profile        *model.Profile             `json:"profile"`
	Tasks          []model.TaskWithCompletion `json:"tasks"`
	Stats          model.CompletionStats      `json:"stats"`
	ChallengeStats *model.ChallengeStats      `json:"challenge_stats"`
}

// Get assembles the dashboard payload. The independent queries run
// concurrently; the first failure cancels the rest.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	profile, err := h.profileStore.GetByID(userID)
	if err != nil || profile == nil {
		h.logger.Error("dashboard profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load dashboard"})
		return
	}

	todayStr := profile.Today()
	today, err := time.Parse("2006-01-02", todayStr)
	if err != nil {
		h.logger.Error("parse today", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load dashboard"})
		return
	}
	fromDate := today.AddDate(0, 0, -(dashboardStatsDays - 1)).Format("2006-01-02")

	resp := dashboardResponse{Profile: profile}

	g, _ := errgroup.WithContext(r.Context())
	g.Go(func() error {
		tasks, err := h.taskStore.ListWithTodayCompletion(userID, todayStr)
		if err != nil {
			return err
		}
		if tasks == nil {
			tasks = []model.TaskWithCompletion{}
		}
		resp.Tasks = tasks
		return nil
	})
	g.Go(func() error {
		completions, err := h.taskStore.ListCompletionsSince(userID, fromDate)
		if err != nil {
			return err
		}
		resp.Stats = stats.Summarize(completions, today)
		return nil
	})
	g.Go(func() error {
		st, err := h.challengeStore.Stats(userID, todayStr)
		if err != nil {
			return err
		}
		resp.ChallengeStats = st
		return nil
	})

	if err := g.Wait(); err != nil {
		h.logger.Error("dashboard fan-out", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load dashboard"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
