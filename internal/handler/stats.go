package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/taskly/internal/auth"
	"github.com/dukerupert/taskly/internal/model"
	"github.com/dukerupert/taskly/internal/stats"
	"github.com/dukerupert/taskly/internal/store"
)

const (
	defaultStatsDays = 30
	maxStatsDays     = 365
)

type StatsHandler struct {
	taskStore    *store.TaskStore
	profileStore *store.ProfileStore
	logger       *slog.Logger
}

func NewStatsHandler(ts *store.TaskStore, ps *store.ProfileStore, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{taskStore: ts, profileStore: ps, logger: logger}
}

// statsWindow resolves the ?days query parameter and the user's local today,
// returning today and the first date of the trailing window.
func (h *StatsHandler) statsWindow(r *http.Request) (today time.Time, fromDate string, err error) {
	days := defaultStatsDays
	if v := r.URL.Query().Get("days"); v != "" {
		if n, convErr := strconv.Atoi(v); convErr == nil && n > 0 {
			days = n
		}
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}

	todayStr := model.UTCToday()
	profile, err := h.profileStore.GetByID(auth.UserID(r.Context()))
	if err != nil {
		return time.Time{}, "", err
	}
	if profile != nil {
		todayStr = profile.Today()
	}

	today, err = time.Parse("2006-01-02", todayStr)
	if err != nil {
		return time.Time{}, "", err
	}
	fromDate = today.AddDate(0, 0, -(days - 1)).Format("2006-01-02")
	return today, fromDate, nil
}

// Get returns streak, total, and per-day counts over the trailing window.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	today, fromDate, err := h.statsWindow(r)
	if err != nil {
		h.logger.Error("resolve stats window", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load stats"})
		return
	}

	completions, err := h.taskStore.ListCompletionsSince(auth.UserID(r.Context()), fromDate)
	if err != nil {
		h.logger.Error("list completions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load stats"})
		return
	}

	writeJSON(w, http.StatusOK, stats.Summarize(completions, today))
}

// History returns the completion log joined with task titles, newest first.
func (h *StatsHandler) History(w http.ResponseWriter, r *http.Request) {
	_, fromDate, err := h.statsWindow(r)
	if err != nil {
		h.logger.Error("resolve stats window", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load history"})
		return
	}

	entries, err := h.taskStore.ListHistory(auth.UserID(r.Context()), fromDate)
	if err != nil {
		h.logger.Error("list history", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load history"})
		return
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
