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

type ChallengeHandler struct {
	challengeStore *store.ChallengeStore
	profileStore   *store.ProfileStore
	logger         *slog.Logger
}

func NewChallengeHandler(cs *store.ChallengeStore, ps *store.ProfileStore, logger *slog.Logger) *ChallengeHandler {
	return &ChallengeHandler{challengeStore: cs, profileStore: ps, logger: logger}
}

func (h *ChallengeHandler) today(r *http.Request) string {
	profile, err := h.profileStore.GetByID(auth.UserID(r.Context()))
	if err != nil || profile == nil {
		return model.UTCToday()
	}
	return profile.Today()
}

func (h *ChallengeHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	participations, err := h.challengeStore.ListMine(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list my challenges", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list challenges"})
		return
	}
	if participations == nil {
		participations = []model.Participation{}
	}
	writeJSON(w, http.StatusOK, participations)
}

func (h *ChallengeHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.challengeStore.ListAvailable(auth.UserID(r.Context()), h.today(r))
	if err != nil {
		h.logger.Error("list available challenges", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list challenges"})
		return
	}
	if challenges == nil {
		challenges = []model.Challenge{}
	}
	writeJSON(w, http.StatusOK, challenges)
}

type challengeRequest struct {
	Title       string              `json:"title"`
	Emoji       string              `json:"emoji"`
	Type        model.ChallengeType `json:"challenge_type"`
	TargetValue int                 `json:"target_value"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	Visibility  string              `json:"visibility"`
}

func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.StartDate == "" || req.EndDate == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start and end dates are required"})
		return
	}
	if req.EndDate < req.StartDate {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end date precedes start date"})
		return
	}

	challenge, err := h.challengeStore.Create(store.ChallengeParams{
		Title:       req.Title,
		Emoji:       req.Emoji,
		Type:        req.Type,
		TargetValue: req.TargetValue,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Visibility:  req.Visibility,
	}, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create challenge", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create challenge"})
		return
	}
	writeJSON(w, http.StatusCreated, challenge)
}

func (h *ChallengeHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	challenge, err := h.challengeStore.GetByID(id)
	if err != nil {
		h.logger.Error("get challenge", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to join challenge"})
		return
	}
	if challenge == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "challenge not found"})
		return
	}

	participant, err := h.challengeStore.Join(id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("join challenge", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to join challenge"})
		return
	}
	writeJSON(w, http.StatusOK, participant)
}

func (h *ChallengeHandler) JoinByCode(w http.ResponseWriter, r *http.Request) {
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

	challenge, err := h.challengeStore.JoinByCode(code, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("join challenge by code", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to join challenge"})
		return
	}
	if challenge == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no challenge matches that invite code"})
		return
	}
	writeJSON(w, http.StatusOK, challenge)
}

// Leaderboard is open to participants only.
func (h *ChallengeHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	participant, err := h.challengeStore.GetParticipant(id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("check participant", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load leaderboard"})
		return
	}
	if participant == nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "join the challenge to see its leaderboard"})
		return
	}

	entries, err := h.challengeStore.Leaderboard(id)
	if err != nil {
		h.logger.Error("leaderboard", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load leaderboard"})
		return
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *ChallengeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.challengeStore.Stats(auth.UserID(r.Context()), h.today(r))
	if err != nil {
		h.logger.Error("challenge stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load challenge stats"})
		return
	}
	writeJSON(w, http.StatusOK, st)
}
