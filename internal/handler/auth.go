package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/taskly/internal/store"
)

const sessionCookieName = "taskly_session"

type AuthHandler struct {
	profileStore *store.ProfileStore
	sessionStore *store.SessionStore
	logger       *slog.Logger
}

func NewAuthHandler(ps *store.ProfileStore, ss *store.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{profileStore: ps, sessionStore: ss, logger: logger}
}

// demoUID derives a stable demo identity from an email address: the address
// lowercased with every non-alphanumeric character collapsed to an
// underscore, behind a demo_ prefix. The same email always lands on the
// same profile row.
func demoUID(email string) string {
	var b strings.Builder
	b.WriteString("demo_")
	for _, c := range strings.ToLower(email) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

type loginRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a valid email is required"})
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = req.Email[:strings.IndexByte(req.Email, '@')]
	}

	profile, err := h.profileStore.Upsert(demoUID(req.Email), req.Email, displayName, req.AvatarURL)
	if err != nil {
		h.logger.Error("login upsert", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to sign in"})
		return
	}

	sess, err := h.sessionStore.Create(profile.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to sign in"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   90 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	writeJSON(w, http.StatusOK, profile)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if sess, err := h.sessionStore.GetByToken(cookie.Value); err == nil && sess != nil {
			h.sessionStore.Delete(sess.ID)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
