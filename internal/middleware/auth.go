package middleware

import (
	"net/http"
	"strings"

	"github.com/dukerupert/taskly/internal/auth"
	"github.com/dukerupert/taskly/internal/store"
)

const sessionCookieName = "taskly_session"

// RequireAuth validates the session cookie and puts the resolved identity
// on the request context. API routes get a JSON 401, page routes a redirect
// to the login screen.
func RequireAuth(sessionStore *store.SessionStore, profileStore *store.ProfileStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				rejectUnauthenticated(w, r)
				return
			}

			sess, err := sessionStore.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				rejectUnauthenticated(w, r)
				return
			}

			profile, err := profileStore.GetByID(sess.UserID)
			if err != nil || profile == nil {
				rejectUnauthenticated(w, r)
				return
			}

			ctx := auth.WithSession(r.Context(), auth.Session{
				UserID:    profile.ID,
				UID:       profile.UID,
				SessionID: sess.ID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejectUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthorized"}`))
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
