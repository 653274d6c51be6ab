package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/taskly/internal/handler"
	"github.com/dukerupert/taskly/internal/middleware"
	"github.com/dukerupert/taskly/internal/store"
)

type Server struct {
	db           *sql.DB
	authH        *handler.AuthHandler
	profileH     *handler.ProfileHandler
	taskH        *handler.TaskHandler
	householdH   *handler.HouseholdHandler
	challengeH   *handler.ChallengeHandler
	categoryH    *handler.CategoryHandler
	statsH       *handler.StatsHandler
	dashboardH   *handler.DashboardHandler
	templateH    *handler.TemplateHandler
	sessionStore *store.SessionStore
	profileStore *store.ProfileStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	profileStore := store.NewProfileStore(db)
	sessionStore := store.NewSessionStore(db)
	taskStore := store.NewTaskStore(db)
	householdStore := store.NewHouseholdStore(db)
	challengeStore := store.NewChallengeStore(db)
	categoryStore := store.NewCategoryStore(db)

	return &Server{
		db:           db,
		authH:        handler.NewAuthHandler(profileStore, sessionStore, logger.With("component", "auth")),
		profileH:     handler.NewProfileHandler(profileStore, logger.With("component", "profile")),
		taskH:        handler.NewTaskHandler(taskStore, profileStore, householdStore, challengeStore, logger.With("component", "task")),
		householdH:   handler.NewHouseholdHandler(householdStore, taskStore, logger.With("component", "household")),
		challengeH:   handler.NewChallengeHandler(challengeStore, profileStore, logger.With("component", "challenge")),
		categoryH:    handler.NewCategoryHandler(categoryStore, logger.With("component", "category")),
		statsH:       handler.NewStatsHandler(taskStore, profileStore, logger.With("component", "stats")),
		dashboardH:   handler.NewDashboardHandler(profileStore, taskStore, challengeStore, logger.With("component", "dashboard")),
		templateH:    handler.NewTemplateHandler(logger.With("component", "template")),
		sessionStore: sessionStore,
		profileStore: profileStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("GET /{$}", s.templateH.Landing)
	outerMux.HandleFunc("GET /login", s.templateH.Login)
	outerMux.HandleFunc("GET /auth/register", s.templateH.Register)
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	outerMux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Everything else requires a session
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.profileStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Profile
	mux.HandleFunc("GET /api/profile", s.profileH.Get)
	mux.HandleFunc("PUT /api/profile/settings", s.profileH.UpdateSettings)

	// Tasks and completions
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Archive)
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.taskH.Complete)
	mux.HandleFunc("DELETE /api/tasks/{id}/complete", s.taskH.Uncomplete)

	// Groups
	mux.HandleFunc("GET /api/households", s.householdH.List)
	mux.HandleFunc("POST /api/households", s.householdH.Create)
	mux.HandleFunc("POST /api/households/join", s.householdH.Join)
	mux.HandleFunc("GET /api/households/{id}/members", s.householdH.Members)
	mux.HandleFunc("GET /api/households/{id}/tasks", s.householdH.Tasks)

	// Challenges
	mux.HandleFunc("GET /api/challenges/mine", s.challengeH.ListMine)
	mux.HandleFunc("GET /api/challenges/available", s.challengeH.ListAvailable)
	mux.HandleFunc("POST /api/challenges", s.challengeH.Create)
	mux.HandleFunc("POST /api/challenges/{id}/join", s.challengeH.Join)
	mux.HandleFunc("POST /api/challenges/join", s.challengeH.JoinByCode)
	mux.HandleFunc("GET /api/challenges/{id}/leaderboard", s.challengeH.Leaderboard)
	mux.HandleFunc("GET /api/challenges/stats", s.challengeH.Stats)

	// Categories
	mux.HandleFunc("GET /api/categories", s.categoryH.List)
	mux.HandleFunc("POST /api/categories", s.categoryH.Create)
	mux.HandleFunc("DELETE /api/categories/{id}", s.categoryH.Delete)

	// Stats
	mux.HandleFunc("GET /api/stats", s.statsH.Get)
	mux.HandleFunc("GET /api/stats/history", s.statsH.History)

	// Dashboard fan-out
	mux.HandleFunc("GET /api/dashboard", s.dashboardH.Get)

	// App pages
	mux.HandleFunc("GET /app", s.templateH.Dashboard)
	mux.HandleFunc("GET /app/groups", s.templateH.Groups)
	mux.HandleFunc("GET /app/challenges", s.templateH.Challenges)
	mux.HandleFunc("GET /app/stats", s.templateH.Stats)
	mux.HandleFunc("GET /app/profile", s.templateH.Profile)
}
