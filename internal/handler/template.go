package handler

import (
	"html/template"
	"log/slog"
	"net/http"
)

type TemplateHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

func NewTemplateHandler(logger *slog.Logger) *TemplateHandler {
	tmpl := template.Must(template.ParseGlob("web/templates/*.html"))
	return &TemplateHandler{templates: tmpl, logger: logger}
}

// Landing serves the marketing page at the root.
func (h *TemplateHandler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, "landing.html", map[string]any{"Title": "Taskly"})
}

func (h *TemplateHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", map[string]any{"Title": "Sign in — Taskly"})
}

func (h *TemplateHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html", map[string]any{"Title": "Create account — Taskly"})
}

func (h *TemplateHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "dashboard.html", map[string]any{"Title": "Today — Taskly"})
}

func (h *TemplateHandler) Groups(w http.ResponseWriter, r *http.Request) {
	h.render(w, "groups.html", map[string]any{"Title": "Groups — Taskly"})
}

func (h *TemplateHandler) Challenges(w http.ResponseWriter, r *http.Request) {
	h.render(w, "challenges.html", map[string]any{"Title": "Challenges — Taskly"})
}

func (h *TemplateHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.render(w, "stats.html", map[string]any{"Title": "Stats — Taskly"})
}

func (h *TemplateHandler) Profile(w http.ResponseWriter, r *http.Request) {
	h.render(w, "profile.html", map[string]any{"Title": "Profile — Taskly"})
}

func (h *TemplateHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render template", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
