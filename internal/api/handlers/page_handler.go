package handlers

import (
	"net/http"

	"github.com/leolearn/leo-web/internal/auth"
	"github.com/leolearn/leo-web/internal/views"
)

// PageHandler serves the signed-in pages that carry no logic of their own.
type PageHandler struct {
	views *views.Renderer
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(renderer *views.Renderer) *PageHandler {
	return &PageHandler{views: renderer}
}

// Chat renders the chat page.
func (h *PageHandler) Chat(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	renderPage(w, r, h.views, views.PageChat, views.PageData{Title: "Chat", Username: user.Username})
}

// Courses renders the courses page.
func (h *PageHandler) Courses(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	renderPage(w, r, h.views, views.PageCourses, views.PageData{Title: "Courses", Username: user.Username})
}

// Health reports liveness.
func (h *PageHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
