// Package views renders the server-side pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/leolearn/leo-web/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const flashCookieName = "flash"

// Pages rendered by the application.
const (
	PageRegister = "register.html"
	PageLogin    = "login.html"
	PageAccount  = "account.html"
	PageChat     = "chat.html"
	PageCourses  = "courses.html"
)

// PageData is handed to every template.
type PageData struct {
	Title    string
	Username string
	Flash    string
	Events   []models.Event
}

// Renderer executes page templates wrapped in the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{PageRegister, PageLogin, PageAccount, PageChat, PageCourses} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Render writes page with data. Any pending flash message is consumed. Nothing
// is written to w when the template fails.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, page string, data PageData) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %s", page)
	}
	if data.Flash == "" {
		data.Flash = PopFlash(w, req)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// SetFlash stores a one-shot message shown on the next rendered page.
func SetFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns and clears the pending flash message.
func PopFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:    flashCookieName,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}
