package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/leolearn/leo-web/internal/auth"
	"github.com/leolearn/leo-web/internal/models"
	"github.com/leolearn/leo-web/internal/services"
	"github.com/leolearn/leo-web/internal/views"
	"github.com/rs/zerolog/log"
)

// UserHandler handles registration, login and logout.
type UserHandler struct {
	service       services.AuthServiceProvider
	events        services.EventServiceProvider
	views         *views.Renderer
	secureCookies bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(
	service services.AuthServiceProvider,
	events services.EventServiceProvider,
	renderer *views.Renderer,
	secureCookies bool,
) *UserHandler {
	return &UserHandler{service: service, events: events, views: renderer, secureCookies: secureCookies}
}

// RegisterPage renders the registration form.
func (h *UserHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.views, views.PageRegister, views.PageData{Title: "Register"})
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.service.Register(r.Context(), username, password)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			views.SetFlash(w, "Username already exists")
		case errors.As(err, &verr):
			views.SetFlash(w, verr.Message)
		default:
			log.Error().Err(err).Str("username", username).Msg("Failed to register user")
			http.Error(w, "Failed to register user", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	recordEvent(r.Context(), h.events, models.EventUserRegistered, "info", "Account created", user.ID)
	views.SetFlash(w, "Registration successful! Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginPage renders the login form.
func (h *UserHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.views, views.PageLogin, views.PageData{Title: "Log in"})
}

// Login handles user authentication and sets the session cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := h.service.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("username", username).Msg("Failed authentication attempt")
			views.SetFlash(w, "Invalid credentials")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to authenticate user")
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token.Value,
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	recordEvent(r.Context(), h.events, models.EventSessionStarted, "info", "Logged in", token.UserID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout ends the current session and clears the cookie.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.UserFromContext(r.Context()); ok {
		recordEvent(r.Context(), h.events, models.EventSessionEnded, "info", "Logged out", user.ID)
	}
	if token := auth.TokenFromRequest(r); token != "" {
		h.service.EndSession(r.Context(), token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Account renders the account page for the current user.
func (h *UserHandler) Account(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var events []models.Event
	if h.events != nil {
		var err error
		events, err = h.events.GetRecentEvents(r.Context(), user.ID, services.DefaultEventLimit)
		if err != nil {
			log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to load account activity")
		}
	}

	renderPage(w, r, h.views, views.PageAccount, views.PageData{
		Title:    "Account",
		Username: user.Username,
		Events:   events,
	})
}
