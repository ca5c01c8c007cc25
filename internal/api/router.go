package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/leolearn/leo-web/internal/api/handlers"
	"github.com/leolearn/leo-web/internal/auth"
	"github.com/leolearn/leo-web/internal/logger"
	"github.com/leolearn/leo-web/internal/services"
	"github.com/leolearn/leo-web/internal/views"
)

// Options carries the router settings that come from configuration.
type Options struct {
	CORSOrigins   []string
	SecureCookies bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(
	authService services.AuthServiceProvider,
	retrieverService services.RetrieverServiceProvider,
	notificationService services.NotificationServiceProvider,
	eventService services.EventServiceProvider,
	renderer *views.Renderer,
	opts Options,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(auth.SessionMiddleware(authService))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(authService, eventService, renderer, opts.SecureCookies)
	pageHandler := handlers.NewPageHandler(renderer)
	queryHandler := handlers.NewQueryHandler(retrieverService, eventService)
	eventHandler := handlers.NewEventHandler(eventService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWebSocketHandler(retrieverService, authService, eventService, opts.CORSOrigins)

	r.Get("/health", pageHandler.Health)

	r.Get("/register", userHandler.RegisterPage)
	r.Post("/register", userHandler.Register)
	r.Get("/login", userHandler.LoginPage)
	r.Post("/login", userHandler.Login)

	// Open forms
	r.Post("/subscribe", notificationHandler.Subscribe)
	r.Post("/send-message", notificationHandler.SendMessage)

	// Pages for signed-in users
	r.Group(func(r chi.Router) {
		r.Use(auth.RequirePage("/login"))
		r.Get("/", pageHandler.Chat)
		r.Get("/courses", pageHandler.Courses)
		r.Get("/account", userHandler.Account)
		r.Get("/logout", userHandler.Logout)
	})

	// JSON and websocket endpoints for signed-in users
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAPI)
		r.Post("/query", queryHandler.Query)
		r.Get("/ws/chat", wsHandler.Serve)
		r.Get("/api/events", eventHandler.GetRecent)
	})

	return r
}
