package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/leolearn/leo-web/internal/auth"
	"github.com/leolearn/leo-web/internal/services"
	"github.com/rs/zerolog/log"
)

// EventHandler handles HTTP requests related to the activity log.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent handles the request to get the current user's recent activity.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = services.DefaultEventLimit
	}

	events, err := h.service.GetRecentEvents(r.Context(), user.ID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to retrieve events")
		http.Error(w, "Failed to retrieve events: "+err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, events)
}

// recordEvent adds to the activity log. Failures are logged and otherwise ignored.
func recordEvent(ctx context.Context, events services.EventServiceProvider, eventType, level, message string, userID string) {
	if events == nil {
		return
	}
	if err := events.CreateEvent(ctx, eventType, level, message, &userID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Str("user_id", userID).Msg("Failed to record event")
	}
}
