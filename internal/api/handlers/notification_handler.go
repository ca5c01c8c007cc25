package handlers

import (
	"errors"
	"net/http"

	"github.com/leolearn/leo-web/internal/models"
	"github.com/leolearn/leo-web/internal/services"
	"github.com/rs/zerolog/log"
)

// NotificationHandler handles the open subscription and contact forms.
type NotificationHandler struct {
	service services.NotificationServiceProvider
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service services.NotificationServiceProvider) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// Subscribe handles the newsletter form.
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	req := models.SubscriptionRequest{Email: r.PostFormValue("email")}
	err := h.service.Notify(r.Context(), models.NotificationSubscription, req)
	h.respond(w, err, "Subscription successful!", "subscribe")
}

// SendMessage handles the contact form.
func (h *NotificationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	req := models.ContactRequest{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}
	err := h.service.Notify(r.Context(), models.NotificationContact, req)
	h.respond(w, err, "Message sent successfully!", "send-message")
}

func (h *NotificationHandler) respond(w http.ResponseWriter, err error, okMessage, endpoint string) {
	if err == nil {
		respondJSON(w, http.StatusOK, models.NotificationResponse{Success: true, Message: okMessage})
		return
	}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusBadRequest, models.NotificationResponse{Success: false, Message: verr.Message})
		return
	}

	log.Error().Err(err).Str("endpoint", endpoint).Msg("Failed to send notification")
	respondJSON(w, http.StatusInternalServerError, models.NotificationResponse{Success: false, Message: err.Error()})
}
