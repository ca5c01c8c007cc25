package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leolearn/leo-web/internal/models"
	"github.com/leolearn/leo-web/internal/store"
)

// DefaultEventLimit is used when a caller asks for a non-positive number of events.
const DefaultEventLimit = 20

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string, userID *string) error
	GetRecentEvents(ctx context.Context, userID string, limit int) ([]models.Event, error)
}

// EventService provides business logic for the activity log.
type EventService struct {
	store store.EventStore
	now   func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(st store.EventStore) *EventService {
	return &EventService{store: st, now: time.Now}
}

// CreateEvent logs a new event.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string, userID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}
	return s.store.Append(ctx, event)
}

// GetRecentEvents retrieves the most recent events for a user.
func (s *EventService) GetRecentEvents(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	events, err := s.store.RecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}
