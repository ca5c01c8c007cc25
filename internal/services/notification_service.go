package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/leolearn/leo-web/internal/mailer"
	"github.com/leolearn/leo-web/internal/models"
)

// NotificationServiceProvider defines the interface for outbound form email.
type NotificationServiceProvider interface {
	Notify(ctx context.Context, kind models.NotificationKind, payload any) error
	Subscribe(ctx context.Context, req models.SubscriptionRequest) error
	SendMessage(ctx context.Context, req models.ContactRequest) error
}

// NotificationService formats form submissions as email to the operator.
type NotificationService struct {
	sender       mailer.Sender
	fromAddress  string
	operatorAddr string
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(sender mailer.Sender, fromAddress, operatorAddr string) *NotificationService {
	return &NotificationService{sender: sender, fromAddress: fromAddress, operatorAddr: operatorAddr}
}

// Notify dispatches payload by kind.
func (s *NotificationService) Notify(ctx context.Context, kind models.NotificationKind, payload any) error {
	switch kind {
	case models.NotificationSubscription:
		req, ok := payload.(models.SubscriptionRequest)
		if !ok {
			return &ValidationError{Message: "invalid subscription payload"}
		}
		return s.Subscribe(ctx, req)
	case models.NotificationContact:
		req, ok := payload.(models.ContactRequest)
		if !ok {
			return &ValidationError{Message: "invalid contact payload"}
		}
		return s.SendMessage(ctx, req)
	default:
		return &ValidationError{Message: fmt.Sprintf("unknown notification kind %q", kind)}
	}
}

// Subscribe notifies the operator of a newsletter subscription.
func (s *NotificationService) Subscribe(ctx context.Context, req models.SubscriptionRequest) error {
	if req.Email == "" {
		return &ValidationError{Message: "Email is required"}
	}

	return s.send(ctx, mailer.Message{
		From:    s.fromAddress,
		To:      s.operatorAddr,
		Subject: "New Newsletter Subscription",
		Body:    fmt.Sprintf("New subscription from: %s", req.Email),
	})
}

// SendMessage forwards a contact form message to the operator. The From
// header is the submitter's own address.
func (s *NotificationService) SendMessage(ctx context.Context, req models.ContactRequest) error {
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return &ValidationError{Message: "Name, email and message are required"}
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Name: %s\n", req.Name)
	fmt.Fprintf(&body, "Email: %s\n\n", req.Email)
	fmt.Fprintf(&body, "Message:\n%s\n", req.Message)

	return s.send(ctx, mailer.Message{
		From:    req.Email,
		To:      s.operatorAddr,
		Subject: fmt.Sprintf("New Message from %s", req.Name),
		Body:    body.String(),
	})
}

func (s *NotificationService) send(ctx context.Context, msg mailer.Message) error {
	if err := s.sender.Send(ctx, msg); err != nil {
		return &ExternalServiceError{Service: "mail relay", Err: err}
	}
	return nil
}
