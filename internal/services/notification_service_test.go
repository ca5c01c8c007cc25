package services

import (
	"context"
	"errors"
	"testing"

	"github.com/leolearn/leo-web/internal/mailer"
	"github.com/leolearn/leo-web/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func TestSubscribe(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotificationService(sender, "noreply@leo.test", "ops@leo.test")

	require.NoError(t, svc.Subscribe(context.Background(), models.SubscriptionRequest{Email: "reader@example.com"}))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "noreply@leo.test", msg.From)
	assert.Equal(t, "ops@leo.test", msg.To)
	assert.Equal(t, "New Newsletter Subscription", msg.Subject)
	assert.Equal(t, "New subscription from: reader@example.com", msg.Body)
}

func TestSubscribe_MissingEmail(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotificationService(sender, "noreply@leo.test", "ops@leo.test")

	err := svc.Subscribe(context.Background(), models.SubscriptionRequest{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email is required", verr.Message)
	assert.Empty(t, sender.sent)
}

func TestSendMessage(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotificationService(sender, "noreply@leo.test", "ops@leo.test")

	req := models.ContactRequest{Name: "Ada", Email: "ada@example.com", Message: "Hello\nthere"}
	require.NoError(t, svc.SendMessage(context.Background(), req))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "ada@example.com", msg.From)
	assert.Equal(t, "ops@leo.test", msg.To)
	assert.Equal(t, "New Message from Ada", msg.Subject)
	assert.Contains(t, msg.Body, "Name: Ada")
	assert.Contains(t, msg.Body, "Email: ada@example.com")
	assert.Contains(t, msg.Body, "Hello\nthere")
}

func TestSendMessage_MissingFields(t *testing.T) {
	cases := []models.ContactRequest{
		{Email: "a@example.com", Message: "m"},
		{Name: "n", Message: "m"},
		{Name: "n", Email: "a@example.com"},
	}
	for _, req := range cases {
		sender := &fakeSender{}
		svc := NewNotificationService(sender, "noreply@leo.test", "ops@leo.test")

		err := svc.SendMessage(context.Background(), req)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Empty(t, sender.sent)
	}
}

func TestSend_TransportFailureNotRetried(t *testing.T) {
	sender := &fakeSender{err: errors.New("535 auth failed")}
	svc := NewNotificationService(sender, "noreply@leo.test", "ops@leo.test")

	err := svc.Subscribe(context.Background(), models.SubscriptionRequest{Email: "a@example.com"})
	var extErr *ExternalServiceError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "mail relay", extErr.Service)
	assert.Len(t, sender.sent, 1)
}

func TestNotify_Dispatch(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotificationService(sender, "noreply@leo.test", "ops@leo.test")
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, models.NotificationSubscription, models.SubscriptionRequest{Email: "a@example.com"}))
	require.NoError(t, svc.Notify(ctx, models.NotificationContact, models.ContactRequest{Name: "n", Email: "a@example.com", Message: "m"}))
	assert.Len(t, sender.sent, 2)

	var verr *ValidationError
	assert.ErrorAs(t, svc.Notify(ctx, models.NotificationContact, models.SubscriptionRequest{}), &verr)
	assert.ErrorAs(t, svc.Notify(ctx, "fax", nil), &verr)
}
