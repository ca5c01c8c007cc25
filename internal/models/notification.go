package models

// NotificationKind selects which outbound email is built.
type NotificationKind string

const (
	NotificationSubscription NotificationKind = "subscription"
	NotificationContact      NotificationKind = "contact"
)

// SubscriptionRequest is submitted by the newsletter form.
type SubscriptionRequest struct {
	Email string
}

// ContactRequest is submitted by the contact form.
type ContactRequest struct {
	Name    string
	Email   string
	Message string
}

// NotificationResponse is returned by both email endpoints.
type NotificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
