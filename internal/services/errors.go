package services

import (
	"errors"
	"fmt"

	"github.com/leolearn/leo-web/internal/store"
)

var (
	ErrUsernameTaken      = store.ErrUsernameTaken
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ExternalServiceError reports a failure of the embedding provider, the
// vector index or the mail relay.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
