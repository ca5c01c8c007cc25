// Package store holds the credential stores behind the session authenticator.
package store

import (
	"context"
	"errors"

	"github.com/leolearn/leo-web/internal/models"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrNotFound      = errors.New("user not found")
)

// CredentialStore keeps username to password-hash records. Implementations
// must enforce username uniqueness and assign IDs themselves.
type CredentialStore interface {
	// Get returns the user with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (models.User, error)
	// Insert stores a new user under the next sequential ID, or fails with
	// ErrUsernameTaken.
	Insert(ctx context.Context, username, passwordHash string) (models.User, error)
	// ListByUsername returns every user whose username equals username exactly,
	// in insertion order.
	ListByUsername(ctx context.Context, username string) ([]models.User, error)
}
