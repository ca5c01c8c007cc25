package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leolearn/leo-web/internal/auth"
	"github.com/leolearn/leo-web/internal/models"
	"github.com/leolearn/leo-web/internal/store"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceProvider defines the interface for the session authenticator.
type AuthServiceProvider interface {
	Register(ctx context.Context, username, password string) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.SessionToken, error)
	CurrentUser(ctx context.Context, token string) (models.User, bool)
	EndSession(ctx context.Context, token string)
}

// AuthService registers users and manages their sessions.
type AuthService struct {
	store    store.CredentialStore
	sessions *auth.SessionRegistry
	tokens   *auth.TokenIssuer
	hashCost int
}

// NewAuthService creates a new AuthService. hashCost is the bcrypt cost.
func NewAuthService(st store.CredentialStore, sessions *auth.SessionRegistry, tokens *auth.TokenIssuer, hashCost int) *AuthService {
	return &AuthService{store: st, sessions: sessions, tokens: tokens, hashCost: hashCost}
}

// Register creates a new user, hashing their password.
func (s *AuthService) Register(ctx context.Context, username, password string) (models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return models.User{}, &ValidationError{Message: "Username and password are required"}
	}

	// Insert checks again under its own lock.
	existing, err := s.store.ListByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if len(existing) > 0 {
		return models.User{}, ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.Insert(ctx, username, string(hashedPassword))
	if err != nil {
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies credentials and opens a session for the first user
// whose stored hash matches.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (models.SessionToken, error) {
	candidates, err := s.store.ListByUsername(ctx, username)
	if err != nil {
		return models.SessionToken{}, fmt.Errorf("failed to look up user: %w", err)
	}

	for _, user := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			continue
		}

		session := s.sessions.Create(user.ID)
		token, err := s.tokens.Generate(session)
		if err != nil {
			s.sessions.Delete(session.ID)
			return models.SessionToken{}, fmt.Errorf("failed to sign session token: %w", err)
		}
		return models.SessionToken{Value: token, UserID: user.ID, ExpiresAt: session.ExpiresAt}, nil
	}

	return models.SessionToken{}, ErrInvalidCredentials
}

// CurrentUser resolves a live session token to its user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (models.User, bool) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return models.User{}, false
	}

	session, ok := s.sessions.Get(claims.ID)
	if !ok || session.UserID != claims.Subject {
		return models.User{}, false
	}

	user, err := s.store.Get(ctx, session.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Str("user_id", session.UserID).Msg("Failed to load session user")
		}
		return models.User{}, false
	}

	user.PasswordHash = ""
	return user, true
}

// EndSession invalidates the session behind token. Invalid tokens are ignored.
func (s *AuthService) EndSession(_ context.Context, token string) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return
	}
	s.sessions.Delete(claims.ID)
}
