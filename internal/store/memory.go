package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/leolearn/leo-web/internal/models"
)

// MemoryStore keeps users for the lifetime of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]models.User
	order []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]models.User)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) Insert(_ context.Context, username, passwordHash string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		if s.users[id].Username == username {
			return models.User{}, ErrUsernameTaken
		}
	}

	user := models.User{
		ID:           strconv.Itoa(len(s.order) + 1),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[user.ID] = user
	s.order = append(s.order, user.ID)
	return user, nil
}

func (s *MemoryStore) ListByUsername(_ context.Context, username string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for _, id := range s.order {
		if u := s.users[id]; u.Username == username {
			out = append(out, u)
		}
	}
	return out, nil
}
