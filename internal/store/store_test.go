package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/leolearn/leo-web/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewSQLiteStore(db)
}

func stores(t *testing.T) map[string]CredentialStore {
	return map[string]CredentialStore{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
	}
}

func TestCredentialStore_InsertAssignsSequentialIDs(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			alice, err := st.Insert(ctx, "alice", "h1")
			require.NoError(t, err)
			bob, err := st.Insert(ctx, "bob", "h2")
			require.NoError(t, err)

			assert.Equal(t, "1", alice.ID)
			assert.Equal(t, "2", bob.ID)

			got, err := st.Get(ctx, bob.ID)
			require.NoError(t, err)
			assert.Equal(t, "bob", got.Username)
			assert.Equal(t, "h2", got.PasswordHash)
		})
	}
}

func TestCredentialStore_UsernameUnique(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := st.Insert(ctx, "alice", "h1")
			require.NoError(t, err)

			_, err = st.Insert(ctx, "alice", "other")
			assert.ErrorIs(t, err, ErrUsernameTaken)

			// Matching is case-sensitive.
			_, err = st.Insert(ctx, "Alice", "h3")
			assert.NoError(t, err)

			users, err := st.ListByUsername(ctx, "alice")
			require.NoError(t, err)
			require.Len(t, users, 1)
			assert.Equal(t, "h1", users[0].PasswordHash)
		})
	}
}

func TestCredentialStore_GetMissing(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get(context.Background(), "42")
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = st.Get(context.Background(), "not-a-number")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestCredentialStore_ListByUsernameEmpty(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			users, err := st.ListByUsername(context.Background(), "ghost")
			require.NoError(t, err)
			assert.Empty(t, users)
		})
	}
}

func TestMemoryStore_ConcurrentInsertKeepsUniqueness(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := st.Insert(ctx, fmt.Sprintf("user-%d", i%5), "h")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok, taken int
	for err := range errs {
		switch err {
		case nil:
			ok++
		case ErrUsernameTaken:
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, 15, taken)
}
