package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/leolearn/leo-web/internal/models"
)

// SQLiteStore persists users in the users table created by database.Migrate.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLiteStore on an open, migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (models.User, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return models.User{}, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, "SELECT id, username, password_hash, created_at FROM users WHERE id = ?", n)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, username, passwordHash string) (models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&count); err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, ErrUsernameTaken
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users(username, password_hash, created_at) VALUES(?, ?, ?)",
		username, passwordHash, now.Unix())
	if err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, err
	}

	return models.User{
		ID:           strconv.FormatInt(id, 10),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Unix(now.Unix(), 0).UTC(),
	}, nil
}

func (s *SQLiteStore) ListByUsername(ctx context.Context, username string) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ? ORDER BY id", username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user      models.User
		id        int64
		createdAt int64
	)
	if err := row.Scan(&id, &user.Username, &user.PasswordHash, &createdAt); err != nil {
		return models.User{}, err
	}
	user.ID = strconv.FormatInt(id, 10)
	user.CreatedAt = time.Unix(createdAt, 0).UTC()
	return user, nil
}
