package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"weekly-menu/internal/database"
)

// Repository stores user profiles.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves a user by ID. It returns nil, nil when the user does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*User, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM users WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var u User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &u, nil
}

// Save inserts or replaces a user profile.
func (r *Repository) Save(ctx context.Context, u *User) error {
	if u.ID == "" {
		return errors.New("user id is required")
	}
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email, data = excluded.data, updated_at = excluded.updated_at`,
		u.ID, u.Email, string(data), database.FormatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", u.ID, err)
	}
	return nil
}
