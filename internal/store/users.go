package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account. PasswordHash is empty for OAuth-only users; GoogleSub
// is empty for password-only users.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	GoogleSub    string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUser inserts a new account and returns it with its generated ID.
func (s *Store) CreateUser(ctx context.Context, email, name, passwordHash, googleSub string) (*User, error) {
	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		GoogleSub:    googleSub,
		Role:         RoleUser,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, name, password_hash, google_sub, role)
         VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)
         RETURNING created_at`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.GoogleSub, u.Role,
	).Scan(&u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetUser fetches an account by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	return s.getUserBy(ctx, "id = $1", id)
}

// GetUserByEmail fetches an account by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.getUserBy(ctx, "email = $1", email)
}

// GetUserByGoogleSub fetches an account by its Google subject identifier.
func (s *Store) GetUserByGoogleSub(ctx context.Context, sub string) (*User, error) {
	return s.getUserBy(ctx, "google_sub = $1", sub)
}

func (s *Store) getUserBy(ctx context.Context, where string, arg any) (*User, error) {
	var u User
	var passwordHash, googleSub *string
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, google_sub, role, created_at
         FROM users WHERE `+where, arg,
	).Scan(&u.ID, &u.Email, &u.Name, &passwordHash, &googleSub, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	if googleSub != nil {
		u.GoogleSub = *googleSub
	}
	return &u, nil
}

// ListUsers returns every account, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, email, name, role, created_at
         FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserRole changes an account's role.
func (s *Store) UpdateUserRole(ctx context.Context, id, role string) error {
	if role != RoleUser && role != RoleAdmin {
		return fmt.Errorf("unknown role %q", role)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes an account and, via cascade, its prediction history.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
