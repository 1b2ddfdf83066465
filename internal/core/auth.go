package core

// auth.go supplies the caller-identity collaborator: database-backed login
// sessions. The web layer resolves a session token to a user and enforces
// role requirements before any domain logic runs.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// Session is an authenticated login, identified by an opaque token.
type Session struct {
	Token     uuid.UUID
	UserID    int64
	ExpiresAt time.Time
}

// Login verifies credentials and opens a session. Unknown usernames and bad
// passwords both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, *User, error) {
	if username == "" || password == "" {
		return nil, nil, MissingFields("username", "password")
	}

	var u User
	var hash string
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, email, role, created_at, password_hash
		FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session := &Session{
		Token:     uuid.New(),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		session.Token, session.UserID, session.ExpiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	return session, &u, nil
}

// Logout closes a session. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// UserForSession resolves a session token to its user. Expired or unknown
// sessions return ErrNotFound; expired ones are purged as a side effect.
func (s *Service) UserForSession(ctx context.Context, token uuid.UUID) (*User, error) {
	var u User
	var expiresAt time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.email, u.role, u.created_at, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1`, token,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	if time.Now().After(expiresAt) {
		_, _ = s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
		return nil, ErrNotFound
	}

	return &u, nil
}
