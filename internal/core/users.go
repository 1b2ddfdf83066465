package core

// users.go manages operator accounts. Passwords are stored as bcrypt hashes
// and never leave this package.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserParams carries create/update input for a user account.
type UserParams struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// CreateUser inserts a new account with a bcrypt-hashed password.
func (s *Service) CreateUser(ctx context.Context, p UserParams) (*User, error) {
	var missing []string
	if p.Username == nil || *p.Username == "" {
		missing = append(missing, "username")
	}
	if p.Email == nil || *p.Email == "" {
		missing = append(missing, "email")
	}
	if p.Password == nil || *p.Password == "" {
		missing = append(missing, "password")
	}
	if p.Role == nil || *p.Role == "" {
		missing = append(missing, "role")
	}
	if len(missing) > 0 {
		return nil, MissingFields(missing...)
	}

	role := Role(*p.Role)
	if !role.Valid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("invalid role %q", *p.Role)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var u User
	err = s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, role, created_at`,
		*p.Username, *p.Email, string(hash), role,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		if IsConstraintViolation(err) {
			return nil, &ValidationError{Msg: storeErrorMessage(err)}
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

// GetUser returns one account by id, or ErrNotFound.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, email, role, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ListUsers returns all accounts, password hashes excluded.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, username, email, role, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser applies a partial update; a new password is re-hashed.
func (s *Service) UpdateUser(ctx context.Context, id int64, p UserParams) (*User, error) {
	var sets []string
	var args []any

	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Username != nil && *p.Username != "" {
		set("username", *p.Username)
	}
	if p.Email != nil && *p.Email != "" {
		set("email", *p.Email)
	}
	if p.Role != nil && *p.Role != "" {
		role := Role(*p.Role)
		if !role.Valid() {
			return nil, &ValidationError{Msg: fmt.Sprintf("invalid role %q", *p.Role)}
		}
		set("role", role)
	}
	if p.Password != nil && *p.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*p.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		set("password_hash", string(hash))
	}

	if len(sets) == 0 {
		return s.GetUser(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE users SET %s WHERE id = $%d
		RETURNING id, username, email, role, created_at`,
		strings.Join(sets, ", "), len(args))

	var u User
	err := s.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if IsConstraintViolation(err) {
			return nil, &ValidationError{Msg: storeErrorMessage(err)}
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &u, nil
}

// DeleteUser removes an account; its sessions go with it.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
