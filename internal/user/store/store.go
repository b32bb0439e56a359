// Package store persists users in postgres.
//
// Expected schema: users(id uuid pk, email text unique, password_hash text,
// nickname text, role text, is_active bool, created_at timestamptz,
// last_login_at timestamptz null).
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/natog7/PersonalFinance/internal/user"
)

// uniqueViolation is the postgres error code for a duplicate key. The unique
// index on email is the only writer-side race guard for registration.
const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `id, email, password_hash, nickname, role, is_active, created_at, last_login_at`

func scanUser(s scanner) (*user.User, error) {
	var (
		u    user.User
		role string
	)

	if err := s.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Nickname, &role,
		&u.IsActive, &u.CreatedAt, &u.LastLoginAt,
	); err != nil {
		return nil, err
	}

	u.Role = user.Role(role)

	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, nickname, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.Nickname, string(u.Role), u.IsActive, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + selectColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + selectColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, normalize(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user by email: %w", err)
	}

	return u, nil
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, normalize(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}

	return exists, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET email = $1, password_hash = $2, nickname = $3, role = $4, is_active = $5, last_login_at = $6
		WHERE id = $7
	`

	var lastLogin sql.NullTime
	if u.LastLoginAt != nil {
		lastLogin = sql.NullTime{Time: *u.LastLoginAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		u.Email, u.PasswordHash, u.Nickname, string(u.Role), u.IsActive, lastLogin, u.ID)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	return nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
