// Package user holds the user aggregate.
package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the user's authorization level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken signals a uniqueness conflict on registration.
	ErrEmailTaken = errors.New("email already registered")

	ErrEmptyEmail    = errors.New("email is required")
	ErrEmptyPassword = errors.New("password hash is required")
	ErrEmptyNickname = errors.New("full name is required")
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Nickname     string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// New builds a user with a lowered, trimmed email.
func New(email, passwordHash, nickname string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	nickname = strings.TrimSpace(nickname)

	if email == "" {
		return nil, ErrEmptyEmail
	}

	if strings.TrimSpace(passwordHash) == "" {
		return nil, ErrEmptyPassword
	}

	if nickname == "" {
		return nil, ErrEmptyNickname
	}

	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Nickname:     nickname,
		Role:         RoleUser,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// UpdateLastLogin stamps the moment of a successful login.
func (u *User) UpdateLastLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
}
