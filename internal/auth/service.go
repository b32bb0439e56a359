// Package auth orchestrates registration, login and token handling.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/natog7/PersonalFinance/internal/user"
)

// ErrInvalidCredentials covers every login failure mode: blank credentials,
// unknown email, inactive user and password mismatch. Callers must not be
// able to tell them apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

//go:generate mockgen -source=service.go -destination=collaborators_mock.go -package=auth
type Repository interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateUser(ctx context.Context, u *user.User) error
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// Claims is what a validated access token carries.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   user.Role
}

type TokenIssuer interface {
	IssueAccessToken(userID uuid.UUID, email string, role user.Role) (string, error)
	IssueRefreshToken() (string, error)
	Validate(token string) (*Claims, error)
	AccessTTL() time.Duration
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewService(repo Repository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

type RegisterParams struct {
	Email    string
	Password string
	FullName string
}

type Registration struct {
	UserID   uuid.UUID
	Email    string
	FullName string
}

// Register creates a new user, returning user.ErrEmailTaken when the email
// is already registered. A race between two registrations with the same
// email is decided by the store's unique constraint.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*Registration, error) {
	exists, err := s.repo.EmailExists(ctx, params.Email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	if exists {
		return nil, user.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u, err := user.New(params.Email, hash, params.FullName)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return &Registration{UserID: u.ID, Email: u.Email, FullName: u.Nickname}, nil
}

// Session is the result of a successful login.
type Session struct {
	UserID       uuid.UUID
	Email        string
	FullName     string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	TokenType    string
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !u.IsActive || !s.hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	u.UpdateLastLogin()

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("stamping last login: %w", err)
	}

	accessToken, err := s.tokens.IssueAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}

	return &Session{
		UserID:       u.ID,
		Email:        u.Email,
		FullName:     u.Nickname,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
		TokenType:    "Bearer",
	}, nil
}
