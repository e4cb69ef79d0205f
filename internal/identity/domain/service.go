package domain

import (
	"context"
	"errors"
	"time"
)

type RegisterRequest struct {
	Role     Role
	Name     string
	Email    string
	Password string
}

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResult struct {
	User      User
	RawToken  string
	ExpiresAt time.Time
}

type Service interface {
	Register(context.Context, RegisterRequest) (User, error)
	Login(context.Context, LoginRequest) (LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidSession     = errors.New("invalid_session")
	ErrSessionExpired     = errors.New("session_expired")
	ErrSessionRevoked     = errors.New("session_revoked")
	ErrUserExists         = errors.New("user_exists")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
)
