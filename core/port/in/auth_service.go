package in

import (
	"context"

	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
)

// AuthService handles accounts and session tokens.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*domain.User, error)
	// Login verifies credentials and returns a signed session token.
	Login(ctx context.Context, login, password string) (*LoginResponse, error)
	// Logout revokes the session token.
	Logout(ctx context.Context, tokenID string) error

	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}
