// Package auth implements accounts and JWT sessions.
package auth

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
	"github.com/asidlare/todos/core/port/in"
	"github.com/asidlare/todos/core/port/out"
	"github.com/asidlare/todos/pkg/logger"
)

const minPasswordLen = 8

// Service implements in.AuthService.
type Service struct {
	users     out.UserRepository
	blacklist out.TokenBlacklist
	secret    []byte
	tokenTTL  time.Duration
}

// NewService creates the auth service. blacklist may be nil, in which case
// logout is a no-op and tokens stay valid until expiry.
func NewService(users out.UserRepository, blacklist out.TokenBlacklist, secret []byte, tokenTTL time.Duration) in.AuthService {
	return &Service{
		users:     users,
		blacklist: blacklist,
		secret:    secret,
		tokenTTL:  tokenTTL,
	}
}

func (s *Service) Register(ctx context.Context, req *in.RegisterRequest) (*domain.User, error) {
	if req.Login == "" {
		return nil, fmt.Errorf("%w: login is required", domain.ErrValidation)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	if existing, err := s.users.GetByLogin(ctx, req.Login); err != nil {
		return nil, fmt.Errorf("check login: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: login already taken", domain.ErrValidation)
	}
	if existing, err := s.users.GetByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrValidation)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:           uuid.New(),
		Login:        req.Login,
		PasswordHash: hash,
		Name:         req.Name,
		Email:        req.Email,
		Created:      time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.Info("registered user %s", user.Login)
	return user, nil
}

func (s *Service) Login(ctx context.Context, login, password string) (*in.LoginResponse, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil || !verifyPassword(user.PasswordHash, password) {
		// One failure mode for both, so login probing learns nothing.
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &in.LoginResponse{Token: token, User: user}, nil
}

func (s *Service) Logout(ctx context.Context, tokenID string) error {
	if s.blacklist == nil || tokenID == "" {
		return nil
	}
	// The blacklist entry only needs to outlive the token itself.
	if err := s.blacklist.Revoke(ctx, tokenID, s.tokenTTL); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, userID uuid.UUID, req *in.UpdateUserRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}

	upd := domain.UserUpdate{Name: req.Name}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return fmt.Errorf("%w: invalid email", domain.ErrValidation)
		}
		if existing, err := s.users.GetByEmail(ctx, *req.Email); err != nil {
			return fmt.Errorf("check email: %w", err)
		} else if existing != nil && existing.ID != userID {
			return fmt.Errorf("%w: email already registered", domain.ErrValidation)
		}
		upd.Email = req.Email
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLen {
			return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
		}
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return err
		}
		upd.PasswordHash = &hash
	}
	if upd.Empty() {
		return fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}

	if err := s.users.UpdateUser(ctx, userID, upd); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	logger.Info("deleted user %s", user.Login)
	return nil
}
