package out

import (
	"context"

	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
)

// UserRepository is the persistence port for accounts. Login/email
// uniqueness is enforced by store constraints.
type UserRepository interface {
	// GetByID returns nil, nil when the user does not exist.
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}
