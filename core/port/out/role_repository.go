package out

import (
	"context"

	"github.com/asidlare/todos/core/domain"
)

// RoleRepository reads the static role definitions (capabilities + limits).
type RoleRepository interface {
	// GetRole returns nil, nil when the role is not defined.
	GetRole(ctx context.Context, name string) (*domain.Role, error)
}
