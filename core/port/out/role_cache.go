package out

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RoleCache caches resolved (user, todolist) -> role lookups. Implementations
// must be safe to skip: a miss or error falls through to the store.
type RoleCache interface {
	GetRole(ctx context.Context, userID, todolistID uuid.UUID) (string, bool)
	SetRole(ctx context.Context, userID, todolistID uuid.UUID, role string, ttl time.Duration)
	// InvalidateTodoList drops every cached role for the todolist, used when
	// permissions change.
	InvalidateTodoList(ctx context.Context, todolistID uuid.UUID)
}
