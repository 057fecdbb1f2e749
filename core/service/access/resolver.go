// Package access resolves a user's role on a todolist and gates mutations on
// the role's capability flags.
package access

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
	"github.com/asidlare/todos/core/port/out"
)

const defaultRoleTTL = 5 * time.Minute

// Resolver looks up (user, todolist) roles, caching resolved names.
type Resolver struct {
	lists out.TodoListRepository
	roles out.RoleRepository
	cache out.RoleCache
	ttl   time.Duration
}

// NewResolver creates a resolver. cache may be nil.
func NewResolver(lists out.TodoListRepository, roles out.RoleRepository, cache out.RoleCache) *Resolver {
	return &Resolver{
		lists: lists,
		roles: roles,
		cache: cache,
		ttl:   defaultRoleTTL,
	}
}

// Resolve returns the user's role definition for the todolist, or
// domain.ErrNoAccess when the user holds no role on it.
func (r *Resolver) Resolve(ctx context.Context, userID, todolistID uuid.UUID) (*domain.Role, error) {
	name := ""
	cached := false
	if r.cache != nil {
		name, cached = r.cache.GetRole(ctx, userID, todolistID)
	}
	if !cached {
		var err error
		name, err = r.lists.RoleOf(ctx, userID, todolistID)
		if err != nil {
			return nil, fmt.Errorf("resolve role: %w", err)
		}
		if r.cache != nil {
			r.cache.SetRole(ctx, userID, todolistID, name, r.ttl)
		}
	}
	if name == "" {
		return nil, domain.ErrNoAccess
	}

	role, err := r.roles.GetRole(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load role %q: %w", name, err)
	}
	if role == nil {
		return nil, fmt.Errorf("role %q not defined", name)
	}
	return role, nil
}

// Invalidate drops cached roles for the todolist after a permission change.
func (r *Resolver) Invalidate(ctx context.Context, todolistID uuid.UUID) {
	if r.cache != nil {
		r.cache.InvalidateTodoList(ctx, todolistID)
	}
}

// RequireRead gates read operations: any assigned role may read.
func (r *Resolver) RequireRead(ctx context.Context, userID, todolistID uuid.UUID) (*domain.Role, error) {
	role, err := r.Resolve(ctx, userID, todolistID)
	if err != nil {
		return nil, err
	}
	if !role.Read {
		return nil, domain.ErrForbidden
	}
	return role, nil
}

// RequireChangeData gates task mutations and todolist updates: owner and
// admin may change data, reader is read-only.
func (r *Resolver) RequireChangeData(ctx context.Context, userID, todolistID uuid.UUID) (*domain.Role, error) {
	role, err := r.Resolve(ctx, userID, todolistID)
	if err != nil {
		return nil, err
	}
	if !role.ChangeData {
		return nil, domain.ErrForbidden
	}
	return role, nil
}

// RequireDelete gates todolist deletion: owner only.
func (r *Resolver) RequireDelete(ctx context.Context, userID, todolistID uuid.UUID) (*domain.Role, error) {
	role, err := r.Resolve(ctx, userID, todolistID)
	if err != nil {
		return nil, err
	}
	if !role.Delete {
		return nil, domain.ErrForbidden
	}
	return role, nil
}

// RequireChangePermissions gates membership changes: owner only.
func (r *Resolver) RequireChangePermissions(ctx context.Context, userID, todolistID uuid.UUID) (*domain.Role, error) {
	role, err := r.Resolve(ctx, userID, todolistID)
	if err != nil {
		return nil, err
	}
	if !role.ChangePermissions {
		return nil, domain.ErrForbidden
	}
	return role, nil
}
