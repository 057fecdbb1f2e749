package out

import (
	"context"

	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
)

// TodoListRepository is the persistence port for todolists, their creator
// record and the (user, role) associations.
type TodoListRepository interface {
	// GetTodoList returns nil, nil when the todolist does not exist.
	GetTodoList(ctx context.Context, todolistID uuid.UUID) (*domain.TodoList, error)

	// ListForUser returns every todolist the user holds a role on, narrowed
	// by the filter.
	ListForUser(ctx context.Context, userID uuid.UUID, filter domain.TodoListFilter) ([]*domain.TodoList, error)

	// StatusChanges returns the todolist's audit log, newest first.
	StatusChanges(ctx context.Context, todolistID uuid.UUID) ([]domain.StatusChange, error)

	// CreateTodoList inserts the todolist together with its creator record,
	// the creator's owner association, the zeroed task count and the initial
	// status log entry.
	CreateTodoList(ctx context.Context, list *domain.TodoList, entry domain.StatusChange) error

	UpdateTodoList(ctx context.Context, todolistID uuid.UUID, upd domain.TodoListUpdate, entry *domain.StatusChange) error

	// DeleteTodoList removes the todolist; tasks, counts and logs cascade.
	DeleteTodoList(ctx context.Context, todolistID uuid.UUID) error

	// RoleOf returns the user's role name on the todolist, "" when none.
	RoleOf(ctx context.Context, userID, todolistID uuid.UUID) (string, error)

	// Members lists the todolist's (user, role) associations.
	Members(ctx context.Context, todolistID uuid.UUID) ([]domain.Member, error)

	// SetMemberRole replaces the target user's association; an empty role
	// removes the membership.
	SetMemberRole(ctx context.Context, todolistID, userID uuid.UUID, role string) error

	// SwapOwner atomically makes newOwner the owner and re-associates the
	// previous owner under previousOwnerRole, keeping exactly one owner.
	SwapOwner(ctx context.Context, todolistID, newOwnerID, previousOwnerID uuid.UUID, previousOwnerRole string) error

	// OwnedCount returns how many todolists the user owns.
	OwnedCount(ctx context.Context, userID uuid.UUID) (int, error)
}
