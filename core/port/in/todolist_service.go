package in

import (
	"context"

	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
)

// TodoListService manages todolists, their listing and their permissions.
type TodoListService interface {
	// ListTodoLists returns either the single todolist (todolistID set) or
	// every todolist the actor holds a role on, in canonical order.
	ListTodoLists(ctx context.Context, actor domain.Actor, todolistID *uuid.UUID, filter domain.TodoListFilter) ([]*domain.TodoListView, error)

	CreateTodoList(ctx context.Context, actor domain.Actor, req *CreateTodoListRequest) (*domain.TodoListView, error)
	UpdateTodoList(ctx context.Context, actor domain.Actor, todolistID uuid.UUID, req *UpdateTodoListRequest) error
	DeleteTodoList(ctx context.Context, actor domain.Actor, todolistID uuid.UUID) error

	// Members lists the todolist's (user, role) associations.
	Members(ctx context.Context, actor domain.Actor, todolistID uuid.UUID) ([]domain.Member, error)

	// SetPermissions grants, changes or removes (empty role) the target
	// user's role. Granting owner demotes the acting owner to
	// NewOwnerRole, which is then required. Changing one's own permissions
	// is rejected.
	SetPermissions(ctx context.Context, actor domain.Actor, todolistID uuid.UUID, req *SetPermissionsRequest) error
}

// CreateTodoListRequest carries the fields of a new todolist. Status
// defaults to active, priority is the display name.
type CreateTodoListRequest struct {
	Label       string  `json:"label"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Priority    string  `json:"priority"`
}

// UpdateTodoListRequest carries optional field updates.
type UpdateTodoListRequest struct {
	Label       *string `json:"label,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// SetPermissionsRequest targets a member by email. An empty Role removes the
// membership. NewOwnerRole is required when Role is owner.
type SetPermissionsRequest struct {
	Email        string `json:"email"`
	Role         string `json:"role,omitempty"`
	NewOwnerRole string `json:"new_owner_role,omitempty"`
}
