package in

import (
	"context"

	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
)

// TaskService is the task-tree engine exposed to the transport layer.
type TaskService interface {
	// ListTasks returns ordered task views. Without a task id it yields the
	// todolist's roots, or the whole forest in pre-order when expand is set.
	// With a task id it yields the task's children, or its descendants when
	// expand is set.
	ListTasks(ctx context.Context, actor domain.Actor, todolistID uuid.UUID, expand bool, taskID *uuid.UUID) ([]*domain.TaskView, error)

	CreateTask(ctx context.Context, actor domain.Actor, todolistID uuid.UUID, req *CreateTaskRequest) (*domain.TaskView, error)
	UpdateTask(ctx context.Context, actor domain.Actor, todolistID, taskID uuid.UUID, req *UpdateTaskRequest) error
	DeleteTask(ctx context.Context, actor domain.Actor, todolistID, taskID uuid.UUID) error

	// PurgeTasks deletes every done task whose whole subtree is done,
	// evaluated against the pre-purge snapshot.
	PurgeTasks(ctx context.Context, actor domain.Actor, todolistID uuid.UUID) error

	ReparentTask(ctx context.Context, actor domain.Actor, todolistID, taskID uuid.UUID, newParentID *uuid.UUID) error

	// CanReparent runs the structural precheck without mutating anything.
	CanReparent(ctx context.Context, actor domain.Actor, todolistID, taskID uuid.UUID, newParentID *uuid.UUID) (bool, error)
}

// CreateTaskRequest carries the fields of a new task. Status defaults to
// active, priority is the display name.
type CreateTaskRequest struct {
	Label       string     `json:"label"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
}

// UpdateTaskRequest carries optional field updates; absent means unchanged.
type UpdateTaskRequest struct {
	Label       *string `json:"label,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}
