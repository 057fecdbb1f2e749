package out

import (
	"context"

	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
)

// TaskRepository is the persistence port for tasks. Every mutating method
// runs as one atomic transaction: the task rows, the depth cache, the live
// count cache and the status log move together or not at all.
type TaskRepository interface {
	// GetTask returns nil, nil when the task does not exist.
	GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)

	// ListByTodoList returns every task of the todolist with cached depths.
	ListByTodoList(ctx context.Context, todolistID uuid.UUID) ([]*domain.Task, error)

	// StatusChanges returns the audit log for one task, newest first.
	StatusChanges(ctx context.Context, taskID uuid.UUID) ([]domain.StatusChange, error)

	// StatusChangesByTodoList returns audit logs for every task of the
	// todolist, newest first per task.
	StatusChangesByTodoList(ctx context.Context, todolistID uuid.UUID) (map[uuid.UUID][]domain.StatusChange, error)

	// CreateTask inserts the task with its depth row, appends the initial
	// status log entry and bumps the todolist's task count.
	CreateTask(ctx context.Context, task *domain.Task, entry domain.StatusChange) error

	// UpdateTask applies the field updates; entry is appended when non-nil.
	UpdateTask(ctx context.Context, taskID uuid.UUID, upd domain.TaskUpdate, entry *domain.StatusChange) error

	// DeleteTask removes the task; descendants go with it via the cascading
	// parent linkage. The live count is recomputed in the same transaction.
	DeleteTask(ctx context.Context, todolistID, taskID uuid.UUID) error

	// DeleteTasks bulk-deletes the given tasks of one todolist and
	// recomputes the live count.
	DeleteTasks(ctx context.Context, todolistID uuid.UUID, taskIDs []uuid.UUID) error

	// Reparent rewrites the task's parent linkage and persists the supplied
	// depth values for the moved subtree.
	Reparent(ctx context.Context, taskID uuid.UUID, newParentID *uuid.UUID, depths map[uuid.UUID]int) error

	// TaskCount returns the cached live task count of the todolist.
	TaskCount(ctx context.Context, todolistID uuid.UUID) (int, error)
}
