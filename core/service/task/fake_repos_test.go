package task

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
)

// fakeTaskRepo is an in-memory TaskRepository. Deletes cascade through the
// parent linkage the way the foreign keys do in the real store.
type fakeTaskRepo struct {
	tasks map[uuid.UUID]*domain.Task
	logs  map[uuid.UUID][]domain.StatusChange
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks: make(map[uuid.UUID]*domain.Task),
		logs:  make(map[uuid.UUID][]domain.StatusChange),
	}
}

func (r *fakeTaskRepo) GetTask(_ context.Context, taskID uuid.UUID) (*domain.Task, error) {
	t, ok := r.tasks[taskID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) ListByTodoList(_ context.Context, todolistID uuid.UUID) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.TodoListID == todolistID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) StatusChanges(_ context.Context, taskID uuid.UUID) ([]domain.StatusChange, error) {
	return append([]domain.StatusChange(nil), r.logs[taskID]...), nil
}

func (r *fakeTaskRepo) StatusChangesByTodoList(_ context.Context, todolistID uuid.UUID) (map[uuid.UUID][]domain.StatusChange, error) {
	out := make(map[uuid.UUID][]domain.StatusChange)
	for id, t := range r.tasks {
		if t.TodoListID == todolistID {
			out[id] = append([]domain.StatusChange(nil), r.logs[id]...)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) CreateTask(_ context.Context, task *domain.Task, entry domain.StatusChange) error {
	cp := *task
	r.tasks[task.ID] = &cp
	r.logs[task.ID] = []domain.StatusChange{entry}
	return nil
}

func (r *fakeTaskRepo) UpdateTask(_ context.Context, taskID uuid.UUID, upd domain.TaskUpdate, entry *domain.StatusChange) error {
	t := r.tasks[taskID]
	if upd.Label != nil {
		t.Label = *upd.Label
	}
	if upd.Description != nil {
		if *upd.Description == "" {
			t.Description = nil
		} else {
			t.Description = upd.Description
		}
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	if entry != nil {
		// Newest first, like the adapter's ORDER BY change_ts DESC.
		r.logs[taskID] = append([]domain.StatusChange{*entry}, r.logs[taskID]...)
	}
	return nil
}

func (r *fakeTaskRepo) DeleteTask(_ context.Context, _ uuid.UUID, taskID uuid.UUID) error {
	r.deleteSubtree(taskID)
	return nil
}

func (r *fakeTaskRepo) DeleteTasks(_ context.Context, _ uuid.UUID, taskIDs []uuid.UUID) error {
	for _, id := range taskIDs {
		r.deleteSubtree(id)
	}
	return nil
}

func (r *fakeTaskRepo) deleteSubtree(taskID uuid.UUID) {
	for id, t := range r.tasks {
		if t.ParentID != nil && *t.ParentID == taskID {
			r.deleteSubtree(id)
		}
	}
	delete(r.tasks, taskID)
	delete(r.logs, taskID)
}

func (r *fakeTaskRepo) Reparent(_ context.Context, taskID uuid.UUID, newParentID *uuid.UUID, depths map[uuid.UUID]int) error {
	t := r.tasks[taskID]
	t.ParentID = newParentID
	for id, d := range depths {
		r.tasks[id].Depth = d
	}
	return nil
}

func (r *fakeTaskRepo) TaskCount(_ context.Context, todolistID uuid.UUID) (int, error) {
	n := 0
	for _, t := range r.tasks {
		if t.TodoListID == todolistID {
			n++
		}
	}
	return n, nil
}

// fakeListRepo carries only the role associations the resolver needs.
type fakeListRepo struct {
	roles map[uuid.UUID]map[uuid.UUID]string // todolist -> user -> role
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{roles: make(map[uuid.UUID]map[uuid.UUID]string)}
}

func (r *fakeListRepo) grant(todolistID, userID uuid.UUID, role string) {
	if r.roles[todolistID] == nil {
		r.roles[todolistID] = make(map[uuid.UUID]string)
	}
	r.roles[todolistID][userID] = role
}

func (r *fakeListRepo) GetTodoList(context.Context, uuid.UUID) (*domain.TodoList, error) {
	return nil, nil
}

func (r *fakeListRepo) ListForUser(context.Context, uuid.UUID, domain.TodoListFilter) ([]*domain.TodoList, error) {
	return nil, nil
}

func (r *fakeListRepo) StatusChanges(context.Context, uuid.UUID) ([]domain.StatusChange, error) {
	return nil, nil
}

func (r *fakeListRepo) CreateTodoList(context.Context, *domain.TodoList, domain.StatusChange) error {
	return nil
}

func (r *fakeListRepo) UpdateTodoList(context.Context, uuid.UUID, domain.TodoListUpdate, *domain.StatusChange) error {
	return nil
}

func (r *fakeListRepo) DeleteTodoList(context.Context, uuid.UUID) error { return nil }

func (r *fakeListRepo) RoleOf(_ context.Context, userID, todolistID uuid.UUID) (string, error) {
	return r.roles[todolistID][userID], nil
}

func (r *fakeListRepo) Members(context.Context, uuid.UUID) ([]domain.Member, error) {
	return nil, nil
}

func (r *fakeListRepo) SetMemberRole(context.Context, uuid.UUID, uuid.UUID, string) error {
	return nil
}

func (r *fakeListRepo) SwapOwner(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, string) error {
	return nil
}

func (r *fakeListRepo) OwnedCount(context.Context, uuid.UUID) (int, error) { return 0, nil }

// fakeRoleRepo serves static role definitions.
type fakeRoleRepo struct {
	roles map[string]*domain.Role
}

func (r *fakeRoleRepo) GetRole(_ context.Context, name string) (*domain.Role, error) {
	return r.roles[name], nil
}

func intPtr(n int) *int { return &n }

func defaultRoles() map[string]*domain.Role {
	return map[string]*domain.Role{
		domain.RoleOwner: {
			Name:               domain.RoleOwner,
			ChangeOwner:        true,
			Delete:             true,
			ChangePermissions:  true,
			ChangeData:         true,
			Read:               true,
			TaskCountLimit:     intPtr(100),
			TaskDepthLimit:     intPtr(10),
			TodoListCountLimit: intPtr(10),
		},
		domain.RoleAdmin: {
			Name:           domain.RoleAdmin,
			ChangeData:     true,
			Read:           true,
			TaskCountLimit: intPtr(80),
			TaskDepthLimit: intPtr(8),
		},
		domain.RoleReader: {
			Name: domain.RoleReader,
			Read: true,
		},
	}
}

func ts(base time.Time, offset int) time.Time {
	return base.Add(time.Duration(offset) * time.Second)
}
