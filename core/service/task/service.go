// Package task implements the task-tree mutation engine: creation, updates,
// deletion, purge and reparenting of tasks with limit enforcement and
// consistent depth/count caches.
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
	"github.com/asidlare/todos/core/port/in"
	"github.com/asidlare/todos/core/port/out"
	"github.com/asidlare/todos/core/service/access"
	"github.com/asidlare/todos/core/service/tree"
	"github.com/asidlare/todos/pkg/logger"
)

// Service implements in.TaskService.
type Service struct {
	tasks  out.TaskRepository
	access *access.Resolver
}

// NewService creates the task service.
func NewService(tasks out.TaskRepository, resolver *access.Resolver) in.TaskService {
	return &Service{tasks: tasks, access: resolver}
}

func (s *Service) forest(ctx context.Context, todolistID uuid.UUID) (*tree.Forest, error) {
	snapshot, err := s.tasks.ListByTodoList(ctx, todolistID)
	if err != nil {
		return nil, fmt.Errorf("load task forest: %w", err)
	}
	return tree.Build(snapshot), nil
}

// =============================================================================
// Reads
// =============================================================================

func (s *Service) ListTasks(ctx context.Context, actor domain.Actor, todolistID uuid.UUID, expand bool, taskID *uuid.UUID) ([]*domain.TaskView, error) {
	if _, err := s.access.RequireRead(ctx, actor.UserID, todolistID); err != nil {
		return nil, err
	}

	f, err := s.forest(ctx, todolistID)
	if err != nil {
		return nil, err
	}

	var selected []*domain.Task
	if taskID != nil {
		if _, ok := f.Task(*taskID); !ok {
			return nil, domain.ErrNotFound
		}
		if expand {
			selected = f.Descendants(*taskID)
		} else {
			selected = f.Children(*taskID)
		}
	} else {
		roots := f.Roots()
		if len(roots) == 0 {
			return []*domain.TaskView{}, nil
		}
		if expand {
			selected = f.ExpandFrom(roots[0].ID)
		} else {
			selected = roots
		}
	}

	logs, err := s.tasks.StatusChangesByTodoList(ctx, todolistID)
	if err != nil {
		return nil, fmt.Errorf("load status changes: %w", err)
	}

	views := make([]*domain.TaskView, len(selected))
	for i, t := range selected {
		views[i] = viewOf(t, f, logs[t.ID])
	}
	return views, nil
}

func viewOf(t *domain.Task, f *tree.Forest, changes []domain.StatusChange) *domain.TaskView {
	if changes == nil {
		changes = []domain.StatusChange{}
	}
	return &domain.TaskView{
		ID:            t.ID,
		TodoListID:    t.TodoListID,
		ParentID:      t.ParentID,
		Label:         t.Label,
		Description:   t.Description,
		Status:        string(t.Status),
		Priority:      t.Priority.Name(),
		Depth:         f.Depth(t.ID),
		IsLeaf:        f.IsLeaf(t.ID),
		CreatedTS:     t.CreatedTS,
		StatusChanges: changes,
	}
}

// =============================================================================
// Mutations
// =============================================================================

func (s *Service) CreateTask(ctx context.Context, actor domain.Actor, todolistID uuid.UUID, req *in.CreateTaskRequest) (*domain.TaskView, error) {
	role, err := s.access.RequireChangeData(ctx, actor.UserID, todolistID)
	if err != nil {
		return nil, err
	}

	if req.Label == "" {
		return nil, fmt.Errorf("%w: label is required", domain.ErrValidation)
	}
	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	status := domain.TaskStatusActive
	if req.Status != "" {
		if status, err = domain.ParseTaskStatus(req.Status); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	depth := 0
	if req.ParentID != nil {
		parent, err := s.tasks.GetTask(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("load parent: %w", err)
		}
		if parent == nil || parent.TodoListID != todolistID {
			return nil, domain.ErrNotFound
		}
		depth = parent.Depth + 1
	}

	count, err := s.tasks.TaskCount(ctx, todolistID)
	if err != nil {
		return nil, fmt.Errorf("load task count: %w", err)
	}
	if role.TaskCountLimit != nil && count+1 > *role.TaskCountLimit {
		logger.Warn("task count limit (%d) exceeded for todolist %s", *role.TaskCountLimit, todolistID)
		return nil, domain.ErrLimitExceeded
	}
	if role.TaskDepthLimit != nil && depth > *role.TaskDepthLimit {
		logger.Warn("task depth limit (%d) exceeded for todolist %s", *role.TaskDepthLimit, todolistID)
		return nil, domain.ErrLimitExceeded
	}

	now := time.Now().UTC()
	t := &domain.Task{
		ID:          uuid.New(),
		TodoListID:  todolistID,
		ParentID:    req.ParentID,
		Label:       req.Label,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		Depth:       depth,
		CreatedTS:   now,
	}
	entry := domain.StatusChange{ChangedBy: actor.UserID, ChangeTS: now, Status: string(status)}

	if err := s.tasks.CreateTask(ctx, t, entry); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return &domain.TaskView{
		ID:            t.ID,
		TodoListID:    t.TodoListID,
		ParentID:      t.ParentID,
		Label:         t.Label,
		Description:   t.Description,
		Status:        string(t.Status),
		Priority:      t.Priority.Name(),
		Depth:         t.Depth,
		IsLeaf:        true,
		CreatedTS:     t.CreatedTS,
		StatusChanges: []domain.StatusChange{entry},
	}, nil
}

func (s *Service) UpdateTask(ctx context.Context, actor domain.Actor, todolistID, taskID uuid.UUID, req *in.UpdateTaskRequest) error {
	if _, err := s.access.RequireChangeData(ctx, actor.UserID, todolistID); err != nil {
		return err
	}

	t, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("load task: %w", err)
	}
	if t == nil || t.TodoListID != todolistID {
		return domain.ErrNotFound
	}

	upd := domain.TaskUpdate{
		Label:       req.Label,
		Description: req.Description,
	}
	if req.Priority != nil {
		p, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		upd.Priority = &p
	}
	if req.Status != nil {
		st, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		upd.Status = &st
	}
	if upd.Empty() {
		return fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}

	// A task may only be set to done once its whole subtree is done.
	if upd.Status != nil && *upd.Status == domain.TaskStatusDone {
		f, err := s.forest(ctx, todolistID)
		if err != nil {
			return err
		}
		for _, d := range f.Descendants(taskID) {
			if d.Status != domain.TaskStatusDone {
				return domain.ErrDescendantsNotDone
			}
		}
	}

	var entry *domain.StatusChange
	if upd.Status != nil {
		entry = &domain.StatusChange{
			ChangedBy: actor.UserID,
			ChangeTS:  time.Now().UTC(),
			Status:    string(*upd.Status),
		}
	}

	if err := s.tasks.UpdateTask(ctx, taskID, upd, entry); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *Service) DeleteTask(ctx context.Context, actor domain.Actor, todolistID, taskID uuid.UUID) error {
	if _, err := s.access.RequireChangeData(ctx, actor.UserID, todolistID); err != nil {
		return err
	}

	t, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("load task: %w", err)
	}
	if t == nil || t.TodoListID != todolistID {
		return domain.ErrNotFound
	}

	if err := s.tasks.DeleteTask(ctx, todolistID, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// PurgeTasks deletes every done task whose subtree is entirely done. Each
// candidate is judged against the pre-purge snapshot; deletion cascades take
// the subtree with the topmost purged ancestor.
func (s *Service) PurgeTasks(ctx context.Context, actor domain.Actor, todolistID uuid.UUID) error {
	if _, err := s.access.RequireChangeData(ctx, actor.UserID, todolistID); err != nil {
		return err
	}

	f, err := s.forest(ctx, todolistID)
	if err != nil {
		return err
	}

	var victims []uuid.UUID
	for _, t := range f.Walk() {
		if t.Status != domain.TaskStatusDone {
			continue
		}
		if f.IsLeaf(t.ID) || allDone(f.Descendants(t.ID)) {
			victims = append(victims, t.ID)
		}
	}
	if len(victims) == 0 {
		return nil
	}

	if err := s.tasks.DeleteTasks(ctx, todolistID, victims); err != nil {
		return fmt.Errorf("purge tasks: %w", err)
	}
	return nil
}

func allDone(tasks []*domain.Task) bool {
	for _, t := range tasks {
		if t.Status != domain.TaskStatusDone {
			return false
		}
	}
	return true
}

func (s *Service) ReparentTask(ctx context.Context, actor domain.Actor, todolistID, taskID uuid.UUID, newParentID *uuid.UUID) error {
	role, err := s.access.RequireChangeData(ctx, actor.UserID, todolistID)
	if err != nil {
		return err
	}

	f, err := s.forest(ctx, todolistID)
	if err != nil {
		return err
	}
	if !canReparent(f, taskID, newParentID) {
		return domain.ErrNotPossible
	}

	newDepth := 0
	if newParentID != nil {
		newDepth = f.Depth(*newParentID) + 1
	}
	if role.TaskDepthLimit != nil && newDepth > *role.TaskDepthLimit {
		logger.Warn("task depth limit (%d) exceeded for todolist %s", *role.TaskDepthLimit, todolistID)
		return domain.ErrLimitExceeded
	}

	// Shift the whole moved subtree and verify the limit for every node
	// before anything is written.
	shift := newDepth - f.Depth(taskID)
	depths := map[uuid.UUID]int{taskID: newDepth}
	for _, d := range f.Descendants(taskID) {
		shifted := f.Depth(d.ID) + shift
		if role.TaskDepthLimit != nil && shifted > *role.TaskDepthLimit {
			logger.Warn("task depth limit (%d) exceeded for todolist %s", *role.TaskDepthLimit, todolistID)
			return domain.ErrLimitExceeded
		}
		depths[d.ID] = shifted
	}

	if err := s.tasks.Reparent(ctx, taskID, newParentID, depths); err != nil {
		return fmt.Errorf("reparent task: %w", err)
	}
	return nil
}

func (s *Service) CanReparent(ctx context.Context, actor domain.Actor, todolistID, taskID uuid.UUID, newParentID *uuid.UUID) (bool, error) {
	if _, err := s.access.RequireRead(ctx, actor.UserID, todolistID); err != nil {
		return false, err
	}
	f, err := s.forest(ctx, todolistID)
	if err != nil {
		return false, err
	}
	return canReparent(f, taskID, newParentID), nil
}

// canReparent is the structural precheck: the task must exist, the target
// must exist when given, moving to the current slot is rejected (including
// root to root), and the target must not lie in the task's own subtree.
func canReparent(f *tree.Forest, taskID uuid.UUID, newParentID *uuid.UUID) bool {
	if taskID == uuid.Nil {
		return false
	}
	if newParentID != nil && *newParentID == taskID {
		return false
	}
	t, ok := f.Task(taskID)
	if !ok {
		return false
	}
	if newParentID == nil {
		// Moving to root is always possible structurally, unless the task
		// already is a root.
		return t.ParentID != nil
	}
	if _, ok := f.Task(*newParentID); !ok {
		return false
	}
	if t.ParentID != nil && *t.ParentID == *newParentID {
		return false
	}
	return !f.IsDescendant(taskID, *newParentID)
}
