// Package todolist implements todolist lifecycle, listing and the permission
// handover rules.
package todolist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
	"github.com/asidlare/todos/core/port/in"
	"github.com/asidlare/todos/core/port/out"
	"github.com/asidlare/todos/core/service/access"
	"github.com/asidlare/todos/pkg/logger"
)

// Service implements in.TodoListService.
type Service struct {
	lists  out.TodoListRepository
	users  out.UserRepository
	roles  out.RoleRepository
	access *access.Resolver
}

// NewService creates the todolist service.
func NewService(lists out.TodoListRepository, users out.UserRepository, roles out.RoleRepository, resolver *access.Resolver) in.TodoListService {
	return &Service{lists: lists, users: users, roles: roles, access: resolver}
}

func (s *Service) ListTodoLists(ctx context.Context, actor domain.Actor, todolistID *uuid.UUID, filter domain.TodoListFilter) ([]*domain.TodoListView, error) {
	if todolistID != nil {
		role, err := s.access.RequireRead(ctx, actor.UserID, *todolistID)
		if err != nil {
			return nil, err
		}
		list, err := s.lists.GetTodoList(ctx, *todolistID)
		if err != nil {
			return nil, fmt.Errorf("load todolist: %w", err)
		}
		if list == nil {
			return nil, domain.ErrNotFound
		}
		view, err := s.viewOf(ctx, list, role.Name)
		if err != nil {
			return nil, err
		}
		return []*domain.TodoListView{view}, nil
	}

	lists, err := s.lists.ListForUser(ctx, actor.UserID, filter)
	if err != nil {
		return nil, fmt.Errorf("list todolists: %w", err)
	}
	domain.SortTodoLists(lists)

	views := make([]*domain.TodoListView, 0, len(lists))
	for _, list := range lists {
		role, err := s.lists.RoleOf(ctx, actor.UserID, list.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve role: %w", err)
		}
		view, err := s.viewOf(ctx, list, role)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) viewOf(ctx context.Context, list *domain.TodoList, role string) (*domain.TodoListView, error) {
	changes, err := s.lists.StatusChanges(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("load status changes: %w", err)
	}
	if changes == nil {
		changes = []domain.StatusChange{}
	}
	return &domain.TodoListView{
		ID:            list.ID,
		Label:         list.Label,
		Description:   list.Description,
		Status:        string(list.Status),
		Priority:      list.Priority.Name(),
		CreatedBy:     list.CreatedBy,
		CreatedTS:     list.CreatedTS,
		TaskCount:     list.TaskCount,
		Role:          role,
		StatusChanges: changes,
	}, nil
}

func (s *Service) CreateTodoList(ctx context.Context, actor domain.Actor, req *in.CreateTodoListRequest) (*domain.TodoListView, error) {
	if req.Label == "" {
		return nil, fmt.Errorf("%w: label is required", domain.ErrValidation)
	}
	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	status := domain.TodoListStatusActive
	if req.Status != "" {
		if status, err = domain.ParseTodoListStatus(req.Status); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	// The creator becomes the owner, so the owner role's quota applies.
	ownerRole, err := s.roles.GetRole(ctx, domain.RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("load owner role: %w", err)
	}
	if ownerRole != nil && ownerRole.TodoListCountLimit != nil {
		owned, err := s.lists.OwnedCount(ctx, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("load owned count: %w", err)
		}
		if owned+1 > *ownerRole.TodoListCountLimit {
			logger.Warn("todolist count limit (%d) exceeded for user %s", *ownerRole.TodoListCountLimit, actor.UserID)
			return nil, domain.ErrLimitExceeded
		}
	}

	now := time.Now().UTC()
	list := &domain.TodoList{
		ID:          uuid.New(),
		Label:       req.Label,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		CreatedBy:   actor.UserID,
		CreatedTS:   now,
	}
	entry := domain.StatusChange{ChangedBy: actor.UserID, ChangeTS: now, Status: string(status)}

	if err := s.lists.CreateTodoList(ctx, list, entry); err != nil {
		return nil, fmt.Errorf("create todolist: %w", err)
	}

	return &domain.TodoListView{
		ID:            list.ID,
		Label:         list.Label,
		Description:   list.Description,
		Status:        string(list.Status),
		Priority:      list.Priority.Name(),
		CreatedBy:     list.CreatedBy,
		CreatedTS:     list.CreatedTS,
		TaskCount:     0,
		Role:          domain.RoleOwner,
		StatusChanges: []domain.StatusChange{entry},
	}, nil
}

func (s *Service) UpdateTodoList(ctx context.Context, actor domain.Actor, todolistID uuid.UUID, req *in.UpdateTodoListRequest) error {
	if _, err := s.access.RequireChangeData(ctx, actor.UserID, todolistID); err != nil {
		return err
	}
	list, err := s.lists.GetTodoList(ctx, todolistID)
	if err != nil {
		return fmt.Errorf("load todolist: %w", err)
	}
	if list == nil {
		return domain.ErrNotFound
	}

	upd := domain.TodoListUpdate{
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
		st, err := domain.ParseTodoListStatus(*req.Status)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		upd.Status = &st
	}
	if upd.Empty() {
		return fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}

	var entry *domain.StatusChange
	if upd.Status != nil {
		entry = &domain.StatusChange{
			ChangedBy: actor.UserID,
			ChangeTS:  time.Now().UTC(),
			Status:    string(*upd.Status),
		}
	}

	if err := s.lists.UpdateTodoList(ctx, todolistID, upd, entry); err != nil {
		return fmt.Errorf("update todolist: %w", err)
	}
	return nil
}

func (s *Service) DeleteTodoList(ctx context.Context, actor domain.Actor, todolistID uuid.UUID) error {
	if _, err := s.access.RequireDelete(ctx, actor.UserID, todolistID); err != nil {
		return err
	}
	list, err := s.lists.GetTodoList(ctx, todolistID)
	if err != nil {
		return fmt.Errorf("load todolist: %w", err)
	}
	if list == nil {
		return domain.ErrNotFound
	}

	if err := s.lists.DeleteTodoList(ctx, todolistID); err != nil {
		return fmt.Errorf("delete todolist: %w", err)
	}
	s.access.Invalidate(ctx, todolistID)
	return nil
}

func (s *Service) Members(ctx context.Context, actor domain.Actor, todolistID uuid.UUID) ([]domain.Member, error) {
	if _, err := s.access.RequireRead(ctx, actor.UserID, todolistID); err != nil {
		return nil, err
	}
	members, err := s.lists.Members(ctx, todolistID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// SetPermissions grants, changes or removes the target's role. Handing over
// ownership is the one path that touches two associations: the target becomes
// the owner and the acting owner drops to NewOwnerRole in the same operation,
// so exactly one owner exists at every point.
func (s *Service) SetPermissions(ctx context.Context, actor domain.Actor, todolistID uuid.UUID, req *in.SetPermissionsRequest) error {
	if _, err := s.access.RequireChangePermissions(ctx, actor.UserID, todolistID); err != nil {
		return err
	}

	if req.Email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	target, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if target == nil {
		return domain.ErrNotFound
	}
	if target.ID == actor.UserID {
		return fmt.Errorf("%w: cannot change own permissions", domain.ErrValidation)
	}

	switch {
	case req.Role == "":
		current, err := s.lists.RoleOf(ctx, target.ID, todolistID)
		if err != nil {
			return fmt.Errorf("resolve role: %w", err)
		}
		if current == "" {
			return domain.ErrNotFound
		}
		if err := s.lists.SetMemberRole(ctx, todolistID, target.ID, ""); err != nil {
			return fmt.Errorf("remove member: %w", err)
		}

	case req.Role == domain.RoleOwner:
		if !domain.ValidRoleName(req.NewOwnerRole) || req.NewOwnerRole == domain.RoleOwner {
			return fmt.Errorf("%w: new_owner_role must be admin or reader", domain.ErrValidation)
		}
		if err := s.lists.SwapOwner(ctx, todolistID, target.ID, actor.UserID, req.NewOwnerRole); err != nil {
			return fmt.Errorf("hand over ownership: %w", err)
		}

	default:
		if !domain.ValidRoleName(req.Role) {
			return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, req.Role)
		}
		if err := s.lists.SetMemberRole(ctx, todolistID, target.ID, req.Role); err != nil {
			return fmt.Errorf("set member role: %w", err)
		}
	}

	s.access.Invalidate(ctx, todolistID)
	return nil
}
