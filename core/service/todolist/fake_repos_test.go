package todolist

import (
	"context"

	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
)

// fakeListRepo is an in-memory TodoListRepository with real membership
// bookkeeping, so the handover path can be exercised end to end.
type fakeListRepo struct {
	lists   map[uuid.UUID]*domain.TodoList
	logs    map[uuid.UUID][]domain.StatusChange
	members map[uuid.UUID]map[uuid.UUID]string // todolist -> user -> role
	users   *fakeUserRepo
}

func newFakeListRepo(users *fakeUserRepo) *fakeListRepo {
	return &fakeListRepo{
		lists:   make(map[uuid.UUID]*domain.TodoList),
		logs:    make(map[uuid.UUID][]domain.StatusChange),
		members: make(map[uuid.UUID]map[uuid.UUID]string),
		users:   users,
	}
}

func (r *fakeListRepo) GetTodoList(_ context.Context, todolistID uuid.UUID) (*domain.TodoList, error) {
	l, ok := r.lists[todolistID]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeListRepo) ListForUser(_ context.Context, userID uuid.UUID, filter domain.TodoListFilter) ([]*domain.TodoList, error) {
	var out []*domain.TodoList
	for id, roles := range r.members {
		if roles[userID] == "" {
			continue
		}
		l := r.lists[id]
		if filter.Label != nil && l.Label != *filter.Label {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && l.Priority != *filter.Priority {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeListRepo) StatusChanges(_ context.Context, todolistID uuid.UUID) ([]domain.StatusChange, error) {
	return append([]domain.StatusChange(nil), r.logs[todolistID]...), nil
}

func (r *fakeListRepo) CreateTodoList(_ context.Context, list *domain.TodoList, entry domain.StatusChange) error {
	cp := *list
	r.lists[list.ID] = &cp
	r.logs[list.ID] = []domain.StatusChange{entry}
	r.members[list.ID] = map[uuid.UUID]string{list.CreatedBy: domain.RoleOwner}
	return nil
}

func (r *fakeListRepo) UpdateTodoList(_ context.Context, todolistID uuid.UUID, upd domain.TodoListUpdate, entry *domain.StatusChange) error {
	l := r.lists[todolistID]
	if upd.Label != nil {
		l.Label = *upd.Label
	}
	if upd.Description != nil {
		if *upd.Description == "" {
			l.Description = nil
		} else {
			l.Description = upd.Description
		}
	}
	if upd.Status != nil {
		l.Status = *upd.Status
	}
	if upd.Priority != nil {
		l.Priority = *upd.Priority
	}
	if entry != nil {
		r.logs[todolistID] = append([]domain.StatusChange{*entry}, r.logs[todolistID]...)
	}
	return nil
}

func (r *fakeListRepo) DeleteTodoList(_ context.Context, todolistID uuid.UUID) error {
	delete(r.lists, todolistID)
	delete(r.logs, todolistID)
	delete(r.members, todolistID)
	return nil
}

func (r *fakeListRepo) RoleOf(_ context.Context, userID, todolistID uuid.UUID) (string, error) {
	return r.members[todolistID][userID], nil
}

func (r *fakeListRepo) Members(_ context.Context, todolistID uuid.UUID) ([]domain.Member, error) {
	var out []domain.Member
	for userID, role := range r.members[todolistID] {
		u := r.users.users[userID]
		m := domain.Member{UserID: userID, Role: role}
		if u != nil {
			m.Login, m.Name, m.Email = u.Login, u.Name, u.Email
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeListRepo) SetMemberRole(_ context.Context, todolistID, userID uuid.UUID, role string) error {
	if role == "" {
		delete(r.members[todolistID], userID)
		return nil
	}
	if r.members[todolistID] == nil {
		r.members[todolistID] = make(map[uuid.UUID]string)
	}
	r.members[todolistID][userID] = role
	return nil
}

func (r *fakeListRepo) SwapOwner(_ context.Context, todolistID, newOwnerID, previousOwnerID uuid.UUID, previousOwnerRole string) error {
	r.members[todolistID][newOwnerID] = domain.RoleOwner
	r.members[todolistID][previousOwnerID] = previousOwnerRole
	return nil
}

func (r *fakeListRepo) OwnedCount(_ context.Context, userID uuid.UUID) (int, error) {
	n := 0
	for _, roles := range r.members {
		if roles[userID] == domain.RoleOwner {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) add(login, name, email string) *domain.User {
	u := &domain.User{ID: uuid.New(), Login: login, Name: name, Email: email}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*domain.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Login == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *domain.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, userID uuid.UUID, upd domain.UserUpdate) error {
	u := r.users[userID]
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, userID uuid.UUID) error {
	delete(r.users, userID)
	return nil
}

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
