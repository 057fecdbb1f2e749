package todolist

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
	"github.com/asidlare/todos/core/port/in"
	"github.com/asidlare/todos/core/service/access"
)

type env struct {
	svc   in.TodoListService
	lists *fakeListRepo
	users *fakeUserRepo
	roles map[string]*domain.Role

	owner  domain.Actor
	admin  domain.Actor
	reader domain.Actor
}

func newEnv(t *testing.T, roles map[string]*domain.Role) *env {
	t.Helper()
	if roles == nil {
		roles = defaultRoles()
	}
	users := newFakeUserRepo()
	lists := newFakeListRepo(users)
	roleRepo := &fakeRoleRepo{roles: roles}
	resolver := access.NewResolver(lists, roleRepo, nil)

	e := &env{
		svc:   NewService(lists, users, roleRepo, resolver),
		lists: lists,
		users: users,
		roles: roles,
	}
	o := users.add("alice", "Alice", "alice@example.com")
	a := users.add("bob", "Bob", "bob@example.com")
	r := users.add("carol", "Carol", "carol@example.com")
	e.owner = domain.Actor{UserID: o.ID, Email: o.Email}
	e.admin = domain.Actor{UserID: a.ID, Email: a.Email}
	e.reader = domain.Actor{UserID: r.ID, Email: r.Email}
	return e
}

func (e *env) createList(t *testing.T, label, priority string) *domain.TodoListView {
	t.Helper()
	view, err := e.svc.CreateTodoList(context.Background(), e.owner, &in.CreateTodoListRequest{
		Label:    label,
		Priority: priority,
	})
	if err != nil {
		t.Fatalf("CreateTodoList(%s): %v", label, err)
	}
	return view
}

func (e *env) grant(t *testing.T, listID uuid.UUID, actor domain.Actor, role string) {
	t.Helper()
	if err := e.lists.SetMemberRole(context.Background(), listID, actor.UserID, role); err != nil {
		t.Fatalf("grant %s: %v", role, err)
	}
}

// =============================================================================
// Create and list
// =============================================================================

func TestCreateTodoList(t *testing.T) {
	e := newEnv(t, nil)

	view := e.createList(t, "Home", "high")
	if view.Role != domain.RoleOwner {
		t.Errorf("creator role %q, want owner", view.Role)
	}
	if view.Status != "active" {
		t.Errorf("status %q, want active default", view.Status)
	}
	if view.TaskCount != 0 {
		t.Errorf("task count %d, want 0", view.TaskCount)
	}
	if len(view.StatusChanges) != 1 || view.StatusChanges[0].Status != "active" {
		t.Errorf("status changes %+v, want one active entry", view.StatusChanges)
	}
	if role, _ := e.lists.RoleOf(context.Background(), e.owner.UserID, view.ID); role != domain.RoleOwner {
		t.Errorf("stored role %q, want owner", role)
	}
}

func TestCreateTodoListCountLimit(t *testing.T) {
	roles := defaultRoles()
	roles[domain.RoleOwner].TodoListCountLimit = intPtr(2)
	e := newEnv(t, roles)

	e.createList(t, "one", "medium")
	e.createList(t, "two", "medium")
	_, err := e.svc.CreateTodoList(context.Background(), e.owner, &in.CreateTodoListRequest{
		Label:    "three",
		Priority: "medium",
	})
	if !errors.Is(err, domain.ErrLimitExceeded) {
		t.Fatalf("got %v, want ErrLimitExceeded", err)
	}
}

func TestCreateTodoListValidation(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		req  in.CreateTodoListRequest
	}{
		{"empty label", in.CreateTodoListRequest{Priority: "medium"}},
		{"bad priority", in.CreateTodoListRequest{Label: "x", Priority: "asap"}},
		{"bad status", in.CreateTodoListRequest{Label: "x", Priority: "medium", Status: "archived"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.svc.CreateTodoList(ctx, e.owner, &tc.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestListTodoListsCanonicalOrder(t *testing.T) {
	e := newEnv(t, nil)
	e.createList(t, "beta", "medium")
	e.createList(t, "alpha", "medium")
	e.createList(t, "urgent", "veryhigh")

	views, err := e.svc.ListTodoLists(context.Background(), e.owner, nil, domain.TodoListFilter{})
	if err != nil {
		t.Fatalf("ListTodoLists: %v", err)
	}
	want := []string{"urgent", "alpha", "beta"}
	if len(views) != len(want) {
		t.Fatalf("got %d lists, want %d", len(views), len(want))
	}
	for i, w := range want {
		if views[i].Label != w {
			t.Errorf("position %d: %q, want %q", i, views[i].Label, w)
		}
		if views[i].Role != domain.RoleOwner {
			t.Errorf("%s: role %q, want owner", w, views[i].Role)
		}
	}
}

func TestListTodoListsFilter(t *testing.T) {
	e := newEnv(t, nil)
	e.createList(t, "keep", "veryhigh")
	e.createList(t, "skip", "low")

	prio := domain.PriorityVeryHigh
	views, err := e.svc.ListTodoLists(context.Background(), e.owner, nil, domain.TodoListFilter{Priority: &prio})
	if err != nil {
		t.Fatalf("ListTodoLists: %v", err)
	}
	if len(views) != 1 || views[0].Label != "keep" {
		t.Fatalf("filtered views: %+v", views)
	}
}

func TestListSingleTodoList(t *testing.T) {
	e := newEnv(t, nil)
	created := e.createList(t, "Home", "high")
	e.grant(t, created.ID, e.reader, domain.RoleReader)

	views, err := e.svc.ListTodoLists(context.Background(), e.reader, &created.ID, domain.TodoListFilter{})
	if err != nil {
		t.Fatalf("ListTodoLists: %v", err)
	}
	if len(views) != 1 || views[0].Role != domain.RoleReader {
		t.Fatalf("views: %+v", views)
	}

	stranger := domain.Actor{UserID: uuid.New()}
	if _, err := e.svc.ListTodoLists(context.Background(), stranger, &created.ID, domain.TodoListFilter{}); !errors.Is(err, domain.ErrNoAccess) {
		t.Fatalf("stranger: got %v, want ErrNoAccess", err)
	}
}

// =============================================================================
// Update and delete
// =============================================================================

func TestUpdateTodoList(t *testing.T) {
	e := newEnv(t, nil)
	created := e.createList(t, "Home", "high")
	e.grant(t, created.ID, e.admin, domain.RoleAdmin)

	status := "inactive"
	label := "Archive"
	if err := e.svc.UpdateTodoList(context.Background(), e.admin, created.ID, &in.UpdateTodoListRequest{
		Label:  &label,
		Status: &status,
	}); err != nil {
		t.Fatalf("UpdateTodoList: %v", err)
	}
	got := e.lists.lists[created.ID]
	if got.Label != "Archive" || got.Status != domain.TodoListStatusInactive {
		t.Fatalf("after update: %+v", got)
	}
	logs := e.lists.logs[created.ID]
	if len(logs) != 2 || logs[0].Status != "inactive" {
		t.Fatalf("audit log %+v, want inactive entry prepended", logs)
	}
}

func TestUpdateTodoListEmpty(t *testing.T) {
	e := newEnv(t, nil)
	created := e.createList(t, "Home", "high")

	err := e.svc.UpdateTodoList(context.Background(), e.owner, created.ID, &in.UpdateTodoListRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestDeleteTodoListOwnerOnly(t *testing.T) {
	e := newEnv(t, nil)
	created := e.createList(t, "Home", "high")
	e.grant(t, created.ID, e.admin, domain.RoleAdmin)
	ctx := context.Background()

	if err := e.svc.DeleteTodoList(ctx, e.admin, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("admin delete: got %v, want ErrForbidden", err)
	}
	if err := e.svc.DeleteTodoList(ctx, e.owner, created.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok := e.lists.lists[created.ID]; ok {
		t.Fatal("todolist survived deletion")
	}
}

// =============================================================================
// Members and permissions
// =============================================================================

func TestMembers(t *testing.T) {
	e := newEnv(t, nil)
	created := e.createList(t, "Home", "high")
	e.grant(t, created.ID, e.admin, domain.RoleAdmin)
	e.grant(t, created.ID, e.reader, domain.RoleReader)

	members, err := e.svc.Members(context.Background(), e.reader, created.ID)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("got %d members, want 3", len(members))
	}
	byRole := map[string]string{}
	for _, m := range members {
		byRole[m.Role] = m.Email
	}
	if byRole[domain.RoleOwner] != "alice@example.com" || byRole[domain.RoleAdmin] != "bob@example.com" {
		t.Fatalf("members by role: %v", byRole)
	}
}

func TestSetPermissionsGrantAndRemove(t *testing.T) {
	e := newEnv(t, nil)
	created := e.createList(t, "Home", "high")
	ctx := context.Background()

	if err := e.svc.SetPermissions(ctx, e.owner, created.ID, &in.SetPermissionsRequest{
		Email: e.admin.Email,
		Role:  domain.RoleAdmin,
	}); err != nil {
		t.Fatalf("grant admin: %v", err)
	}
	if role, _ := e.lists.RoleOf(ctx, e.admin.UserID, created.ID); role != domain.RoleAdmin {
		t.Fatalf("role after grant: %q", role)
	}

	if err := e.svc.SetPermissions(ctx, e.owner, created.ID, &in.SetPermissionsRequest{
		Email: e.admin.Email,
	}); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if role, _ := e.lists.RoleOf(ctx, e.admin.UserID, created.ID); role != "" {
		t.Fatalf("role after removal: %q", role)
	}
}

func TestSetPermissionsOwnerHandover(t *testing.T) {
	e := newEnv(t, nil)
	created := e.createList(t, "Home", "high")
	e.grant(t, created.ID, e.admin, domain.RoleAdmin)
	ctx := context.Background()

	// NewOwnerRole is mandatory on handover.
	err := e.svc.SetPermissions(ctx, e.owner, created.ID, &in.SetPermissionsRequest{
		Email: e.admin.Email,
		Role:  domain.RoleOwner,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("missing new_owner_role: got %v, want ErrValidation", err)
	}

	if err := e.svc.SetPermissions(ctx, e.owner, created.ID, &in.SetPermissionsRequest{
		Email:        e.admin.Email,
		Role:         domain.RoleOwner,
		NewOwnerRole: domain.RoleReader,
	}); err != nil {
		t.Fatalf("handover: %v", err)
	}

	// Exactly one owner, the previous one demoted.
	if role, _ := e.lists.RoleOf(ctx, e.admin.UserID, created.ID); role != domain.RoleOwner {
		t.Fatalf("new owner role: %q", role)
	}
	if role, _ := e.lists.RoleOf(ctx, e.owner.UserID, created.ID); role != domain.RoleReader {
		t.Fatalf("previous owner role: %q", role)
	}
}

func TestSetPermissionsRejectsSelfChange(t *testing.T) {
	e := newEnv(t, nil)
	created := e.createList(t, "Home", "high")

	err := e.svc.SetPermissions(context.Background(), e.owner, created.ID, &in.SetPermissionsRequest{
		Email: e.owner.Email,
		Role:  domain.RoleReader,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestSetPermissionsOwnerOnly(t *testing.T) {
	e := newEnv(t, nil)
	created := e.createList(t, "Home", "high")
	e.grant(t, created.ID, e.admin, domain.RoleAdmin)

	err := e.svc.SetPermissions(context.Background(), e.admin, created.ID, &in.SetPermissionsRequest{
		Email: e.reader.Email,
		Role:  domain.RoleReader,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestSetPermissionsUnknownTargets(t *testing.T) {
	e := newEnv(t, nil)
	created := e.createList(t, "Home", "high")
	ctx := context.Background()

	err := e.svc.SetPermissions(ctx, e.owner, created.ID, &in.SetPermissionsRequest{
		Email: "nobody@example.com",
		Role:  domain.RoleReader,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown user: got %v, want ErrNotFound", err)
	}

	// Removing a user who holds no role is a not-found, not a silent no-op.
	err = e.svc.SetPermissions(ctx, e.owner, created.ID, &in.SetPermissionsRequest{
		Email: e.reader.Email,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("remove non-member: got %v, want ErrNotFound", err)
	}

	err = e.svc.SetPermissions(ctx, e.owner, created.ID, &in.SetPermissionsRequest{
		Email: e.reader.Email,
		Role:  "superuser",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown role: got %v, want ErrValidation", err)
	}
}
