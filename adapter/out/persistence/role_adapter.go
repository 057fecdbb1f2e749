package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/asidlare/todos/core/domain"
	"github.com/asidlare/todos/core/port/out"
)

// RoleRepository implements out.RoleRepository over the static roles table.
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *sqlx.DB) out.RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetRole(ctx context.Context, name string) (*domain.Role, error) {
	query := `
		SELECT role, change_owner, "delete", change_permissions, change_data, "read",
		       task_count_limit, task_depth_limit, todolist_count_limit
		FROM roles
		WHERE role = $1`

	var row roleRow
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return row.toDomain(), nil
}

type roleRow struct {
	Role               string        `db:"role"`
	ChangeOwner        bool          `db:"change_owner"`
	Delete             bool          `db:"delete"`
	ChangePermissions  bool          `db:"change_permissions"`
	ChangeData         bool          `db:"change_data"`
	Read               bool          `db:"read"`
	TaskCountLimit     sql.NullInt64 `db:"task_count_limit"`
	TaskDepthLimit     sql.NullInt64 `db:"task_depth_limit"`
	TodoListCountLimit sql.NullInt64 `db:"todolist_count_limit"`
}

func (r *roleRow) toDomain() *domain.Role {
	role := &domain.Role{
		Name:              r.Role,
		ChangeOwner:       r.ChangeOwner,
		Delete:            r.Delete,
		ChangePermissions: r.ChangePermissions,
		ChangeData:        r.ChangeData,
		Read:              r.Read,
	}
	if r.TaskCountLimit.Valid {
		n := int(r.TaskCountLimit.Int64)
		role.TaskCountLimit = &n
	}
	if r.TaskDepthLimit.Valid {
		n := int(r.TaskDepthLimit.Int64)
		role.TaskDepthLimit = &n
	}
	if r.TodoListCountLimit.Valid {
		n := int(r.TodoListCountLimit.Int64)
		role.TodoListCountLimit = &n
	}
	return role
}
