package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/asidlare/todos/core/domain"
	"github.com/asidlare/todos/core/port/out"
)

// TodoListRepository implements out.TodoListRepository
type TodoListRepository struct {
	db *sqlx.DB
}

// NewTodoListRepository creates a new TodoListRepository
func NewTodoListRepository(db *sqlx.DB) out.TodoListRepository {
	return &TodoListRepository{db: db}
}

const todolistColumns = `
	l.todolist_id, l.label, l.description, l.status, l.priority, l.created_ts,
	c.created_by, n.task_count`

func (r *TodoListRepository) GetTodoList(ctx context.Context, todolistID uuid.UUID) (*domain.TodoList, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM todolists l
		JOIN todolist_creators c ON c.todolist_id = l.todolist_id
		JOIN task_counts n ON n.todolist_id = l.todolist_id
		WHERE l.todolist_id = $1`, todolistColumns)

	var row todolistRow
	if err := r.db.GetContext(ctx, &row, query, todolistID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get todolist: %w", err)
	}

	return row.toDomain(), nil
}

func (r *TodoListRepository) ListForUser(ctx context.Context, userID uuid.UUID, filter domain.TodoListFilter) ([]*domain.TodoList, error) {
	conditions := []string{"u.user_id = $1"}
	args := []interface{}{userID}
	argIdx := 2

	if filter.Label != nil {
		conditions = append(conditions, fmt.Sprintf("l.label = $%d", argIdx))
		args = append(args, *filter.Label)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("l.priority = $%d", argIdx))
		args = append(args, *filter.Priority)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM todolists l
		JOIN todolist_creators c ON c.todolist_id = l.todolist_id
		JOIN task_counts n ON n.todolist_id = l.todolist_id
		JOIN user_todolists u ON u.todolist_id = l.todolist_id
		WHERE %s`, todolistColumns, strings.Join(conditions, " AND "))

	var rows []todolistRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list todolists: %w", err)
	}

	lists := make([]*domain.TodoList, len(rows))
	for i, row := range rows {
		lists[i] = row.toDomain()
	}
	return lists, nil
}

func (r *TodoListRepository) StatusChanges(ctx context.Context, todolistID uuid.UUID) ([]domain.StatusChange, error) {
	query := `
		SELECT changed_by, change_ts, status
		FROM todolist_status_changes
		WHERE todolist_id = $1
		ORDER BY change_ts DESC`

	var rows []statusChangeRow
	if err := r.db.SelectContext(ctx, &rows, query, todolistID); err != nil {
		return nil, fmt.Errorf("get todolist status changes: %w", err)
	}

	changes := make([]domain.StatusChange, len(rows))
	for i, row := range rows {
		changes[i] = row.toDomain()
	}
	return changes, nil
}

func (r *TodoListRepository) CreateTodoList(ctx context.Context, list *domain.TodoList, entry domain.StatusChange) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO todolists (todolist_id, label, description, status, priority, created_ts)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		list.ID, list.Label, list.Description, list.Status, list.Priority, list.CreatedTS,
	)
	if err != nil {
		return fmt.Errorf("create todolist: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO todolist_creators (todolist_id, created_by) VALUES ($1, $2)`,
		list.ID, list.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create todolist creator: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_todolists (user_id, todolist_id, role) VALUES ($1, $2, $3)`,
		list.CreatedBy, list.ID, domain.RoleOwner,
	)
	if err != nil {
		return fmt.Errorf("create owner association: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO task_counts (todolist_id, task_count) VALUES ($1, 0)`,
		list.ID,
	)
	if err != nil {
		return fmt.Errorf("create task count: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO todolist_status_changes (todolist_id, changed_by, change_ts, status)
		VALUES ($1, $2, $3, $4)`,
		list.ID, entry.ChangedBy, entry.ChangeTS, entry.Status,
	)
	if err != nil {
		return fmt.Errorf("create todolist status log: %w", err)
	}

	return tx.Commit()
}

func (r *TodoListRepository) UpdateTodoList(ctx context.Context, todolistID uuid.UUID, upd domain.TodoListUpdate, entry *domain.StatusChange) error {
	var sets []string
	var args []interface{}
	argIdx := 1

	if upd.Label != nil {
		sets = append(sets, fmt.Sprintf("label = $%d", argIdx))
		args = append(args, *upd.Label)
		argIdx++
	}
	if upd.Description != nil {
		if *upd.Description == "" {
			sets = append(sets, "description = NULL")
		} else {
			sets = append(sets, fmt.Sprintf("description = $%d", argIdx))
			args = append(args, *upd.Description)
			argIdx++
		}
	}
	if upd.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *upd.Status)
		argIdx++
	}
	if upd.Priority != nil {
		sets = append(sets, fmt.Sprintf("priority = $%d", argIdx))
		args = append(args, *upd.Priority)
		argIdx++
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE todolists SET %s WHERE todolist_id = $%d", strings.Join(sets, ", "), argIdx)
	args = append(args, todolistID)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update todolist: %w", err)
	}

	if entry != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO todolist_status_changes (todolist_id, changed_by, change_ts, status)
			VALUES ($1, $2, $3, $4)`,
			todolistID, entry.ChangedBy, entry.ChangeTS, entry.Status,
		)
		if err != nil {
			return fmt.Errorf("append todolist status log: %w", err)
		}
	}

	return tx.Commit()
}

func (r *TodoListRepository) DeleteTodoList(ctx context.Context, todolistID uuid.UUID) error {
	// Tasks, depths, counts, associations and logs follow via ON DELETE CASCADE.
	_, err := r.db.ExecContext(ctx, "DELETE FROM todolists WHERE todolist_id = $1", todolistID)
	if err != nil {
		return fmt.Errorf("delete todolist: %w", err)
	}
	return nil
}

func (r *TodoListRepository) RoleOf(ctx context.Context, userID, todolistID uuid.UUID) (string, error) {
	var role string
	err := r.db.GetContext(ctx, &role,
		"SELECT role FROM user_todolists WHERE user_id = $1 AND todolist_id = $2",
		userID, todolistID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

func (r *TodoListRepository) Members(ctx context.Context, todolistID uuid.UUID) ([]domain.Member, error) {
	query := `
		SELECT u.user_id, u.login, u.name, u.email, m.role
		FROM user_todolists m
		JOIN users u ON u.user_id = m.user_id
		WHERE m.todolist_id = $1
		ORDER BY m.role, u.login`

	type memberRow struct {
		UserID uuid.UUID `db:"user_id"`
		Login  string    `db:"login"`
		Name   string    `db:"name"`
		Email  string    `db:"email"`
		Role   string    `db:"role"`
	}

	var rows []memberRow
	if err := r.db.SelectContext(ctx, &rows, query, todolistID); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]domain.Member, len(rows))
	for i, row := range rows {
		members[i] = domain.Member(row)
	}
	return members, nil
}

func (r *TodoListRepository) SetMemberRole(ctx context.Context, todolistID, userID uuid.UUID, role string) error {
	if role == "" {
		_, err := r.db.ExecContext(ctx,
			"DELETE FROM user_todolists WHERE todolist_id = $1 AND user_id = $2",
			todolistID, userID)
		if err != nil {
			return fmt.Errorf("remove member: %w", err)
		}
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_todolists (user_id, todolist_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, todolist_id) DO UPDATE SET role = EXCLUDED.role`,
		userID, todolistID, role)
	if err != nil {
		return fmt.Errorf("set member role: %w", err)
	}
	return nil
}

func (r *TodoListRepository) SwapOwner(ctx context.Context, todolistID, newOwnerID, previousOwnerID uuid.UUID, previousOwnerRole string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Demote first, so the unique-owner constraint never sees two owners.
	_, err = tx.ExecContext(ctx,
		"UPDATE user_todolists SET role = $3 WHERE todolist_id = $1 AND user_id = $2",
		todolistID, previousOwnerID, previousOwnerRole)
	if err != nil {
		return fmt.Errorf("demote previous owner: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_todolists (user_id, todolist_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, todolist_id) DO UPDATE SET role = EXCLUDED.role`,
		newOwnerID, todolistID, domain.RoleOwner)
	if err != nil {
		return fmt.Errorf("promote new owner: %w", err)
	}

	return tx.Commit()
}

func (r *TodoListRepository) OwnedCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM user_todolists WHERE user_id = $1 AND role = $2",
		userID, domain.RoleOwner)
	if err != nil {
		return 0, fmt.Errorf("count owned todolists: %w", err)
	}
	return count, nil
}

// =============================================================================
// Row Types
// =============================================================================

type todolistRow struct {
	TodoListID  uuid.UUID      `db:"todolist_id"`
	Label       string         `db:"label"`
	Description sql.NullString `db:"description"`
	Status      string         `db:"status"`
	Priority    string         `db:"priority"`
	CreatedTS   time.Time      `db:"created_ts"`
	CreatedBy   uuid.UUID      `db:"created_by"`
	TaskCount   int            `db:"task_count"`
}

func (r *todolistRow) toDomain() *domain.TodoList {
	list := &domain.TodoList{
		ID:        r.TodoListID,
		Label:     r.Label,
		Status:    domain.TodoListStatus(r.Status),
		Priority:  domain.Priority(r.Priority),
		CreatedBy: r.CreatedBy,
		CreatedTS: r.CreatedTS,
		TaskCount: r.TaskCount,
	}
	if r.Description.Valid {
		list.Description = &r.Description.String
	}
	return list
}
