package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/asidlare/todos/core/domain"
	"github.com/asidlare/todos/core/port/out"
)

// TaskRepository implements out.TaskRepository. Structural mutations keep the
// task rows, the depth cache, the live count and the status log in one
// transaction.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *sqlx.DB) out.TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `
	t.task_id, t.todolist_id, t.parent_id, t.label, t.description,
	t.status, t.priority, d.depth, t.created_ts`

func (r *TaskRepository) GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks t
		JOIN task_depths d ON d.task_id = t.task_id
		WHERE t.task_id = $1`, taskColumns)

	var row taskRow
	if err := r.db.GetContext(ctx, &row, query, taskID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	return row.toDomain(), nil
}

func (r *TaskRepository) ListByTodoList(ctx context.Context, todolistID uuid.UUID) ([]*domain.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks t
		JOIN task_depths d ON d.task_id = t.task_id
		WHERE t.todolist_id = $1`, taskColumns)

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, todolistID); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]*domain.Task, len(rows))
	for i, row := range rows {
		tasks[i] = row.toDomain()
	}
	return tasks, nil
}

func (r *TaskRepository) StatusChanges(ctx context.Context, taskID uuid.UUID) ([]domain.StatusChange, error) {
	query := `
		SELECT changed_by, change_ts, status
		FROM task_status_changes
		WHERE task_id = $1
		ORDER BY change_ts DESC`

	var rows []statusChangeRow
	if err := r.db.SelectContext(ctx, &rows, query, taskID); err != nil {
		return nil, fmt.Errorf("get task status changes: %w", err)
	}

	changes := make([]domain.StatusChange, len(rows))
	for i, row := range rows {
		changes[i] = row.toDomain()
	}
	return changes, nil
}

func (r *TaskRepository) StatusChangesByTodoList(ctx context.Context, todolistID uuid.UUID) (map[uuid.UUID][]domain.StatusChange, error) {
	query := `
		SELECT c.task_id, c.changed_by, c.change_ts, c.status
		FROM task_status_changes c
		JOIN tasks t ON t.task_id = c.task_id
		WHERE t.todolist_id = $1
		ORDER BY c.task_id, c.change_ts DESC`

	type taskChangeRow struct {
		TaskID uuid.UUID `db:"task_id"`
		statusChangeRow
	}

	var rows []taskChangeRow
	if err := r.db.SelectContext(ctx, &rows, query, todolistID); err != nil {
		return nil, fmt.Errorf("get todolist status changes: %w", err)
	}

	changes := make(map[uuid.UUID][]domain.StatusChange)
	for _, row := range rows {
		changes[row.TaskID] = append(changes[row.TaskID], row.toDomain())
	}
	return changes, nil
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *domain.Task, entry domain.StatusChange) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (task_id, todolist_id, parent_id, label, description, status, priority, created_ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		task.ID, task.TodoListID, task.ParentID, task.Label, task.Description,
		task.Status, task.Priority, task.CreatedTS,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO task_depths (task_id, depth) VALUES ($1, $2)`,
		task.ID, task.Depth,
	)
	if err != nil {
		return fmt.Errorf("create task depth: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO task_status_changes (task_id, changed_by, change_ts, status)
		VALUES ($1, $2, $3, $4)`,
		task.ID, entry.ChangedBy, entry.ChangeTS, entry.Status,
	)
	if err != nil {
		return fmt.Errorf("create task status log: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE task_counts SET task_count = task_count + 1 WHERE todolist_id = $1`,
		task.TodoListID,
	)
	if err != nil {
		return fmt.Errorf("bump task count: %w", err)
	}

	return tx.Commit()
}

func (r *TaskRepository) UpdateTask(ctx context.Context, taskID uuid.UUID, upd domain.TaskUpdate, entry *domain.StatusChange) error {
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

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE task_id = $%d", strings.Join(sets, ", "), argIdx)
	args = append(args, taskID)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if entry != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO task_status_changes (task_id, changed_by, change_ts, status)
			VALUES ($1, $2, $3, $4)`,
			taskID, entry.ChangedBy, entry.ChangeTS, entry.Status,
		)
		if err != nil {
			return fmt.Errorf("append task status log: %w", err)
		}
	}

	return tx.Commit()
}

func (r *TaskRepository) DeleteTask(ctx context.Context, todolistID, taskID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Descendants, depths and logs follow through ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE task_id = $1", taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if err := recountTasks(ctx, tx, todolistID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *TaskRepository) DeleteTasks(ctx context.Context, todolistID uuid.UUID, taskIDs []uuid.UUID) error {
	if len(taskIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE task_id = ANY($1)", pq.Array(taskIDs)); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	if err := recountTasks(ctx, tx, todolistID); err != nil {
		return err
	}

	return tx.Commit()
}

func recountTasks(ctx context.Context, tx *sqlx.Tx, todolistID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE task_counts
		SET task_count = (SELECT COUNT(*) FROM tasks WHERE todolist_id = $1)
		WHERE todolist_id = $1`,
		todolistID,
	)
	if err != nil {
		return fmt.Errorf("recount tasks: %w", err)
	}
	return nil
}

func (r *TaskRepository) Reparent(ctx context.Context, taskID uuid.UUID, newParentID *uuid.UUID, depths map[uuid.UUID]int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE tasks SET parent_id = $2 WHERE task_id = $1", taskID, newParentID); err != nil {
		return fmt.Errorf("reparent task: %w", err)
	}
	for id, depth := range depths {
		if _, err := tx.ExecContext(ctx, "UPDATE task_depths SET depth = $2 WHERE task_id = $1", id, depth); err != nil {
			return fmt.Errorf("rewrite depth: %w", err)
		}
	}

	return tx.Commit()
}

func (r *TaskRepository) TaskCount(ctx context.Context, todolistID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT task_count FROM task_counts WHERE todolist_id = $1", todolistID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("get task count: %w", err)
	}
	return count, nil
}

// =============================================================================
// Row Types
// =============================================================================

type taskRow struct {
	TaskID      uuid.UUID      `db:"task_id"`
	TodoListID  uuid.UUID      `db:"todolist_id"`
	ParentID    uuid.NullUUID  `db:"parent_id"`
	Label       string         `db:"label"`
	Description sql.NullString `db:"description"`
	Status      string         `db:"status"`
	Priority    string         `db:"priority"`
	Depth       int            `db:"depth"`
	CreatedTS   time.Time      `db:"created_ts"`
}

func (r *taskRow) toDomain() *domain.Task {
	task := &domain.Task{
		ID:         r.TaskID,
		TodoListID: r.TodoListID,
		Label:      r.Label,
		Status:     domain.TaskStatus(r.Status),
		Priority:   domain.Priority(r.Priority),
		Depth:      r.Depth,
		CreatedTS:  r.CreatedTS,
	}
	if r.ParentID.Valid {
		id := r.ParentID.UUID
		task.ParentID = &id
	}
	if r.Description.Valid {
		task.Description = &r.Description.String
	}
	return task
}

type statusChangeRow struct {
	ChangedBy uuid.UUID `db:"changed_by"`
	ChangeTS  time.Time `db:"change_ts"`
	Status    string    `db:"status"`
}

func (r *statusChangeRow) toDomain() domain.StatusChange {
	return domain.StatusChange{
		ChangedBy: r.ChangedBy,
		ChangeTS:  r.ChangeTS,
		Status:    r.Status,
	}
}
