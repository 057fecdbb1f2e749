package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema creates the tables and seeds the static role definitions.
// Statements are idempotent, so running at every boot is safe.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id  UUID PRIMARY KEY,
			login    VARCHAR(100) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			name     VARCHAR(255) NOT NULL,
			email    VARCHAR(255) NOT NULL UNIQUE,
			created  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS roles (
			role                 VARCHAR(20) PRIMARY KEY,
			change_owner         BOOLEAN NOT NULL DEFAULT FALSE,
			"delete"             BOOLEAN NOT NULL DEFAULT FALSE,
			change_permissions   BOOLEAN NOT NULL DEFAULT FALSE,
			change_data          BOOLEAN NOT NULL DEFAULT FALSE,
			"read"               BOOLEAN NOT NULL DEFAULT TRUE,
			task_count_limit     INTEGER,
			task_depth_limit     INTEGER,
			todolist_count_limit INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS todolists (
			todolist_id UUID PRIMARY KEY,
			label       VARCHAR(100) NOT NULL,
			description VARCHAR(500),
			status      VARCHAR(20) NOT NULL,
			priority    CHAR(1) NOT NULL,
			created_ts  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS todolist_creators (
			todolist_id UUID PRIMARY KEY REFERENCES todolists(todolist_id) ON DELETE CASCADE,
			created_by  UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS user_todolists (
			user_id     UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			todolist_id UUID NOT NULL REFERENCES todolists(todolist_id) ON DELETE CASCADE,
			role        VARCHAR(20) NOT NULL REFERENCES roles(role),
			PRIMARY KEY (user_id, todolist_id)
		)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS user_todolists_one_owner
			ON user_todolists (todolist_id) WHERE role = 'owner'`,

		`CREATE TABLE IF NOT EXISTS tasks (
			task_id     UUID PRIMARY KEY,
			todolist_id UUID NOT NULL REFERENCES todolists(todolist_id) ON DELETE CASCADE,
			parent_id   UUID REFERENCES tasks(task_id) ON DELETE CASCADE,
			label       VARCHAR(100) NOT NULL,
			description VARCHAR(500),
			status      VARCHAR(20) NOT NULL,
			priority    CHAR(1) NOT NULL,
			created_ts  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS tasks_todolist_idx ON tasks (todolist_id)`,
		`CREATE INDEX IF NOT EXISTS tasks_parent_idx ON tasks (parent_id)`,

		`CREATE TABLE IF NOT EXISTS task_depths (
			task_id UUID PRIMARY KEY REFERENCES tasks(task_id) ON DELETE CASCADE,
			depth   INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS task_counts (
			todolist_id UUID PRIMARY KEY REFERENCES todolists(todolist_id) ON DELETE CASCADE,
			task_count  INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS task_status_changes (
			id         BIGSERIAL PRIMARY KEY,
			task_id    UUID NOT NULL REFERENCES tasks(task_id) ON DELETE CASCADE,
			changed_by UUID NOT NULL,
			change_ts  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			status     VARCHAR(20) NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS task_status_changes_task_idx ON task_status_changes (task_id)`,

		`CREATE TABLE IF NOT EXISTS todolist_status_changes (
			id          BIGSERIAL PRIMARY KEY,
			todolist_id UUID NOT NULL REFERENCES todolists(todolist_id) ON DELETE CASCADE,
			changed_by  UUID NOT NULL,
			change_ts   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			status      VARCHAR(20) NOT NULL
		)`,

		`INSERT INTO roles (role, change_owner, "delete", change_permissions, change_data, "read",
			task_count_limit, task_depth_limit, todolist_count_limit)
		VALUES
			('owner',  TRUE,  TRUE,  TRUE,  TRUE, TRUE, 100, 10, 10),
			('admin',  FALSE, FALSE, FALSE, TRUE, TRUE, 80,  8,  NULL),
			('reader', FALSE, FALSE, FALSE, FALSE, TRUE, NULL, NULL, NULL)
		ON CONFLICT (role) DO NOTHING`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
