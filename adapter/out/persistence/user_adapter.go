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

// UserRepository implements out.UserRepository
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB) out.UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `user_id, login, password, name, email, created`

func (r *UserRepository) getBy(ctx context.Context, column string, value interface{}) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1", userColumns, column)

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, value); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return r.getBy(ctx, "user_id", userID)
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.getBy(ctx, "login", login)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, login, password, name, email, created)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Login, user.PasswordHash, user.Name, user.Email, user.Created,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate) error {
	var sets []string
	var args []interface{}
	argIdx := 1

	if upd.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *upd.Name)
		argIdx++
	}
	if upd.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *upd.Email)
		argIdx++
	}
	if upd.PasswordHash != nil {
		sets = append(sets, fmt.Sprintf("password = $%d", argIdx))
		args = append(args, *upd.PasswordHash)
		argIdx++
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE users SET %s WHERE user_id = $%d", strings.Join(sets, ", "), argIdx)
	args = append(args, userID)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

type userRow struct {
	UserID   uuid.UUID `db:"user_id"`
	Login    string    `db:"login"`
	Password string    `db:"password"`
	Name     string    `db:"name"`
	Email    string    `db:"email"`
	Created  time.Time `db:"created"`
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.UserID,
		Login:        r.Login,
		PasswordHash: r.Password,
		Name:         r.Name,
		Email:        r.Email,
		Created:      r.Created,
	}
}
