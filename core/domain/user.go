package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. Login and email are unique at the store level.
type User struct {
	ID           uuid.UUID `json:"user_id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Created      time.Time `json:"created"`
}

// UserUpdate carries optional account field updates.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.PasswordHash == nil
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}
