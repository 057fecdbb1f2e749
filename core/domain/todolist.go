package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// TodoList owns a forest of tasks. CreatedBy is immutable after creation;
// membership and roles live in the user_todolists association.
type TodoList struct {
	ID          uuid.UUID      `json:"todolist_id"`
	Label       string         `json:"label"`
	Description *string        `json:"description,omitempty"`
	Status      TodoListStatus `json:"status"`
	Priority    Priority       `json:"priority"`
	CreatedBy   uuid.UUID      `json:"created_by"`
	CreatedTS   time.Time      `json:"created_ts"`
	TaskCount   int            `json:"task_count"`
}

// TodoListView is the flat record exposed to the view layer.
type TodoListView struct {
	ID            uuid.UUID      `json:"todolist_id"`
	Label         string         `json:"label"`
	Description   *string        `json:"description,omitempty"`
	Status        string         `json:"status"`
	Priority      string         `json:"priority"`
	CreatedBy     uuid.UUID      `json:"created_by"`
	CreatedTS     time.Time      `json:"created_ts"`
	TaskCount     int            `json:"task_count"`
	Role          string         `json:"role,omitempty"`
	StatusChanges []StatusChange `json:"status_changes"`
}

// TodoListUpdate carries optional field updates for a todolist.
type TodoListUpdate struct {
	Label       *string
	Description *string
	Status      *TodoListStatus
	Priority    *Priority
}

func (u TodoListUpdate) Empty() bool {
	return u.Label == nil && u.Description == nil && u.Status == nil && u.Priority == nil
}

// TodoListFilter narrows a user's todolist listing. Nil fields match all.
type TodoListFilter struct {
	Label    *string
	Status   *TodoListStatus
	Priority *Priority
}

// Member is one (user, role) association on a todolist.
type Member struct {
	UserID uuid.UUID `json:"user_id"`
	Login  string    `json:"login"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

// SortTodoLists applies the canonical order: priority code, status enum
// order, label, creation time, id.
func SortTodoLists(lists []*TodoList) {
	sort.SliceStable(lists, func(i, j int) bool {
		a, b := lists[i], lists[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.Status != b.Status {
			return a.Status.Rank() < b.Status.Rank()
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		if !a.CreatedTS.Equal(b.CreatedTS) {
			return a.CreatedTS.Before(b.CreatedTS)
		}
		return a.ID.String() < b.ID.String()
	})
}
