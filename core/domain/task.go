package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Task is a node in a todolist's task forest. Depth is the cached depth from
// the task_depths table: 0 for roots, parent depth + 1 otherwise. It is
// recomputed inside the same transaction as every structural mutation.
type Task struct {
	ID          uuid.UUID  `json:"task_id"`
	TodoListID  uuid.UUID  `json:"todolist_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Label       string     `json:"label"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	Depth       int        `json:"depth"`
	CreatedTS   time.Time  `json:"created_ts"`
}

// StatusChange is one append-only audit entry for a task or todolist.
type StatusChange struct {
	ChangedBy uuid.UUID `json:"changed_by"`
	ChangeTS  time.Time `json:"change_ts"`
	Status    string    `json:"status"`
}

// TaskView is the flat record exposed to the view layer: stored fields plus
// the computed depth/leaf annotations and the audit log, newest first.
type TaskView struct {
	ID            uuid.UUID      `json:"task_id"`
	TodoListID    uuid.UUID      `json:"todolist_id"`
	ParentID      *uuid.UUID     `json:"parent_id"`
	Label         string         `json:"label"`
	Description   *string        `json:"description,omitempty"`
	Status        string         `json:"status"`
	Priority      string         `json:"priority"`
	Depth         int            `json:"depth"`
	IsLeaf        bool           `json:"is_leaf"`
	CreatedTS     time.Time      `json:"created_ts"`
	StatusChanges []StatusChange `json:"status_changes"`
}

// TaskUpdate carries the optional field updates for a task. A nil field means
// unchanged; Description pointing at the empty string clears the column.
type TaskUpdate struct {
	Label       *string
	Description *string
	Status      *TaskStatus
	Priority    *Priority
}

func (u TaskUpdate) Empty() bool {
	return u.Label == nil && u.Description == nil && u.Status == nil && u.Priority == nil
}

// SortTasks applies the canonical sibling order in place: priority code,
// status enum order, label, creation time. Id is the deterministic tiebreak.
func SortTasks(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
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
