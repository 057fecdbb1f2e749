package domain

import "fmt"

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	TaskStatusActive TaskStatus = "active"
	TaskStatusDone   TaskStatus = "done"
	TaskStatusReady  TaskStatus = "ready"
)

// taskStatusRank is the declared enum order used by the ordering policy.
var taskStatusRank = map[TaskStatus]int{
	TaskStatusActive: 0,
	TaskStatusDone:   1,
	TaskStatusReady:  2,
}

func (s TaskStatus) Valid() bool {
	_, ok := taskStatusRank[s]
	return ok
}

// Rank returns the sort rank of the status within the ordering policy.
func (s TaskStatus) Rank() int {
	return taskStatusRank[s]
}

func ParseTaskStatus(name string) (TaskStatus, error) {
	s := TaskStatus(name)
	if !s.Valid() {
		return "", fmt.Errorf("unknown task status %q", name)
	}
	return s, nil
}

// TodoListStatus represents the status of a todolist.
type TodoListStatus string

const (
	TodoListStatusActive   TodoListStatus = "active"
	TodoListStatusInactive TodoListStatus = "inactive"
)

var todoListStatusRank = map[TodoListStatus]int{
	TodoListStatusActive:   0,
	TodoListStatusInactive: 1,
}

func (s TodoListStatus) Valid() bool {
	_, ok := todoListStatusRank[s]
	return ok
}

func (s TodoListStatus) Rank() int {
	return todoListStatusRank[s]
}

func ParseTodoListStatus(name string) (TodoListStatus, error) {
	s := TodoListStatus(name)
	if !s.Valid() {
		return "", fmt.Errorf("unknown todolist status %q", name)
	}
	return s, nil
}
