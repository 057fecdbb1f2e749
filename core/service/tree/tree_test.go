package tree

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
)

// fixtureForest builds the reference tree:
//
//	Task 0 (high, active)          Task 2 (veryhigh, done)
//	  Task 1 (medium, active)        Task 7 (medium, done)
//	    Task 3 (high, done)
//	      Task 8 (medium, done)
//	    Task 4 (medium, active)
//	      Task 9 (medium, active)
//	    Task 5 (medium, active)
//	  Task 6 (high, active)
func fixtureForest(t *testing.T) (*Forest, []*domain.Task) {
	t.Helper()

	ids := make([]uuid.UUID, 10)
	for i := range ids {
		ids[i] = uuid.New()
	}
	parents := []*uuid.UUID{nil, &ids[0], nil, &ids[1], &ids[1], &ids[1], &ids[0], &ids[2], &ids[3], &ids[4]}
	priorities := []domain.Priority{
		domain.PriorityHigh, domain.PriorityMedium, domain.PriorityVeryHigh, domain.PriorityHigh,
		domain.PriorityMedium, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityMedium,
		domain.PriorityMedium, domain.PriorityMedium,
	}
	statuses := []domain.TaskStatus{
		domain.TaskStatusActive, domain.TaskStatusActive, domain.TaskStatusDone, domain.TaskStatusDone,
		domain.TaskStatusActive, domain.TaskStatusActive, domain.TaskStatusActive, domain.TaskStatusDone,
		domain.TaskStatusDone, domain.TaskStatusActive,
	}

	todolistID := uuid.New()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tasks := make([]*domain.Task, 10)
	for i := range tasks {
		tasks[i] = &domain.Task{
			ID:         ids[i],
			TodoListID: todolistID,
			ParentID:   parents[i],
			Label:      "Task " + string(rune('0'+i)),
			Status:     statuses[i],
			Priority:   priorities[i],
			CreatedTS:  base.Add(time.Duration(i) * time.Second),
		}
	}
	return Build(tasks), tasks
}

func labels(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Label
	}
	return out
}

func assertLabels(t *testing.T, got []*domain.Task, want []string) {
	t.Helper()
	gotLabels := labels(got)
	if len(gotLabels) != len(want) {
		t.Fatalf("got %v, want %v", gotLabels, want)
	}
	for i := range want {
		if gotLabels[i] != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, gotLabels, want)
		}
	}
}

func TestChildren(t *testing.T) {
	f, tasks := fixtureForest(t)

	assertLabels(t, f.Children(tasks[0].ID), []string{"Task 6", "Task 1"})
	assertLabels(t, f.Children(tasks[1].ID), []string{"Task 3", "Task 4", "Task 5"})
	assertLabels(t, f.Children(tasks[8].ID), nil)
}

func TestSiblings(t *testing.T) {
	f, tasks := fixtureForest(t)

	// Root task: the sibling group is the todolist's root set, self included.
	assertLabels(t, f.Siblings(tasks[0].ID), []string{"Task 2", "Task 0"})
	// Task with a parent: the parent's full child group.
	assertLabels(t, f.Siblings(tasks[3].ID), []string{"Task 3", "Task 4", "Task 5"})
}

func TestAncestors(t *testing.T) {
	f, tasks := fixtureForest(t)

	assertLabels(t, f.Ancestors(tasks[4].ID), []string{"Task 1", "Task 0"})
	assertLabels(t, f.Ancestors(tasks[8].ID), []string{"Task 3", "Task 1", "Task 0"})
	assertLabels(t, f.Ancestors(tasks[2].ID), nil)
}

func TestExpandFromRootYieldsWholeForest(t *testing.T) {
	f, tasks := fixtureForest(t)

	got := f.ExpandFrom(tasks[0].ID)
	assertLabels(t, got, []string{
		"Task 2", "Task 7", "Task 0", "Task 6", "Task 1",
		"Task 3", "Task 8", "Task 4", "Task 9", "Task 5",
	})

	wantDepths := []int{0, 1, 0, 1, 1, 2, 3, 2, 3, 2}
	wantLeaf := []bool{false, true, false, true, false, false, true, false, true, true}
	for i, task := range got {
		if d := f.Depth(task.ID); d != wantDepths[i] {
			t.Errorf("%s: depth = %d, want %d", task.Label, d, wantDepths[i])
		}
		if l := f.IsLeaf(task.ID); l != wantLeaf[i] {
			t.Errorf("%s: is_leaf = %v, want %v", task.Label, l, wantLeaf[i])
		}
	}
}

func TestExpandFromNonRootYieldsOwnSubtree(t *testing.T) {
	f, tasks := fixtureForest(t)

	assertLabels(t, f.ExpandFrom(tasks[1].ID), []string{
		"Task 1", "Task 3", "Task 8", "Task 4", "Task 9", "Task 5",
	})
}

func TestDescendants(t *testing.T) {
	f, tasks := fixtureForest(t)

	assertLabels(t, f.Descendants(tasks[1].ID), []string{
		"Task 3", "Task 8", "Task 4", "Task 9", "Task 5",
	})
	assertLabels(t, f.Descendants(tasks[2].ID), []string{"Task 7"})
	if got := f.Descendants(tasks[7].ID); len(got) != 0 {
		t.Fatalf("leaf descendants = %v, want none", labels(got))
	}
}

func TestDepthInvariant(t *testing.T) {
	f, _ := fixtureForest(t)

	for _, task := range f.Walk() {
		if task.ParentID == nil {
			if f.Depth(task.ID) != 0 {
				t.Errorf("root %s has depth %d", task.Label, f.Depth(task.ID))
			}
			continue
		}
		if f.Depth(task.ID) != f.Depth(*task.ParentID)+1 {
			t.Errorf("%s: depth %d, parent depth %d", task.Label, f.Depth(task.ID), f.Depth(*task.ParentID))
		}
	}
}

func TestIsDescendant(t *testing.T) {
	f, tasks := fixtureForest(t)

	if !f.IsDescendant(tasks[1].ID, tasks[8].ID) {
		t.Error("Task 8 should be a descendant of Task 1")
	}
	if f.IsDescendant(tasks[1].ID, tasks[1].ID) {
		t.Error("a task is not its own descendant")
	}
	if f.IsDescendant(tasks[1].ID, tasks[6].ID) {
		t.Error("Task 6 is a sibling subtree, not a descendant of Task 1")
	}
}

func TestWalkIsDeterministic(t *testing.T) {
	f, _ := fixtureForest(t)

	first := labels(f.Walk())
	second := labels(f.Walk())
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("walk not stable: %v vs %v", first, second)
		}
	}
}
