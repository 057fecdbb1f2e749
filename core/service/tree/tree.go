// Package tree builds an in-memory forest index over one todolist's tasks
// and provides the depth-first traversals used by the task service. The
// index is an explicit adjacency map (parent id -> ordered children), built
// from a snapshot; it never reaches back to the store.
package tree

import (
	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
)

// Forest indexes a snapshot of tasks belonging to a single todolist.
type Forest struct {
	byID     map[uuid.UUID]*domain.Task
	children map[uuid.UUID][]*domain.Task
	roots    []*domain.Task
	depths   map[uuid.UUID]int
}

// Build constructs the forest index. Sibling groups and roots are sorted by
// the canonical ordering policy. Depths are recomputed from the structure,
// so the index stays correct even while the persisted depth cache is being
// rewritten inside a mutation.
func Build(tasks []*domain.Task) *Forest {
	f := &Forest{
		byID:     make(map[uuid.UUID]*domain.Task, len(tasks)),
		children: make(map[uuid.UUID][]*domain.Task),
		depths:   make(map[uuid.UUID]int, len(tasks)),
	}
	for _, t := range tasks {
		f.byID[t.ID] = t
	}
	for _, t := range tasks {
		if t.ParentID == nil {
			f.roots = append(f.roots, t)
			continue
		}
		f.children[*t.ParentID] = append(f.children[*t.ParentID], t)
	}
	domain.SortTasks(f.roots)
	for id := range f.children {
		domain.SortTasks(f.children[id])
	}
	for _, root := range f.roots {
		f.computeDepths(root, 0)
	}
	return f
}

func (f *Forest) computeDepths(t *domain.Task, depth int) {
	f.depths[t.ID] = depth
	for _, child := range f.children[t.ID] {
		f.computeDepths(child, depth+1)
	}
}

// Task looks up a task by id.
func (f *Forest) Task(id uuid.UUID) (*domain.Task, bool) {
	t, ok := f.byID[id]
	return t, ok
}

// Size is the number of tasks in the snapshot.
func (f *Forest) Size() int {
	return len(f.byID)
}

// Roots returns the todolist's root tasks in canonical order.
func (f *Forest) Roots() []*domain.Task {
	return f.roots
}

// Children returns the direct children of a task in canonical order.
func (f *Forest) Children(id uuid.UUID) []*domain.Task {
	return f.children[id]
}

// IsLeaf reports whether the task has no children.
func (f *Forest) IsLeaf(id uuid.UUID) bool {
	return len(f.children[id]) == 0
}

// Depth returns the structural depth of the task: 0 for roots.
func (f *Forest) Depth(id uuid.UUID) int {
	return f.depths[id]
}

// Siblings returns the ordered sibling group the task belongs to, the task
// itself included: the parent's children, or the todolist roots for a root.
func (f *Forest) Siblings(id uuid.UUID) []*domain.Task {
	t, ok := f.byID[id]
	if !ok {
		return nil
	}
	if t.ParentID == nil {
		return f.roots
	}
	return f.children[*t.ParentID]
}

// Ancestors walks the parent chain: immediate parent first, root last.
func (f *Forest) Ancestors(id uuid.UUID) []*domain.Task {
	var out []*domain.Task
	t, ok := f.byID[id]
	if !ok {
		return nil
	}
	for t.ParentID != nil {
		parent, ok := f.byID[*t.ParentID]
		if !ok {
			break
		}
		out = append(out, parent)
		t = parent
	}
	return out
}

// Walk returns the whole forest in pre-order: each root followed by its
// subtree, roots and sibling groups in canonical order.
func (f *Forest) Walk() []*domain.Task {
	out := make([]*domain.Task, 0, len(f.byID))
	for _, root := range f.roots {
		out = f.walk(root, out)
	}
	return out
}

func (f *Forest) walk(t *domain.Task, out []*domain.Task) []*domain.Task {
	out = append(out, t)
	for _, child := range f.children[t.ID] {
		out = f.walk(child, out)
	}
	return out
}

// Descendants returns the strict subtree under the task in pre-order, the
// task itself excluded.
func (f *Forest) Descendants(id uuid.UUID) []*domain.Task {
	var out []*domain.Task
	for _, child := range f.children[id] {
		out = f.walk(child, out)
	}
	return out
}

// ExpandFrom is the full expansion used by task listing: called on a root
// task it yields the entire forest; called on a non-root task it yields that
// task's subtree, the task itself first.
func (f *Forest) ExpandFrom(id uuid.UUID) []*domain.Task {
	t, ok := f.byID[id]
	if !ok {
		return nil
	}
	if t.ParentID == nil {
		return f.Walk()
	}
	return f.walk(t, nil)
}

// IsDescendant reports whether candidate lies in the strict subtree of root.
func (f *Forest) IsDescendant(root, candidate uuid.UUID) bool {
	for _, t := range f.Descendants(root) {
		if t.ID == candidate {
			return true
		}
	}
	return false
}
