package domain

// Role names. Exactly one owner exists per todolist at all times.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleReader = "reader"
)

// Role bundles capability flags and resource limits. A nil limit means the
// dimension is unconstrained for that role.
type Role struct {
	Name               string `json:"role"`
	ChangeOwner        bool   `json:"change_owner"`
	Delete             bool   `json:"delete"`
	ChangePermissions  bool   `json:"change_permissions"`
	ChangeData         bool   `json:"change_data"`
	Read               bool   `json:"read"`
	TaskCountLimit     *int   `json:"task_count_limit"`
	TaskDepthLimit     *int   `json:"task_depth_limit"`
	TodoListCountLimit *int   `json:"todolist_count_limit"`
}

func ValidRoleName(name string) bool {
	switch name {
	case RoleOwner, RoleAdmin, RoleReader:
		return true
	}
	return false
}
