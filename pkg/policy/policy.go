package policy

// Capability gating is a single data-driven check instead of per-handler
// conditionals. Roles come from the request (no real auth in this system),
// the rule table is the only place that knows who may do what.

type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
	RoleAdmin     Role = "admin"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionView   Action = "view"
	ActionToggle Action = "toggle"
)

type ItemType string

const (
	ItemCourse   ItemType = "course"
	ItemResource ItemType = "resource"
	ItemTask     ItemType = "task"
	ItemChat     ItemType = "chat"
	ItemProgress ItemType = "progress"
)

// instructor roles hold full editing capability over the course tree.
var instructorRoles = map[Role]bool{
	RoleProfessor: true,
	RoleAdmin:     true,
}

var knownRoles = map[Role]bool{
	RoleStudent:   true,
	RoleProfessor: true,
	RoleAdmin:     true,
}

func ValidRole(role Role) bool {
	return knownRoles[role]
}

// Can reports whether a role may perform an action on an item type.
// Unknown roles can do nothing.
func Can(role Role, action Action, item ItemType) bool {
	if !knownRoles[role] {
		return false
	}

	switch action {
	case ActionView:
		return true
	case ActionToggle:
		// Task checkboxes are toggled by any viewer.
		return item == ItemTask
	case ActionCreate, ActionUpdate, ActionDelete:
		switch item {
		case ItemChat, ItemProgress:
			// Everyone owns their chats and their progress.
			return true
		case ItemTask:
			return instructorRoles[role]
		case ItemCourse, ItemResource:
			return instructorRoles[role]
		}
	}
	return false
}
