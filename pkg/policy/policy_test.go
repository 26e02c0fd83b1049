package policy

import "testing"

func TestCan(t *testing.T) {
	tests := []struct {
		name   string
		role   Role
		action Action
		item   ItemType
		want   bool
	}{
		{"student views courses", RoleStudent, ActionView, ItemCourse, true},
		{"student cannot create courses", RoleStudent, ActionCreate, ItemCourse, false},
		{"student cannot delete resources", RoleStudent, ActionDelete, ItemResource, false},
		{"student toggles tasks", RoleStudent, ActionToggle, ItemTask, true},
		{"student cannot toggle courses", RoleStudent, ActionToggle, ItemCourse, false},
		{"student owns their chat", RoleStudent, ActionCreate, ItemChat, true},
		{"student owns their progress", RoleStudent, ActionUpdate, ItemProgress, true},

		{"professor creates courses", RoleProfessor, ActionCreate, ItemCourse, true},
		{"professor deletes resources", RoleProfessor, ActionDelete, ItemResource, true},
		{"professor updates tasks", RoleProfessor, ActionUpdate, ItemTask, true},

		{"admin creates courses", RoleAdmin, ActionCreate, ItemCourse, true},
		{"admin views everything", RoleAdmin, ActionView, ItemResource, true},

		{"unknown role can do nothing", Role("guest"), ActionView, ItemCourse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.role, tt.action, tt.item); got != tt.want {
				t.Errorf("Can(%s, %s, %s) = %v, want %v", tt.role, tt.action, tt.item, got, tt.want)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []Role{RoleStudent, RoleProfessor, RoleAdmin} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%s) = false", role)
		}
	}
	if ValidRole(Role("root")) {
		t.Error("ValidRole(root) = true")
	}
	if ValidRole(Role("")) {
		t.Error("ValidRole(empty) = true")
	}
}
