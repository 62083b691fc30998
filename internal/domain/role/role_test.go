package role

import (
	"testing"
)

func TestRoleString(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{Undefined, "undefined"},
		{Base, "base"},
		{ManageUsers, "manage_users"},
		{ManageSessions, "manage_sessions"},
		{Role(42), "undefined"},
	}

	for _, tt := range tests {
		if got := tt.role.String(); got != tt.want {
			t.Errorf("Role(%d).String() = %q, хотели %q", tt.role, got, tt.want)
		}
	}
}

func TestRoleIsValid(t *testing.T) {
	if Undefined.IsValid() {
		t.Error("Undefined.IsValid() = true, хотели false")
	}
	if !Base.IsValid() || !ManageSessions.IsValid() {
		t.Error("граничные роли перечня должны быть валидными")
	}
	if Role(6).IsValid() {
		t.Error("Role(6).IsValid() = true, хотели false")
	}
	if Role(-1).IsValid() {
		t.Error("Role(-1).IsValid() = true, хотели false")
	}
}

func TestIntersects(t *testing.T) {
	tests := []struct {
		name     string
		have     []Role
		required []Role
		want     bool
	}{
		{"общая роль", []Role{Base, ManageUsers}, []Role{ManageUsers}, true},
		{"достаточно одной из требуемых", []Role{ManageTasks}, []Role{ManageUsers, ManageTasks}, true},
		{"непересекающиеся наборы", []Role{ManageUsers}, []Role{ManageNodes}, false},
		{"пустой набор пользователя", nil, []Role{Base}, false},
		{"пустой требуемый набор", []Role{Base}, nil, false},
		{"оба пустые", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersects(tt.have, tt.required); got != tt.want {
				t.Errorf("Intersects(%v, %v) = %v, хотели %v", tt.have, tt.required, got, tt.want)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	toRemove, toAdd := Diff([]Role{Base, ManageUsers}, []Role{ManageUsers, ManageNodes})
	if len(toRemove) != 1 || toRemove[0] != Base {
		t.Errorf("toRemove = %v, хотели [Base]", toRemove)
	}
	if len(toAdd) != 1 || toAdd[0] != ManageNodes {
		t.Errorf("toAdd = %v, хотели [ManageNodes]", toAdd)
	}
}

// TestDiff_NoChange — одинаковые наборы не требуют записи.
func TestDiff_NoChange(t *testing.T) {
	toRemove, toAdd := Diff([]Role{Base, ManageUsers}, []Role{ManageUsers, Base})
	if len(toRemove) != 0 || len(toAdd) != 0 {
		t.Errorf("Diff для одинаковых наборов: toRemove=%v, toAdd=%v, хотели пустые", toRemove, toAdd)
	}
}

func TestDiff_Duplicates(t *testing.T) {
	toRemove, toAdd := Diff(nil, []Role{ManageUsers, ManageUsers})
	if len(toRemove) != 0 {
		t.Errorf("toRemove = %v, хотели пустой", toRemove)
	}
	if len(toAdd) != 1 || toAdd[0] != ManageUsers {
		t.Errorf("toAdd = %v, хотели [ManageUsers] без дубликатов", toAdd)
	}
}
