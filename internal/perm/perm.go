package perm

import (
	"os"
	"strings"
)

// Role is a Gramps Web user role. Higher roles include the rights of lower ones.
type Role int

const (
	RoleGuest Role = iota
	RoleMember
	RoleContributor
	RoleEditor
	RoleOwner
	RoleAdmin
)

var roleNames = map[string]Role{
	"guest":       RoleGuest,
	"member":      RoleMember,
	"contributor": RoleContributor,
	"editor":      RoleEditor,
	"owner":       RoleOwner,
	"admin":       RoleAdmin,
}

// ParseRole maps a role name to a Role. Unknown or empty names are treated as guest.
func ParseRole(s string) (Role, bool) {
	r, ok := roleNames[strings.ToLower(strings.TrimSpace(s))]
	return r, ok
}

func (r Role) String() string {
	for name, v := range roleNames {
		if v == r {
			return name
		}
	}
	return "guest"
}

// CanEdit reports whether role may modify existing objects.
//
// Rules (Gramps Web):
// - Editors, owners and admins can edit any object.
// - Contributors may only add objects, so they cannot reorder or remove references.
// - GRAMPS_CAN_EDIT=1 forces edit rights on (for servers with custom role setups).
func CanEdit(role string) bool {
	if v := strings.TrimSpace(os.Getenv("GRAMPS_CAN_EDIT")); v == "1" || strings.EqualFold(v, "true") {
		return true
	}
	r, ok := ParseRole(role)
	if !ok {
		return false
	}
	return r >= RoleEditor
}
