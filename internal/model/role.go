package model

import "strings"

// Role is the authorization level stored on a user.
type Role string

const (
	RoleAdministrator Role = "ADMINISTRADOR"
	RoleCashier       Role = "CAJERO"
)

// Roles lists the assignable roles in display order.
var Roles = []Role{RoleAdministrator, RoleCashier}

func ParseRole(value string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(value)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

func (r Role) Label() string {
	switch r {
	case RoleAdministrator:
		return "Administrador"
	case RoleCashier:
		return "Cajero"
	}
	return string(r)
}
