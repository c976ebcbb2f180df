package service

import (
	"pollos-admin/internal/model"
	apperrors "pollos-admin/pkg/errors"
)

// Actor is whoever is invoking a service operation.
type Actor struct {
	UserID   uint
	Username string
	Role     model.Role
}

// SystemActor runs operations started from the command line.
var SystemActor = Actor{Username: "sistema", Role: model.RoleAdministrator}

func ActorFromUser(u *model.User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func (a Actor) Anonymous() bool {
	return a.Role == ""
}

// Authorize is the single role check used by every service operation.
func Authorize(actor Actor, required model.Role) error {
	if actor.Anonymous() {
		return apperrors.New(apperrors.CodeUnauthorized, "se requiere iniciar sesión")
	}
	if actor.Role != required {
		return apperrors.New(apperrors.CodeForbidden, "rol "+string(actor.Role)+" sin permiso")
	}
	return nil
}
