package service

import (
	"context"
	"testing"

	"pollos-admin/internal/model"
	apperrors "pollos-admin/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, f *fixture, username string, role model.Role, active bool) *model.User {
	t.Helper()
	u, err := f.auth.CreateUser(context.Background(), SystemActor, UserInput{
		Username: username,
		Password: "pollo123",
		Name:     "Usuario " + username,
		Role:     string(role),
		Active:   active,
	})
	require.NoError(t, err)
	return u
}

func TestAuthenticateSuccessRecordsLastLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createUser(t, f, "admin", model.RoleAdministrator, true)

	sess, err := f.auth.Authenticate(ctx, "admin", "pollo123")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	require.NotNil(t, sess.User.LastLogin)

	stored, err := f.store.Users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)

	user, err := f.auth.Resolve(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
}

func TestAuthenticateFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createUser(t, f, "admin", model.RoleAdministrator, true)
	createUser(t, f, "baja", model.RoleCashier, false)

	_, err := f.auth.Authenticate(ctx, "nadie", "pollo123")
	requireCode(t, err, apperrors.CodeInvalidCredentials)

	_, err = f.auth.Authenticate(ctx, "admin", "equivocada")
	requireCode(t, err, apperrors.CodeInvalidCredentials)

	_, err = f.auth.Authenticate(ctx, "ADMIN", "pollo123")
	requireCode(t, err, apperrors.CodeInvalidCredentials)

	// the disabled account is only revealed once the password matches
	_, err = f.auth.Authenticate(ctx, "baja", "equivocada")
	requireCode(t, err, apperrors.CodeInvalidCredentials)
	_, err = f.auth.Authenticate(ctx, "baja", "pollo123")
	requireCode(t, err, apperrors.CodeAccountDisabled)

	assert.Equal(t, apperrors.PublicMessage(err), apperrors.MetadataFor(apperrors.CodeAccountDisabled).PublicMessage)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createUser(t, f, "admin", model.RoleAdministrator, true)

	sess, err := f.auth.Authenticate(ctx, "admin", "pollo123")
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, sess.Token))
	_, err = f.auth.Resolve(ctx, sess.Token)
	requireCode(t, err, apperrors.CodeUnauthorized)

	assert.NoError(t, f.auth.Logout(ctx, "basura"), "logging out a bad token is a no-op")
}

func TestResolveRejectsDisabledUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createUser(t, f, "caja", model.RoleCashier, true)

	sess, err := f.auth.Authenticate(ctx, "caja", "pollo123")
	require.NoError(t, err)

	require.NoError(t, f.auth.SetUserActive(ctx, SystemActor, "caja", false))
	_, err = f.auth.Resolve(ctx, sess.Token)
	requireCode(t, err, apperrors.CodeAccountDisabled)

	_, err = f.auth.Resolve(ctx, "")
	requireCode(t, err, apperrors.CodeUnauthorized)
}

func TestUserAdministration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createUser(t, f, "admin", model.RoleAdministrator, true)

	_, err := f.auth.CreateUser(ctx, SystemActor, UserInput{Username: "admin", Password: "otra123", Name: "Otro", Role: "CAJERO", Active: true})
	requireCode(t, err, apperrors.CodeDuplicateCode)

	_, err = f.auth.CreateUser(ctx, SystemActor, UserInput{Username: "x", Password: "123", Name: "", Role: "GERENTE"})
	requireCode(t, err, apperrors.CodeValidation)
	details := apperrors.As(err).Details()
	assert.Contains(t, details, "username")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "rol")

	_, err = f.auth.CreateUser(ctx, cashier, UserInput{Username: "nuevo", Password: "pollo123", Name: "Nuevo", Role: "CAJERO"})
	requireCode(t, err, apperrors.CodeForbidden)

	require.NoError(t, f.auth.ResetPassword(ctx, SystemActor, "admin", "nueva456"))
	_, err = f.auth.Authenticate(ctx, "admin", "pollo123")
	requireCode(t, err, apperrors.CodeInvalidCredentials)
	_, err = f.auth.Authenticate(ctx, "admin", "nueva456")
	require.NoError(t, err)

	err = f.auth.ResetPassword(ctx, SystemActor, "fantasma", "nueva456")
	requireCode(t, err, apperrors.CodeNotFound)

	users, err := f.auth.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(admin, model.RoleAdministrator))
	assert.NoError(t, Authorize(SystemActor, model.RoleAdministrator))
	requireCode(t, Authorize(cashier, model.RoleAdministrator), apperrors.CodeForbidden)
	requireCode(t, Authorize(Actor{}, model.RoleAdministrator), apperrors.CodeUnauthorized)
	assert.Equal(t, Actor{}, ActorFromUser(nil))
}
