package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pollos-admin/internal/model"
	apperrors "pollos-admin/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashRoundTrip(t *testing.T) {
	app := fiber.New()
	app.Get("/set", func(c *fiber.Ctx) error {
		SetFlash(c, FlashSuccess, "Producto PECH creado.")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/pop", func(c *fiber.Ctx) error {
		kind, msg := PopFlash(c)
		return c.SendString(kind + ":" + msg)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/set", nil))
	require.NoError(t, err)
	var flash *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == flashCookie {
			flash = c
		}
	}
	require.NotNil(t, flash)

	req := httptest.NewRequest(http.MethodGet, "/pop", nil)
	req.AddCookie(flash)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "success:Producto PECH creado.", readAll(t, resp))

	req = httptest.NewRequest(http.MethodGet, "/pop", nil)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: "%%%"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, ":", readAll(t, resp))
}

func TestRequireRole(t *testing.T) {
	withUser := func(u *model.User) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if u != nil {
				c.Locals(LocalUser, u)
			}
			return c.Next()
		}
	}
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	cases := []struct {
		name     string
		user     *model.User
		status   int
		location string
	}{
		{"administrator", &model.User{ID: 1, Role: model.RoleAdministrator, Active: true}, fiber.StatusOK, ""},
		{"cashier", &model.User{ID: 2, Role: model.RoleCashier, Active: true}, fiber.StatusForbidden, ""},
		{"anonymous", nil, fiber.StatusSeeOther, "/auth/login?next=%2Fproductos"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: statusFromCode})
			app.Get("/productos", withUser(tc.user), RequireRole(model.RoleAdministrator), ok)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/productos", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.location, resp.Header.Get(fiber.HeaderLocation))
		})
	}
}

func statusFromCode(c *fiber.Ctx, err error) error {
	return c.SendStatus(apperrors.MetadataFor(apperrors.CodeOf(err)).HTTPStatus)
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
