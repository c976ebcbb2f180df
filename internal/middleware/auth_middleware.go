package middleware

import (
	"net/url"

	"pollos-admin/internal/model"
	"pollos-admin/internal/service"
	apperrors "pollos-admin/pkg/errors"
	"pollos-admin/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// LocalUser is the c.Locals key holding the signed-in *model.User.
const LocalUser = "user"

const loginPath = "/auth/login"

// RequireAuth resolves the session cookie into a user and stores it in the
// request. Requests without a usable session are sent to the login form.
func RequireAuth(auth service.AuthService, cookies SessionCookies, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookies.Name)
		if token == "" {
			return RedirectToLogin(c, apperrors.MetadataFor(apperrors.CodeUnauthorized).PublicMessage)
		}

		user, err := auth.Resolve(c.UserContext(), token)
		if err != nil {
			cookies.Clear(c)
			switch apperrors.CodeOf(err) {
			case apperrors.CodeUnauthorized, apperrors.CodeAccountDisabled:
				return RedirectToLogin(c, apperrors.PublicMessage(err))
			}
			return err
		}

		c.Locals(LocalUser, user)
		ctx := log.WithUserID(c.UserContext(), user.ID)
		ctx = log.WithActorRole(ctx, string(user.Role))
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RequireRole rejects signed-in users whose role is not role. The rejection
// is returned as an error so the app's error handler renders the 403 page.
func RequireRole(role model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := service.Authorize(Actor(c), role)
		if err == nil {
			return c.Next()
		}
		if apperrors.Is(err, apperrors.CodeUnauthorized) {
			return RedirectToLogin(c, apperrors.PublicMessage(err))
		}
		return apperrors.New(apperrors.CodeForbidden, "se requiere el rol "+string(role))
	}
}

func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(LocalUser).(*model.User)
	return user
}

// Actor is the service-layer identity of the current request.
func Actor(c *fiber.Ctx) service.Actor {
	return service.ActorFromUser(CurrentUser(c))
}

// RedirectToLogin sends the browser to the login form with notice. GET
// requests carry their URL along as next= so login can return to it.
func RedirectToLogin(c *fiber.Ctx, notice string) error {
	SetFlash(c, FlashError, notice)
	target := loginPath
	if c.Method() == fiber.MethodGet {
		if next := c.OriginalURL(); next != "" && next != "/" {
			target += "?next=" + url.QueryEscape(next)
		}
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}
