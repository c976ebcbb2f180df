package handler

import (
	"net/url"
	"strings"

	"pollos-admin/internal/middleware"
	"pollos-admin/internal/service"
	apperrors "pollos-admin/pkg/errors"

	"github.com/gofiber/fiber/v2"
)

const homePath = "/productos"

type AuthHandler struct {
	authService service.AuthService
	cookies     middleware.SessionCookies
}

func NewAuthHandler(authService service.AuthService, cookies middleware.SessionCookies) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// LoginRequest is the login form.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// LoginForm renders the login page.
// GET /auth/login
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "login", fiber.Map{
		"Title": "Iniciar sesión",
		"Next":  c.Query("next"),
	})
}

// Login handles user authentication
// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badForm()
	}

	sess, err := h.authService.Authenticate(c.UserContext(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		switch code := apperrors.CodeOf(err); code {
		case apperrors.CodeInvalidCredentials, apperrors.CodeAccountDisabled:
			return render(c, apperrors.MetadataFor(code).HTTPStatus, "login", fiber.Map{
				"Title":     "Iniciar sesión",
				"Next":      req.Next,
				"Username":  req.Username,
				"Flash":     apperrors.PublicMessage(err),
				"FlashKind": middleware.FlashError,
			})
		}
		return err
	}

	h.cookies.Set(c, sess.Token, sess.ExpiresAt)
	return redirect(c, safeNext(req.Next), "Bienvenido, "+sess.User.Name+".")
}

// Logout revokes the session and clears the cookie
// POST /auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(h.cookies.Name); token != "" {
		if err := h.authService.Logout(c.UserContext(), token); err != nil {
			return err
		}
	}
	h.cookies.Clear(c)
	return redirect(c, "/auth/login", "Sesión cerrada.")
}

// safeNext only follows local paths so the login form cannot be used as an
// open redirect.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return homePath
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return homePath
	}
	return next
}
