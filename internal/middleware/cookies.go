package middleware

import (
	"encoding/base64"
	"strings"
	"time"

	"pollos-admin/pkg/config"

	"github.com/gofiber/fiber/v2"
)

// SessionCookies writes and clears the HTTP-only session cookie.
type SessionCookies struct {
	Name   string
	Secure bool
}

func NewSessionCookies(cfg config.SessionConfig) SessionCookies {
	return SessionCookies{Name: cfg.CookieName, Secure: cfg.CookieSecure}
}

func (s SessionCookies) Set(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s SessionCookies) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Flash kinds, used as CSS classes by the layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"

	flashCookie = "pollos_flash"
)

// SetFlash stores a one-shot notice shown on the next rendered page.
func SetFlash(c *fiber.Ctx, kind, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(kind + "|" + message)),
		Path:     "/",
		MaxAge:   60,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// PopFlash returns the pending notice, if any, and clears it.
func PopFlash(c *fiber.Ctx) (kind, message string) {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return "", ""
	}
	c.Cookie(&fiber.Cookie{Name: flashCookie, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return "", ""
	}
	kind, message, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return "", ""
	}
	return kind, message
}
