package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// LoginCookieName carries the persistent login token.
const LoginCookieName = "auth"

// SetLoginCookie stores the signed token until expiresAt.
func SetLoginCookie(c *fiber.Ctx, token string, expiresAt time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     LoginCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearLoginCookie expires the login cookie. Clearing an absent cookie is fine.
func ClearLoginCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     LoginCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// LoginToken returns the raw token from the request, if any.
func LoginToken(c *fiber.Ctx) string {
	return c.Cookies(LoginCookieName)
}
