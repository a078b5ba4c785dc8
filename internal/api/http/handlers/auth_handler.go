package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/process-desk/internal/api/dto"
	"github.com/spec-kit/process-desk/internal/auth"
	"github.com/spec-kit/process-desk/internal/service"
	"github.com/spec-kit/process-desk/internal/session"
	"github.com/spec-kit/process-desk/internal/web"
	apperrors "github.com/spec-kit/process-desk/pkg/util"
)

// AuthHandler serves the login form and logout.
type AuthHandler struct {
	auth         *service.AuthService
	cookieSecure bool
	logger       *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookieSecure bool, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: authService, cookieSecure: cookieSecure, logger: logger}
}

// ShowLogin handles GET /login.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	if session.FromContext(c).State.Authenticated {
		return redirect(c, "/")
	}
	return render(c, fiber.StatusOK, "login", web.LoginView{Title: "Login"})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return render(c, fiber.StatusBadRequest, "login", web.LoginView{Title: "Login", Error: service.InvalidCredentialsMessage})
	}
	form.Username = strings.TrimSpace(form.Username)

	sess := session.FromContext(c)
	token, exp, err := h.auth.Login(c.UserContext(), sess, form.Username, form.Password)
	if err != nil {
		if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
			h.logger.Warn("login failed", zap.String("username", form.Username), zap.Error(err))
		}
		return render(c, statusOf(err), "login", web.LoginView{
			Title:    "Login",
			Username: form.Username,
			Error:    UserMessage(err),
		})
	}

	sess.Renew()
	auth.SetLoginCookie(c, token, exp, h.cookieSecure)
	return redirect(c, "/")
}

// Logout handles POST /logout. It always succeeds.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.auth.Logout(c.UserContext(), session.FromContext(c))
	auth.ClearLoginCookie(c, h.cookieSecure)
	return redirect(c, "/login")
}
