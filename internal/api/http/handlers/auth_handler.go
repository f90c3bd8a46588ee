package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wanderlust-labs/destination-portal/internal/api/dto"
	"github.com/wanderlust-labs/destination-portal/internal/auth"
	"github.com/wanderlust-labs/destination-portal/internal/service"
)

// AuthHandler serves the login, sign-up and logout pages.
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: authService, logger: logger}
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	next := auth.SafeNext(c.Query(auth.NextParam))
	if p, ok := auth.ProviderFromFiber(c); ok && p.IsAuthenticated() {
		return c.Redirect(landing(next), http.StatusFound)
	}
	return render(c, http.StatusOK, "login", viewData{
		"title": "Log in",
		"next":  next,
		"form":  dto.LoginForm{},
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid form")
	}
	next := auth.SafeNext(form.Next)

	p, err := provider(c)
	if err != nil {
		return err
	}

	input := form.Input()
	form.Password = ""
	data := viewData{"title": "Log in", "next": next, "form": form}
	if err := h.auth.Login(c.UserContext(), p, input); err != nil {
		return formFailure(c, "login", data, err)
	}

	h.logger.Info("login succeeded", zap.String("subject", p.Session().Subject))
	return c.Redirect(landing(next), http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	return render(c, http.StatusOK, "register", viewData{
		"title": "Sign up",
		"form":  dto.RegisterForm{},
	})
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var form dto.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid form")
	}

	p, err := provider(c)
	if err != nil {
		return err
	}

	input := form.Input()
	form.Password, form.ConfirmPassword = "", ""
	data := viewData{"title": "Sign up", "form": form}
	if err := h.auth.Register(c.UserContext(), p, input); err != nil {
		return formFailure(c, "register", data, err)
	}
	return c.Redirect(auth.HomePath, http.StatusSeeOther)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p, err := provider(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), p); err != nil {
		h.logger.Warn("logout failed", zap.Error(err))
	}
	return c.Redirect(auth.LoginPath, http.StatusSeeOther)
}

func landing(next string) string {
	if next == "" {
		return auth.HomePath
	}
	return next
}
