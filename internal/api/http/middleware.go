package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wanderlust-labs/destination-portal/internal/api/http/handlers"
	"github.com/wanderlust-labs/destination-portal/internal/auth"
	"github.com/wanderlust-labs/destination-portal/internal/observability"
	apperrors "github.com/wanderlust-labs/destination-portal/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as logging, timeouts and error handling.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware turns handler errors into pages or JSON. A backend
// 401/403 has already cleared the session by the time it gets here, so the
// browser is sent to the login page.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}

			domainErr := toDomainError(err)
			metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
			if domainErr.HTTPStatus >= 500 {
				logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
			}

			if apperrors.IsAuthorizationFailure(domainErr) && !wantsJSON(c) {
				err = c.Redirect(auth.LoginPath, redirectStatus(c))
				return
			}
			if wantsJSON(c) {
				err = writeJSONError(c, domainErr)
				return
			}
			if renderErr := handlers.RenderError(c, domainErr.HTTPStatus, domainErr.Message); renderErr != nil {
				logger.Error("render error page", zap.Error(renderErr))
				err = writeJSONError(c, domainErr)
				return
			}
			err = nil
		}()
		return c.Next()
	}
}

func toDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := apperrors.CodeInternal
		switch {
		case fiberErr.Code == http.StatusNotFound:
			code = apperrors.CodeNotFound
		case fiberErr.Code == http.StatusTooManyRequests:
			code = apperrors.CodeRateLimited
		case fiberErr.Code < 500:
			code = apperrors.CodeValidationFailed
		}
		return apperrors.NewDomainError(code, fiberErr.Message, fiberErr.Code, nil)
	}
	return apperrors.ToDomainError(err)
}

func writeJSONError(c *fiber.Ctx, domainErr *apperrors.DomainError) error {
	body := fiber.Map{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}
	if len(domainErr.Details) > 0 {
		body["details"] = domainErr.Details
	}
	return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": body})
}

func wantsJSON(c *fiber.Ctx) bool {
	if strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON) {
		return true
	}
	path := c.Path()
	return path == "/session" || path == "/metrics" || strings.HasPrefix(path, "/health/")
}

// redirectStatus makes browsers follow a redirect from a form post with GET.
func redirectStatus(c *fiber.Ctx) int {
	if c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
