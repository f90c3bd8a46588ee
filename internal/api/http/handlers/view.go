package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/wanderlust-labs/destination-portal/internal/api/http/views"
	"github.com/wanderlust-labs/destination-portal/internal/auth"
	apperrors "github.com/wanderlust-labs/destination-portal/pkg/util/errorutil"
)

type viewData = map[string]any

const networkMessage = "Could not reach the destination service. Please try again."

// render adds the session fields the layout needs and renders name inside it.
func render(c *fiber.Ctx, status int, name string, data viewData) error {
	if data == nil {
		data = viewData{}
	}
	var state auth.State
	if p, ok := auth.ProviderFromFiber(c); ok {
		state = p.Snapshot()
	}
	data["authenticated"] = state.Authenticated()
	data["isAdmin"] = state.Admin()
	if state.Session != nil {
		data["subject"] = state.Session.Subject
	}
	return c.Status(status).Render(name, data, views.Layout)
}

// RenderError shows the error page.
func RenderError(c *fiber.Ctx, status int, message string) error {
	return render(c, status, "error", viewData{
		"title":   http.StatusText(status),
		"status":  status,
		"message": message,
	})
}

// formFailure re-renders a form page for errors the user can act on and
// returns every other error to the error middleware.
func formFailure(c *fiber.Ctx, page string, data viewData, err error) error {
	switch {
	case errors.Is(err, auth.ErrTokenMalformed), errors.Is(err, auth.ErrTokenExpired):
		data["error"] = "The server returned an unusable session token."
		return render(c, http.StatusBadGateway, page, data)
	case apperrors.HasCode(err, apperrors.CodeValidationFailed, apperrors.CodeAuthFailed, apperrors.CodeNetwork, apperrors.CodeConflict):
	default:
		return err
	}

	domainErr := apperrors.ToDomainError(err)
	data["error"] = domainErr.Message
	if domainErr.Code == apperrors.CodeNetwork {
		data["error"] = networkMessage
	}
	if domainErr.Code == apperrors.CodeValidationFailed {
		data["fieldErrors"] = domainErr.Details
	}
	return render(c, domainErr.HTTPStatus, page, data)
}

func provider(c *fiber.Ctx) (*auth.Provider, error) {
	p, ok := auth.ProviderFromFiber(c)
	if !ok {
		return nil, apperrors.NewInternalError(errors.New("session loader not installed"))
	}
	return p, nil
}
