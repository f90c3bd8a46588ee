package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// RolePrefix marks an authority as a role.
	RolePrefix = "ROLE_"
	RoleAdmin  = RolePrefix + "ADMIN"
	RoleUser   = RolePrefix + "USER"
)

// NormalizeRole returns role with the ROLE_ prefix, e.g. "ADMIN" -> "ROLE_ADMIN".
func NormalizeRole(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return ""
	}
	if strings.HasPrefix(role, RolePrefix) {
		return role
	}
	return RolePrefix + role
}

// RequireSession lets authenticated browsers through and sends everyone else to login.
func RequireSession() fiber.Handler {
	return guardHandler(false)
}

// RequireAdmin additionally bounces authenticated non-admins to the home page.
func RequireAdmin() fiber.Handler {
	return guardHandler(true)
}

func guardHandler(adminOnly bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var state State
		if p, ok := ProviderFromFiber(c); ok {
			state = p.Snapshot()
		}

		decision := Decide(state, adminOnly, c.OriginalURL())
		switch decision.Action {
		case ActionLoading:
			c.Set(fiber.HeaderRetryAfter, "1")
			c.Set(fiber.HeaderCacheControl, "no-store")
			return c.Status(http.StatusServiceUnavailable).SendString("restoring session")
		case ActionRedirect:
			return c.Redirect(decision.Location(), http.StatusFound)
		default:
			return c.Next()
		}
	}
}
