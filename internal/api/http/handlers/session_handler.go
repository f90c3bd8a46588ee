package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wanderlust-labs/destination-portal/internal/api/dto"
	"github.com/wanderlust-labs/destination-portal/internal/auth"
	"github.com/wanderlust-labs/destination-portal/internal/observability"
)

// SessionHandler reports the session and counters as JSON.
type SessionHandler struct {
	metrics *observability.Metrics
}

func NewSessionHandler(metrics *observability.Metrics) *SessionHandler {
	return &SessionHandler{metrics: metrics}
}

// Show handles GET /session.
func (h *SessionHandler) Show(c *fiber.Ctx) error {
	var state auth.State
	if p, ok := auth.ProviderFromFiber(c); ok {
		state = p.Snapshot()
	}

	resp := dto.SessionResponse{
		Initialized:   state.Initialized,
		Authenticated: state.Authenticated(),
		Authorities:   []string{},
		IsAdmin:       state.Admin(),
	}
	if s := state.Session; s != nil {
		resp.Subject = s.Subject
		resp.Role = s.Role
		resp.Authorities = s.Authorities
		if !s.ExpiresAt.IsZero() {
			resp.ExpiresAt = s.ExpiresAt.UTC().Format(time.RFC3339)
		}
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(resp)
}

// Metrics handles GET /metrics.
func (h *SessionHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
