package auth

import (
	"context"

	"github.com/wanderlust-labs/destination-portal/internal/events"
)

// SubscribeRevocations makes the session owner react to EventSessionRevoked.
// The HTTP client publishes with the request context, which carries the
// provider whose token the backend just rejected.
func SubscribeRevocations(d events.Dispatcher) {
	d.Subscribe(events.EventSessionRevoked, func(ctx context.Context, _ events.Event) error {
		p, ok := ProviderFromContext(ctx)
		if !ok {
			return nil
		}
		return p.Logout(ctx)
	})
}
