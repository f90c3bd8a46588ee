package apiclient

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/wanderlust-labs/destination-portal/internal/auth"
	"github.com/wanderlust-labs/destination-portal/internal/events"
)

type anonymousKey struct{}

// WithoutSession marks ctx so requests made with it carry no bearer token and
// a 401/403 answer does not revoke the session. Used for credential exchange.
func WithoutSession(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

func isAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey{}).(bool)
	return v
}

// bearerTransport attaches the stored token to each request and, when the
// backend refuses it, clears the store and announces the revocation.
type bearerTransport struct {
	base   http.RoundTripper
	events events.Dispatcher
	logger *zap.Logger
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if isAnonymous(ctx) {
		return t.base.RoundTrip(req)
	}

	provider, hasProvider := auth.ProviderFromContext(ctx)
	if hasProvider {
		token, err := provider.Store().Get(ctx)
		if err != nil {
			t.logger.Warn("read token for request", zap.String("path", req.URL.Path), zap.Error(err))
		}
		if token != "" {
			req = req.Clone(ctx)
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		t.revoke(ctx, provider, req, resp.StatusCode)
	}
	return resp, nil
}

func (t *bearerTransport) revoke(ctx context.Context, provider *auth.Provider, req *http.Request, status int) {
	key := ""
	if provider != nil {
		key = provider.SessionKey()
		if err := provider.Store().Clear(ctx); err != nil {
			t.logger.Warn("clear token after rejection", zap.Error(err))
		}
	}

	t.logger.Info("backend rejected session",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", status),
		zap.String("session_key", key))

	event := events.NewEvent(events.EventSessionRevoked, key, "", events.RevokedPayload{
		Method: req.Method,
		Path:   req.URL.Path,
		Status: status,
	})
	if err := t.events.Publish(ctx, event); err != nil {
		t.logger.Warn("session revocation handler failed", zap.Error(err))
	}
}
