package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wanderlust-labs/destination-portal/internal/events"
)

const providerKey = "auth_provider"

type ctxKey struct{}

// WithProvider returns a copy of ctx carrying p.
func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// ProviderFromContext retrieves the provider stored by WithProvider.
func ProviderFromContext(ctx context.Context) (*Provider, bool) {
	p, ok := ctx.Value(ctxKey{}).(*Provider)
	return p, ok && p != nil
}

// ProviderFromFiber retrieves the provider installed by SessionLoader.
func ProviderFromFiber(c *fiber.Ctx) (*Provider, bool) {
	val := c.Locals(providerKey)
	if val == nil {
		return nil, false
	}
	p, ok := val.(*Provider)
	return p, ok
}

// CookieConfig describes the browser key cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// SessionLoader gives every request a Provider bound to the browser's token slot.
type SessionLoader struct {
	stores StoreFactory
	events events.Dispatcher
	logger *zap.Logger
	cookie CookieConfig
	now    func() time.Time
}

// NewSessionLoader constructs middleware.
func NewSessionLoader(stores StoreFactory, dispatcher events.Dispatcher, logger *zap.Logger, cookie CookieConfig) *SessionLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dispatcher == nil {
		dispatcher = events.Nop
	}
	return &SessionLoader{stores: stores, events: dispatcher, logger: logger, cookie: cookie, now: time.Now}
}

// Handle resolves the browser key, restores the session and exposes the provider
// to later handlers and to outgoing API calls made with c.UserContext().
func (m *SessionLoader) Handle(c *fiber.Ctx) error {
	key := c.Cookies(m.cookie.Name)
	if _, err := uuid.Parse(key); err != nil {
		key = uuid.NewString()
	}
	m.setCookie(c, key)

	p := NewProvider(m.stores(key),
		WithEvents(m.events),
		WithLogger(m.logger),
		WithSessionKey(key),
		WithClock(m.now),
	)
	p.Init(c.UserContext())

	c.Locals(providerKey, p)
	c.SetUserContext(WithProvider(c.UserContext(), p))
	return c.Next()
}

func (m *SessionLoader) setCookie(c *fiber.Ctx, key string) {
	cookie := &fiber.Cookie{
		Name:     m.cookie.Name,
		Value:    key,
		Path:     "/",
		HTTPOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if m.cookie.TTL > 0 {
		cookie.Expires = m.now().Add(m.cookie.TTL)
	}
	c.Cookie(cookie)
}
