package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/wanderlust-labs/destination-portal/internal/events"
)

// Provider owns the session state for one client: one browser key on the web
// server, one credentials file in the CLI.
//
// All writes go through the provider's mutex and swap in a fresh State, so
// readers always see a complete snapshot.
type Provider struct {
	store      TokenStore
	events     events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
	sessionKey string

	mu    sync.Mutex
	state atomic.Pointer[State]
	once  sync.Once
}

// Option configures a Provider.
type Option func(*Provider)

// WithEvents publishes session transitions to d.
func WithEvents(d events.Dispatcher) Option {
	return func(p *Provider) {
		if d != nil {
			p.events = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// WithSessionKey tags published events with the client's key.
func WithSessionKey(key string) Option {
	return func(p *Provider) {
		p.sessionKey = key
	}
}

// NewProvider builds an uninitialized provider over store.
func NewProvider(store TokenStore, opts ...Option) *Provider {
	p := &Provider{
		store:  store,
		events: events.Nop,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state.Store(&State{})
	return p
}

// Init restores the session from the token store. Only the first call does any work.
// Malformed or expired tokens are purged; Initialized is set whatever happens.
func (p *Provider) Init(ctx context.Context) {
	p.once.Do(func() {
		p.mu.Lock()
		sess, event := p.restore(ctx)
		p.replace(State{Session: sess, Initialized: true})
		p.mu.Unlock()

		if event != nil {
			p.publish(ctx, *event)
		}
	})
}

// restore must run with p.mu held.
func (p *Provider) restore(ctx context.Context) (*Session, *events.Event) {
	raw, err := p.store.Get(ctx)
	if err != nil {
		p.logger.Warn("token store read failed", zap.String("session_key", p.sessionKey), zap.Error(err))
		return nil, nil
	}
	if raw == "" {
		return nil, nil
	}

	claims, err := Check(raw, p.now())
	if err != nil {
		p.logger.Info("discarding stored token", zap.String("session_key", p.sessionKey), zap.Error(err))
		p.clearStore(ctx)
		ev := events.NewEvent(events.EventSessionDiscarded, p.sessionKey, "", events.DiscardedPayload{Reason: discardReason(err)})
		return nil, &ev
	}

	sess := newSession(claims, raw)
	ev := events.NewEvent(events.EventSessionRestored, p.sessionKey, sess.Subject, nil)
	return sess, &ev
}

// Login installs token as the current session.
//
// A token that fails to decode or is already expired purges the store, drops
// any previous session and is returned to the caller.
func (p *Provider) Login(ctx context.Context, token string) error {
	claims, err := Check(token, p.now())
	if err != nil {
		p.mu.Lock()
		p.clearStore(ctx)
		p.replace(State{Initialized: p.Snapshot().Initialized})
		p.mu.Unlock()
		return err
	}

	sess := newSession(claims, token)

	p.mu.Lock()
	if err := p.store.Set(ctx, token); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("persist token: %w", err)
	}
	p.replace(State{Session: sess, Initialized: p.Snapshot().Initialized})
	p.mu.Unlock()

	p.publish(ctx, events.NewEvent(events.EventSessionStarted, p.sessionKey, sess.Subject, nil))
	return nil
}

// Logout clears the store and the session. Calling it again is harmless.
func (p *Provider) Logout(ctx context.Context) error {
	p.mu.Lock()
	prev := p.Snapshot()
	err := p.store.Clear(ctx)
	p.replace(State{Initialized: prev.Initialized})
	p.mu.Unlock()

	if prev.Session != nil {
		p.publish(ctx, events.NewEvent(events.EventSessionEnded, p.sessionKey, prev.Session.Subject, nil))
	}
	if err != nil {
		return fmt.Errorf("clear token store: %w", err)
	}
	return nil
}

// IsAdmin reports whether the current session carries the admin authority.
func (p *Provider) IsAdmin() bool {
	return p.Snapshot().Admin()
}

// HasRole reports whether the session carries role; "ADMIN" and "ROLE_ADMIN" are equivalent.
func (p *Provider) HasRole(role string) bool {
	return p.Snapshot().Session.HasAuthority(role)
}

// GetToken returns the session's raw token, falling back to the store when
// the session has not caught up with it yet.
func (p *Provider) GetToken(ctx context.Context) string {
	if sess := p.Snapshot().Session; sess != nil {
		return sess.RawToken
	}
	raw, err := p.store.Get(ctx)
	if err != nil {
		p.logger.Warn("token store read failed", zap.String("session_key", p.sessionKey), zap.Error(err))
		return ""
	}
	return raw
}

func (p *Provider) IsAuthenticated() bool {
	return p.Snapshot().Authenticated()
}

func (p *Provider) IsInitialized() bool {
	return p.Snapshot().Initialized
}

// Session returns the current session or nil.
func (p *Provider) Session() *Session {
	return p.Snapshot().Session
}

// Snapshot returns the current state.
func (p *Provider) Snapshot() State {
	return *p.state.Load()
}

// Store exposes the token store so the HTTP client can read it per request.
func (p *Provider) Store() TokenStore {
	return p.store
}

// SessionKey identifies the client this provider belongs to.
func (p *Provider) SessionKey() string {
	return p.sessionKey
}

func (p *Provider) replace(s State) {
	p.state.Store(&s)
}

func (p *Provider) clearStore(ctx context.Context) {
	if err := p.store.Clear(ctx); err != nil {
		p.logger.Warn("token store clear failed", zap.String("session_key", p.sessionKey), zap.Error(err))
	}
}

func (p *Provider) publish(ctx context.Context, event events.Event) {
	if err := p.events.Publish(ctx, event); err != nil {
		p.logger.Warn("session event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func discardReason(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
