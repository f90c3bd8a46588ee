package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust-labs/destination-portal/internal/auth/authtest"
	"github.com/wanderlust-labs/destination-portal/internal/events"
)

type recorder struct {
	events []events.Event
}

func (r *recorder) subscribe(d events.Dispatcher, types ...events.EventType) {
	for _, typ := range types {
		d.Subscribe(typ, func(_ context.Context, e events.Event) error {
			r.events = append(r.events, e)
			return nil
		})
	}
}

func (r *recorder) types() []events.EventType {
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestProvider(t *testing.T, stored string) (*Provider, *MemoryStore, *recorder) {
	t.Helper()
	store := NewMemoryStore()
	if stored != "" {
		require.NoError(t, store.Set(context.Background(), stored))
	}
	d := events.NewInMemoryDispatcher()
	rec := &recorder{}
	rec.subscribe(d,
		events.EventSessionRestored,
		events.EventSessionDiscarded,
		events.EventSessionStarted,
		events.EventSessionEnded,
	)
	return NewProvider(store, WithEvents(d), WithSessionKey("browser-1")), store, rec
}

func storedToken(t *testing.T, s TokenStore) string {
	t.Helper()
	tok, err := s.Get(context.Background())
	require.NoError(t, err)
	return tok
}

func TestInitWithoutToken(t *testing.T) {
	p, _, rec := newTestProvider(t, "")
	assert.False(t, p.IsInitialized())

	p.Init(context.Background())

	assert.True(t, p.IsInitialized())
	assert.False(t, p.IsAuthenticated())
	assert.Empty(t, rec.events)
}

func TestInitRestoresSession(t *testing.T) {
	raw := authtest.Token(t, jwt.MapClaims{"sub": "alice", "role": "ROLE_USER"})
	p, store, rec := newTestProvider(t, raw)

	p.Init(context.Background())

	require.True(t, p.IsAuthenticated())
	assert.Equal(t, "alice", p.Session().Subject)
	assert.Equal(t, raw, p.Session().RawToken)
	assert.Equal(t, raw, storedToken(t, store))
	assert.Equal(t, []events.EventType{events.EventSessionRestored}, rec.types())
}

func TestInitDiscardsBadTokens(t *testing.T) {
	for name, raw := range map[string]string{
		"expired":   authtest.ExpiredToken(t, "alice"),
		"malformed": "definitely.not.ajwt",
	} {
		t.Run(name, func(t *testing.T) {
			p, store, rec := newTestProvider(t, raw)

			p.Init(context.Background())

			assert.True(t, p.IsInitialized())
			assert.False(t, p.IsAuthenticated())
			assert.Empty(t, storedToken(t, store))
			require.Len(t, rec.events, 1)
			assert.Equal(t, events.EventSessionDiscarded, rec.events[0].Type)
			assert.Equal(t, name, rec.events[0].Payload.(events.DiscardedPayload).Reason)
		})
	}
}

func TestInitRunsOnce(t *testing.T) {
	p, store, _ := newTestProvider(t, "")
	p.Init(context.Background())

	require.NoError(t, store.Set(context.Background(), authtest.UserToken(t, "late")))
	p.Init(context.Background())

	assert.False(t, p.IsAuthenticated(), "second Init must not re-read the store")
	assert.True(t, p.IsInitialized())
}

type failingStore struct{ MemoryStore }

func (f *failingStore) Get(context.Context) (string, error) { return "", errors.New("store down") }

func TestInitSurvivesStoreFailure(t *testing.T) {
	p := NewProvider(&failingStore{})
	p.Init(context.Background())

	assert.True(t, p.IsInitialized())
	assert.False(t, p.IsAuthenticated())
	assert.Empty(t, p.GetToken(context.Background()))
}

func TestLoginThenGetToken(t *testing.T) {
	p, store, rec := newTestProvider(t, "")
	p.Init(context.Background())
	raw := authtest.UserToken(t, "alice")

	require.NoError(t, p.Login(context.Background(), raw))

	assert.True(t, p.IsAuthenticated())
	assert.True(t, p.IsInitialized())
	assert.Equal(t, raw, p.GetToken(context.Background()))
	assert.Equal(t, raw, storedToken(t, store))
	assert.Equal(t, []events.EventType{events.EventSessionStarted}, rec.types())
}

func TestLoginRejectsBadTokens(t *testing.T) {
	for name, tc := range map[string]struct {
		raw  string
		want error
	}{
		"expired":   {authtest.ExpiredToken(t, "alice"), ErrTokenExpired},
		"malformed": {"nope", ErrTokenMalformed},
	} {
		t.Run(name, func(t *testing.T) {
			p, store, _ := newTestProvider(t, "")
			p.Init(context.Background())

			err := p.Login(context.Background(), tc.raw)

			assert.ErrorIs(t, err, tc.want)
			assert.False(t, p.IsAuthenticated())
			assert.Empty(t, storedToken(t, store))
		})
	}
}

func TestLoginFailureDropsPreviousSession(t *testing.T) {
	p, store, _ := newTestProvider(t, authtest.UserToken(t, "alice"))
	p.Init(context.Background())
	require.True(t, p.IsAuthenticated())

	err := p.Login(context.Background(), authtest.ExpiredToken(t, "bob"))

	require.Error(t, err)
	assert.False(t, p.IsAuthenticated(), "session and store stay consistent")
	assert.Empty(t, storedToken(t, store))
}

func TestLogoutIsIdempotent(t *testing.T) {
	p, store, rec := newTestProvider(t, authtest.UserToken(t, "alice"))
	p.Init(context.Background())

	require.NoError(t, p.Logout(context.Background()))
	once := p.Snapshot()
	require.NoError(t, p.Logout(context.Background()))

	assert.Equal(t, once, p.Snapshot())
	assert.False(t, p.IsAuthenticated())
	assert.True(t, p.IsInitialized(), "logout never resets initialization")
	assert.Empty(t, storedToken(t, store))
	assert.Equal(t, []events.EventType{events.EventSessionRestored, events.EventSessionEnded}, rec.types())
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		admin  bool
	}{
		{"flat role", jwt.MapClaims{"sub": "a", "role": "ROLE_ADMIN"}, true},
		{"authorities", jwt.MapClaims{"sub": "a", "authorities": []string{"ROLE_ADMIN"}}, true},
		{"user role", jwt.MapClaims{"sub": "a", "role": "ROLE_USER"}, false},
		{"user authority", jwt.MapClaims{"sub": "a", "authorities": []string{"ROLE_USER"}}, false},
		{"no role", jwt.MapClaims{"sub": "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := newTestProvider(t, "")
			p.Init(context.Background())
			require.NoError(t, p.Login(context.Background(), authtest.Token(t, tt.claims)))
			assert.Equal(t, tt.admin, p.IsAdmin())
		})
	}

	t.Run("no session", func(t *testing.T) {
		p, _, _ := newTestProvider(t, "")
		p.Init(context.Background())
		assert.False(t, p.IsAdmin())
	})
}

func TestHasRole(t *testing.T) {
	p, _, _ := newTestProvider(t, "")
	p.Init(context.Background())
	assert.False(t, p.HasRole("USER"), "absent session")

	require.NoError(t, p.Login(context.Background(), authtest.Token(t, jwt.MapClaims{
		"sub":         "carol",
		"role":        "EDITOR",
		"authorities": []string{"ROLE_USER"},
	})))

	assert.True(t, p.HasRole("USER"))
	assert.True(t, p.HasRole("ROLE_USER"))
	assert.True(t, p.HasRole("EDITOR"), "flat role is part of the canonical authorities")
	assert.False(t, p.HasRole("ADMIN"))
}

func TestGetTokenFallsBackToStore(t *testing.T) {
	p, store, _ := newTestProvider(t, "")
	p.Init(context.Background())

	raw := authtest.UserToken(t, "dave")
	require.NoError(t, store.Set(context.Background(), raw))

	assert.False(t, p.IsAuthenticated())
	assert.Equal(t, raw, p.GetToken(context.Background()))
}

func TestClockDrivesExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	raw := authtest.Token(t, jwt.MapClaims{"sub": "eve", "exp": exp.Unix()})
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), raw))

	p := NewProvider(store, WithClock(func() time.Time { return exp.Add(time.Second) }))
	p.Init(context.Background())

	assert.False(t, p.IsAuthenticated())
	assert.Empty(t, storedToken(t, store))
}

func TestRevocationLogsOut(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	SubscribeRevocations(d)

	store := NewMemoryStore()
	p := NewProvider(store, WithEvents(d))
	p.Init(context.Background())
	require.NoError(t, p.Login(context.Background(), authtest.UserToken(t, "frank")))

	ctx := WithProvider(context.Background(), p)
	require.NoError(t, d.Publish(ctx, events.NewEvent(events.EventSessionRevoked, "", "", nil)))

	assert.False(t, p.IsAuthenticated())
	assert.Empty(t, storedToken(t, store))

	// no provider on the context: nothing to do
	assert.NoError(t, d.Publish(context.Background(), events.NewEvent(events.EventSessionRevoked, "", "", nil)))
}
