package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust-labs/destination-portal/internal/auth/authtest"
	"github.com/wanderlust-labs/destination-portal/internal/events"
)

const (
	testCookie = "dest_session"
	browserKey = "6f1c2a9e-3d4b-4c7a-9e2f-1a2b3c4d5e6f"
)

func newGuardedApp(stores StoreFactory) *fiber.App {
	app := fiber.New()
	loader := NewSessionLoader(stores, events.NewInMemoryDispatcher(), nil, CookieConfig{Name: testCookie})
	app.Use(loader.Handle)

	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/", RequireSession(), ok)
	app.Get("/add-destination", RequireAdmin(), ok)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		p, found := ProviderFromContext(c.UserContext())
		if !found || !p.IsAuthenticated() {
			return c.SendString("anonymous")
		}
		return c.SendString(p.Session().Subject)
	})
	return app
}

func request(t *testing.T, app *fiber.App, path, key string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: key})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	app := newGuardedApp(NewMemoryStoreFactory())

	resp := request(t, app, "/add-destination", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fadd-destination", resp.Header.Get("Location"))

	var issued *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == testCookie {
			issued = c
		}
	}
	require.NotNil(t, issued, "browser key cookie is issued")
	assert.True(t, issued.HttpOnly)
}

func TestGuardSendsNonAdminHome(t *testing.T) {
	stores := NewMemoryStoreFactory()
	require.NoError(t, stores(browserKey).Set(context.Background(), authtest.UserToken(t, "alice")))
	app := newGuardedApp(stores)

	resp := request(t, app, "/add-destination", browserKey)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp = request(t, app, "/", browserKey)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuardLetsAdminThrough(t *testing.T) {
	stores := NewMemoryStoreFactory()
	require.NoError(t, stores(browserKey).Set(context.Background(), authtest.AdminToken(t, "root")))
	app := newGuardedApp(stores)

	resp := request(t, app, "/add-destination", browserKey)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoaderPurgesExpiredToken(t *testing.T) {
	stores := NewMemoryStoreFactory()
	require.NoError(t, stores(browserKey).Set(context.Background(), authtest.ExpiredToken(t, "alice")))
	app := newGuardedApp(stores)

	resp := request(t, app, "/", browserKey)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	tok, err := stores(browserKey).Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestLoaderPutsProviderOnUserContext(t *testing.T) {
	stores := NewMemoryStoreFactory()
	require.NoError(t, stores(browserKey).Set(context.Background(), authtest.UserToken(t, "alice")))
	app := newGuardedApp(stores)

	resp := request(t, app, "/whoami", browserKey)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "alice", string(body))
}

func TestAnonymousVisitsLeaveNoSlots(t *testing.T) {
	stores := NewMemoryStores()
	app := newGuardedApp(stores.For)

	for i := 0; i < 50; i++ {
		resp := request(t, app, "/", "")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		resp = request(t, app, "/whoami", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Zero(t, stores.Len())

	require.NoError(t, stores.For(browserKey).Set(context.Background(), authtest.UserToken(t, "alice")))
	resp := request(t, app, "/", browserKey)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, stores.Len())
}

func TestGuardWithoutLoaderShowsLoading(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireSession(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	assert.Empty(t, resp.Header.Get("Location"))
}
