// Package apitest runs an in-process destination backend for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/wanderlust-labs/destination-portal/internal/auth"
	"github.com/wanderlust-labs/destination-portal/internal/auth/authtest"
	"github.com/wanderlust-labs/destination-portal/internal/domain"
)

type account struct {
	password string
	token    string
}

// Backend mimics the destination REST API. Reads need any bearer token,
// writes need ROLE_ADMIN.
type Backend struct {
	*httptest.Server

	t        testing.TB
	mu       sync.Mutex
	dests    map[int64]domain.Destination
	nextID   int64
	accounts map[string]account
	revoked  map[string]bool
	requests []string
}

// NewBackend starts a backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		t:        t,
		dests:    map[int64]domain.Destination{},
		nextID:   1,
		accounts: map[string]account{},
		revoked:  map[string]bool{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", b.login)
	mux.HandleFunc("POST /auth/register", b.register)
	mux.HandleFunc("GET /destinations", b.reader(b.list))
	mux.HandleFunc("GET /destinations/top", b.reader(b.top))
	mux.HandleFunc("GET /destinations/search", b.reader(b.search))
	mux.HandleFunc("GET /destinations/{id}", b.reader(b.get))
	mux.HandleFunc("POST /destinations", b.writer(b.create))
	mux.HandleFunc("PUT /destinations/{id}", b.writer(b.update))
	mux.HandleFunc("DELETE /destinations/{id}", b.writer(b.delete))

	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.RequestURI())
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.Server.Close)
	return b
}

// AddUser registers an account whose login returns a token with the given role.
func (b *Backend) AddUser(email, password, role string) string {
	token := authtest.Token(b.t, jwt.MapClaims{"sub": email, "role": auth.NormalizeRole(role)})
	b.mu.Lock()
	b.accounts[email] = account{password: password, token: token}
	b.mu.Unlock()
	return token
}

// Revoke makes the backend answer 401 to token from now on.
func (b *Backend) Revoke(token string) {
	b.mu.Lock()
	b.revoked[token] = true
	b.mu.Unlock()
}

// Seed stores d and returns it with its assigned ID.
func (b *Backend) Seed(d domain.Destination) domain.Destination {
	b.mu.Lock()
	defer b.mu.Unlock()
	d.ID = b.nextID
	b.nextID++
	b.dests[d.ID] = d
	return d
}

// Destination returns the stored destination with id.
func (b *Backend) Destination(id int64) (domain.Destination, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.dests[id]
	return d, ok
}

// Requests lists "METHOD /path?query" for every request received so far.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.requests)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	b.mu.Lock()
	acc, ok := b.accounts[creds.Email]
	b.mu.Unlock()
	if !ok || acc.password != creds.Password {
		writeError(w, http.StatusUnauthorized, "Bad credentials")
		return
	}
	writeJSON(w, http.StatusOK, domain.AuthResult{Token: acc.token})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	b.mu.Lock()
	_, taken := b.accounts[reg.Email]
	b.mu.Unlock()
	if taken {
		writeError(w, http.StatusBadRequest, "Email already in use")
		return
	}
	role := reg.Role
	if role == "" {
		role = domain.DefaultRegistrationRole
	}
	token := b.AddUser(reg.Email, reg.Password, role)
	writeJSON(w, http.StatusOK, domain.AuthResult{Token: token, Role: auth.NormalizeRole(role)})
}

func (b *Backend) reader(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := b.bearerClaims(r); !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}

func (b *Backend) writer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := b.bearerClaims(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !slices.Contains(claims.Canonical(), auth.RoleAdmin) {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next(w, r)
	}
}

func (b *Backend) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.sorted(func(domain.Destination) bool { return true }))
}

func (b *Backend) top(w http.ResponseWriter, _ *http.Request) {
	all := b.sorted(func(domain.Destination) bool { return true })
	sort.SliceStable(all, func(i, j int) bool { return all[i].Rating > all[j].Rating })
	if len(all) > 3 {
		all = all[:3]
	}
	writeJSON(w, http.StatusOK, all)
}

func (b *Backend) search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("query"))
	writeJSON(w, http.StatusOK, b.sorted(func(d domain.Destination) bool {
		return strings.Contains(strings.ToLower(d.Name), q) || strings.Contains(strings.ToLower(d.Location), q)
	}))
}

func (b *Backend) get(w http.ResponseWriter, r *http.Request) {
	d, ok := b.lookup(w, r)
	if ok {
		writeJSON(w, http.StatusOK, d)
	}
}

func (b *Backend) create(w http.ResponseWriter, r *http.Request) {
	var in domain.DestinationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	writeJSON(w, http.StatusCreated, b.Seed(fromInput(0, in)))
}

func (b *Backend) update(w http.ResponseWriter, r *http.Request) {
	d, ok := b.lookup(w, r)
	if !ok {
		return
	}
	var in domain.DestinationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	updated := fromInput(d.ID, in)
	b.mu.Lock()
	b.dests[d.ID] = updated
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, updated)
}

func (b *Backend) delete(w http.ResponseWriter, r *http.Request) {
	d, ok := b.lookup(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	delete(b.dests, d.ID)
	b.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) lookup(w http.ResponseWriter, r *http.Request) (domain.Destination, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad id")
		return domain.Destination{}, false
	}
	d, ok := b.Destination(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Destination not found")
		return domain.Destination{}, false
	}
	return d, true
}

func (b *Backend) sorted(keep func(domain.Destination) bool) []domain.Destination {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []domain.Destination{}
	for _, d := range b.dests {
		if keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) bearerClaims(r *http.Request) (*auth.Claims, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return nil, false
	}
	b.mu.Lock()
	revoked := b.revoked[raw]
	b.mu.Unlock()
	if revoked {
		return nil, false
	}
	claims, err := auth.Decode(raw)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func fromInput(id int64, in domain.DestinationInput) domain.Destination {
	return domain.Destination{
		ID:          id,
		Name:        in.Name,
		Location:    in.Location,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Rating:      in.Rating,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
