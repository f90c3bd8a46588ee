package auth

import (
	"slices"
	"time"
)

// Session is the client-side view of a decoded, unexpired token.
// Values are never modified after construction; a new login builds a new Session.
type Session struct {
	Subject     string
	Role        string
	Authorities []string
	ExpiresAt   time.Time
	RawToken    string
}

func newSession(claims *Claims, raw string) *Session {
	s := &Session{
		Subject:     claims.Subject,
		Role:        claims.Role,
		Authorities: claims.Canonical(),
		RawToken:    raw,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}

// HasAuthority reports whether the canonical authority list contains role.
func (s *Session) HasAuthority(role string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.Authorities, NormalizeRole(role))
}

// State is the provider's snapshot. It is replaced as a whole on every write.
type State struct {
	Session     *Session
	Initialized bool
}

// Authenticated is true iff a session is present.
func (s State) Authenticated() bool {
	return s.Session != nil
}

// Admin is true iff the session carries the admin authority.
func (s State) Admin() bool {
	return s.Session.HasAuthority(RoleAdmin)
}
