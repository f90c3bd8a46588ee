package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenMalformed is returned when a token cannot be decoded as a JWT.
	ErrTokenMalformed = errors.New("auth: malformed token")
	// ErrTokenExpired is returned when a decoded token's exp lies in the past.
	ErrTokenExpired = errors.New("auth: token expired")
)

// Claims is the subset of the backend's JWT payload the client cares about.
// Two role shapes are in circulation: a flat "role" string and an
// "authorities" list of ROLE_-prefixed entries.
type Claims struct {
	Role        string        `json:"role,omitempty"`
	Authorities AuthorityList `json:"authorities,omitempty"`
	jwt.RegisteredClaims
}

// AuthorityList decodes either ["ROLE_A"] or [{"authority":"ROLE_A"}].
type AuthorityList []string

// UnmarshalJSON accepts plain strings, Spring-style authority objects, or a single string.
func (a *AuthorityList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = splitAuthorities(single)
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("authorities: %w", err)
	}

	out := make(AuthorityList, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Authority string `json:"authority"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("authorities: %w", err)
		}
		out = append(out, obj.Authority)
	}
	*a = out
	return nil
}

func splitAuthorities(s string) AuthorityList {
	var out AuthorityList
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Decode reads a token's claims WITHOUT verifying its signature.
//
// Signature and issuer checks belong to the backend. The result is only good
// enough for UI routing decisions and must never be used to enforce access.
func Decode(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrTokenMalformed)
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	return claims, nil
}

// Check decodes raw and rejects it when expired at now.
func Check(raw string, now time.Time) (*Claims, error) {
	claims, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if claims.Expired(now) {
		return nil, fmt.Errorf("%w: at %s", ErrTokenExpired, claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
	}
	return claims, nil
}

// Expired reports exp < now at seconds resolution. Tokens without exp never expire here.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Time.Unix() < now.Unix()
}

// Canonical folds the flat role claim into the authorities list, prefixing
// bare role names, and drops duplicates.
func (c *Claims) Canonical() []string {
	seen := make(map[string]struct{}, len(c.Authorities)+1)
	out := make([]string, 0, len(c.Authorities)+1)
	add := func(role string) {
		role = NormalizeRole(role)
		if role == "" {
			return
		}
		if _, dup := seen[role]; dup {
			return
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	for _, a := range c.Authorities {
		add(a)
	}
	add(c.Role)
	return out
}
