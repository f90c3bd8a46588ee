// Package authtest mints unverified-but-well-formed JWTs for tests.
package authtest

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var signingKey = []byte("authtest-signing-key")

// Token signs claims with a throwaway key. exp defaults to one hour from now.
func Token(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()

	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// UserToken is a non-admin token using the flat role claim.
func UserToken(t testing.TB, sub string) string {
	t.Helper()
	return Token(t, jwt.MapClaims{"sub": sub, "role": "ROLE_USER"})
}

// AdminToken is an admin token using the authorities list.
func AdminToken(t testing.TB, sub string) string {
	t.Helper()
	return Token(t, jwt.MapClaims{"sub": sub, "authorities": []string{"ROLE_ADMIN"}})
}

// ExpiredToken expired a minute ago.
func ExpiredToken(t testing.TB, sub string) string {
	t.Helper()
	return Token(t, jwt.MapClaims{"sub": sub, "role": "ROLE_USER", "exp": time.Now().Add(-time.Minute).Unix()})
}
