package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	user := &Session{Subject: "alice", Role: "ROLE_USER", Authorities: []string{RoleUser}}
	admin := &Session{Subject: "root", Authorities: []string{RoleAdmin}}

	tests := []struct {
		name      string
		state     State
		adminOnly bool
		want      Decision
	}{
		{"loading while unauthenticated", State{}, false, Decision{Action: ActionLoading}},
		{"loading even with a session", State{Session: admin}, true, Decision{Action: ActionLoading}},
		{"anonymous to login", State{Initialized: true}, false, Decision{Action: ActionRedirect, Target: LoginPath, From: "/destination/7"}},
		{"anonymous admin route to login", State{Initialized: true}, true, Decision{Action: ActionRedirect, Target: LoginPath, From: "/destination/7"}},
		{"user on admin route to home", State{Initialized: true, Session: user}, true, Decision{Action: ActionRedirect, Target: HomePath}},
		{"user on protected route", State{Initialized: true, Session: user}, false, Decision{Action: ActionRender}},
		{"admin on admin route", State{Initialized: true, Session: admin}, true, Decision{Action: ActionRender}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.state, tt.adminOnly, "/destination/7"))
		})
	}
}

func TestDecisionLocation(t *testing.T) {
	assert.Equal(t, "/login?next=%2Fadd-destination", Decision{Action: ActionRedirect, Target: LoginPath, From: "/add-destination"}.Location())
	assert.Equal(t, "/login", Decision{Action: ActionRedirect, Target: LoginPath, From: "/"}.Location())
	assert.Equal(t, "/login", Decision{Action: ActionRedirect, Target: LoginPath, From: "https://evil.example"}.Location())
	assert.Equal(t, "/", Decision{Action: ActionRedirect, Target: HomePath}.Location())
	assert.Empty(t, Decision{Action: ActionRender}.Location())
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/destination/3?tab=info", SafeNext("/destination/3?tab=info"))
	for _, bad := range []string{"", "destination/3", "//evil.example", `/\evil.example`, "https://evil.example", "/login"} {
		assert.Empty(t, SafeNext(bad), bad)
	}
}
