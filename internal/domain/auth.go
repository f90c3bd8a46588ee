package domain

// DefaultRegistrationRole is sent when the sign-up form leaves the role empty.
const DefaultRegistrationRole = "USER"

// Credentials are exchanged for a bearer token.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration creates an account and returns its first token.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// AuthResult is the backend's answer to login and register.
type AuthResult struct {
	Token string `json:"token"`
	Role  string `json:"role,omitempty"`
}
