package dto

import "github.com/wanderlust-labs/destination-portal/internal/service"

// LoginForm is posted by the login page.
type LoginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Next     string `form:"next" json:"next"`
}

// Input converts the form for the auth service.
func (f LoginForm) Input() service.LoginInput {
	return service.LoginInput{Email: f.Email, Password: f.Password}
}

// RegisterForm is posted by the sign-up page.
type RegisterForm struct {
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
	Role            string `form:"role" json:"role"`
}

func (f RegisterForm) Input() service.RegisterInput {
	return service.RegisterInput{
		Name:            f.Name,
		Email:           f.Email,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
		Role:            f.Role,
	}
}

// SessionResponse describes the current browser session.
type SessionResponse struct {
	Initialized   bool     `json:"initialized"`
	Authenticated bool     `json:"authenticated"`
	Subject       string   `json:"subject,omitempty"`
	Role          string   `json:"role,omitempty"`
	Authorities   []string `json:"authorities"`
	IsAdmin       bool     `json:"isAdmin"`
	ExpiresAt     string   `json:"expiresAt,omitempty"`
}
