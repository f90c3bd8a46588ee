package service

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"

	"github.com/wanderlust-labs/destination-portal/internal/auth"
	"github.com/wanderlust-labs/destination-portal/internal/domain"
	"github.com/wanderlust-labs/destination-portal/internal/repository"
)

// LoginInput is what the login form submits.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login form.
func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required),
	)
}

// RegisterInput is what the sign-up form submits.
type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
}

// Validate checks the sign-up form, including the password confirmation.
func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required),
		validation.Field(&in.ConfirmPassword,
			validation.Required,
			validation.By(stringEquals(in.Password, "passwords do not match")),
		),
		validation.Field(&in.Role, validation.In("USER", "ADMIN")),
	)
}

// AuthService drives the credential exchange and hands the resulting token to
// the caller's Provider.
type AuthService struct {
	repo   repository.AuthRepository
	logger *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(repo repository.AuthRepository, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{repo: repo, logger: logger}
}

// Login exchanges credentials for a token and installs it on p.
// A rejected exchange leaves p untouched.
func (s *AuthService) Login(ctx context.Context, p *auth.Provider, in LoginInput) error {
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return validationFailure(err)
	}

	res, err := s.repo.Login(ctx, domain.Credentials{Email: in.Email, Password: in.Password})
	if err != nil {
		s.logger.Info("login rejected", zap.String("email", in.Email), zap.Error(err))
		return err
	}
	return p.Login(ctx, res.Token)
}

// Register creates an account and logs p in with the token it returns.
func (s *AuthService) Register(ctx context.Context, p *auth.Provider, in RegisterInput) error {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
	if err := in.Validate(); err != nil {
		return validationFailure(err)
	}
	if in.Role == "" {
		in.Role = domain.DefaultRegistrationRole
	}

	res, err := s.repo.Register(ctx, domain.Registration{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	})
	if err != nil {
		s.logger.Info("registration rejected", zap.String("email", in.Email), zap.Error(err))
		return err
	}
	return p.Login(ctx, res.Token)
}

// Logout ends the session held by p.
func (s *AuthService) Logout(ctx context.Context, p *auth.Provider) error {
	return p.Logout(ctx)
}
