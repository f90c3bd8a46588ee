package repository

import (
	"context"
	"strings"

	"github.com/wanderlust-labs/destination-portal/internal/apiclient"
	"github.com/wanderlust-labs/destination-portal/internal/domain"
	apperrors "github.com/wanderlust-labs/destination-portal/pkg/util/errorutil"
)

// AuthRepository exchanges credentials for bearer tokens.
type AuthRepository interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error)
}

type authRepository struct {
	client *apiclient.Client
}

// NewAuthRepository returns a backend-backed implementation.
func NewAuthRepository(client *apiclient.Client) AuthRepository {
	return &authRepository{client: client}
}

func (r *authRepository) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	return r.exchange(ctx, "/auth/login", creds)
}

func (r *authRepository) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	return r.exchange(ctx, "/auth/register", reg)
}

func (r *authRepository) exchange(ctx context.Context, path string, body any) (*domain.AuthResult, error) {
	var result domain.AuthResult
	if err := r.client.Post(apiclient.WithoutSession(ctx), path, body, &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Token) == "" {
		return nil, apperrors.NewAuthFailure("no token in response")
	}
	return &result, nil
}
