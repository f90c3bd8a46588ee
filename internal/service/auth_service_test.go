package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust-labs/destination-portal/internal/apiclient"
	"github.com/wanderlust-labs/destination-portal/internal/apiclient/apitest"
	"github.com/wanderlust-labs/destination-portal/internal/auth"
	"github.com/wanderlust-labs/destination-portal/internal/auth/authtest"
	"github.com/wanderlust-labs/destination-portal/internal/repository"
	apperrors "github.com/wanderlust-labs/destination-portal/pkg/util/errorutil"
)

func newAuthService(t *testing.T) (*AuthService, *apitest.Backend) {
	t.Helper()
	backend := apitest.NewBackend(t)
	client := apiclient.New(backend.URL, time.Second)
	return NewAuthService(repository.NewAuthRepository(client), nil), backend
}

func newProvider(t *testing.T) *auth.Provider {
	t.Helper()
	p := auth.NewProvider(auth.NewMemoryStore())
	p.Init(context.Background())
	return p
}

func TestAuthServiceLogin(t *testing.T) {
	svc, backend := newAuthService(t)
	token := backend.AddUser("admin@example.com", "secret", "ADMIN")
	p := newProvider(t)

	require.NoError(t, svc.Login(context.Background(), p, LoginInput{Email: " admin@example.com ", Password: "secret"}))
	assert.True(t, p.IsAuthenticated())
	assert.True(t, p.IsAdmin())
	assert.Equal(t, token, p.GetToken(context.Background()))

	require.NoError(t, svc.Logout(context.Background(), p))
	assert.False(t, p.IsAuthenticated())
	assert.Empty(t, p.GetToken(context.Background()))
}

func TestAuthServiceLoginRejectedKeepsSession(t *testing.T) {
	svc, backend := newAuthService(t)
	backend.AddUser("admin@example.com", "secret", "ADMIN")
	p := newProvider(t)
	existing := authtest.UserToken(t, "someone@example.com")
	require.NoError(t, p.Login(context.Background(), existing))

	err := svc.Login(context.Background(), p, LoginInput{Email: "admin@example.com", Password: "nope"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAuthFailed))
	assert.Equal(t, existing, p.GetToken(context.Background()))
}

func TestAuthServiceLoginValidation(t *testing.T) {
	svc, backend := newAuthService(t)
	p := newProvider(t)

	err := svc.Login(context.Background(), p, LoginInput{Email: "not-an-email", Password: ""})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	details := apperrors.ToDomainError(err).Details
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Empty(t, backend.Requests())
}

func TestAuthServiceRegister(t *testing.T) {
	svc, _ := newAuthService(t)
	p := newProvider(t)

	err := svc.Register(context.Background(), p, RegisterInput{
		Name:            "Bob",
		Email:           "bob@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
	})
	require.NoError(t, err)
	assert.True(t, p.IsAuthenticated())
	assert.True(t, p.HasRole("USER"))
	assert.False(t, p.IsAdmin())
}

func TestAuthServiceRegisterPasswordMismatch(t *testing.T) {
	svc, backend := newAuthService(t)
	p := newProvider(t)

	err := svc.Register(context.Background(), p, RegisterInput{
		Name:            "Bob",
		Email:           "bob@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter23",
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	assert.Equal(t, "passwords do not match", apperrors.ToDomainError(err).Details["confirmPassword"])
	assert.Empty(t, backend.Requests())
	assert.False(t, p.IsAuthenticated())
}

func TestAuthServiceRegisterLeavesPasswordPolicyToBackend(t *testing.T) {
	svc, backend := newAuthService(t)
	p := newProvider(t)

	err := svc.Register(context.Background(), p, RegisterInput{
		Name:            "Cy",
		Email:           "cy@example.com",
		Password:        "pw",
		ConfirmPassword: "pw",
	})
	require.NoError(t, err)
	assert.True(t, p.IsAuthenticated())
	assert.Contains(t, backend.Requests(), "POST /auth/register")
}
