package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust-labs/destination-portal/internal/apiclient"
	"github.com/wanderlust-labs/destination-portal/internal/apiclient/apitest"
	"github.com/wanderlust-labs/destination-portal/internal/auth"
	"github.com/wanderlust-labs/destination-portal/internal/domain"
	apperrors "github.com/wanderlust-labs/destination-portal/pkg/util/errorutil"
)

func sessionCtx(t *testing.T, token string) context.Context {
	t.Helper()
	p := auth.NewProvider(auth.NewMemoryStore())
	p.Init(context.Background())
	require.NoError(t, p.Login(context.Background(), token))
	return auth.WithProvider(context.Background(), p)
}

func TestDestinationRepositoryReads(t *testing.T) {
	backend := apitest.NewBackend(t)
	kyoto := backend.Seed(domain.Destination{Name: "Kyoto", Location: "Japan", Rating: 4.8})
	backend.Seed(domain.Destination{Name: "Lisbon", Location: "Portugal", Rating: 4.1})

	repo := NewDestinationRepository(apiclient.New(backend.URL, time.Second))
	ctx := sessionCtx(t, backend.AddUser("u@example.com", "pw", "USER"))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	top, err := repo.Top(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, top)
	assert.Equal(t, "Kyoto", top[0].Name)

	got, err := repo.GetByID(ctx, kyoto.ID)
	require.NoError(t, err)
	assert.Equal(t, kyoto, *got)

	found, err := repo.Search(ctx, "port ugal")
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Contains(t, backend.Requests(), "GET /destinations/search?query=port+ugal")

	_, err = repo.GetByID(ctx, 999)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestDestinationRepositoryWritesNeedAdmin(t *testing.T) {
	backend := apitest.NewBackend(t)
	repo := NewDestinationRepository(apiclient.New(backend.URL, time.Second))
	input := domain.DestinationInput{Name: "Oslo", Location: "Norway", Rating: 4}

	userCtx := sessionCtx(t, backend.AddUser("u@example.com", "pw", "USER"))
	_, err := repo.Create(userCtx, input)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	adminCtx := sessionCtx(t, backend.AddUser("a@example.com", "pw", "ADMIN"))
	created, err := repo.Create(adminCtx, input)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	input.Rating = 5
	updated, err := repo.Update(adminCtx, created.ID, input)
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.Rating)

	require.NoError(t, repo.Delete(adminCtx, created.ID))
	_, ok := backend.Destination(created.ID)
	assert.False(t, ok)

	err = repo.Delete(adminCtx, created.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestAuthRepository(t *testing.T) {
	backend := apitest.NewBackend(t)
	token := backend.AddUser("a@example.com", "secret", "ADMIN")
	repo := NewAuthRepository(apiclient.New(backend.URL, time.Second))

	res, err := repo.Login(context.Background(), domain.Credentials{Email: "a@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, token, res.Token)

	_, err = repo.Login(context.Background(), domain.Credentials{Email: "a@example.com", Password: "wrong"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAuthFailed))

	res, err = repo.Register(context.Background(), domain.Registration{Name: "B", Email: "b@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = repo.Register(context.Background(), domain.Registration{Name: "B", Email: "b@example.com", Password: "pw"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAuthFailed))
}
