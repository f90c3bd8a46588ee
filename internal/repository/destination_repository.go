package repository

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wanderlust-labs/destination-portal/internal/apiclient"
	"github.com/wanderlust-labs/destination-portal/internal/domain"
	apperrors "github.com/wanderlust-labs/destination-portal/pkg/util/errorutil"
)

// DestinationRepository defines access to destinations held by the backend.
type DestinationRepository interface {
	List(ctx context.Context) ([]domain.Destination, error)
	Top(ctx context.Context) ([]domain.Destination, error)
	GetByID(ctx context.Context, id int64) (*domain.Destination, error)
	Search(ctx context.Context, query string) ([]domain.Destination, error)
	Create(ctx context.Context, input domain.DestinationInput) (*domain.Destination, error)
	Update(ctx context.Context, id int64, input domain.DestinationInput) (*domain.Destination, error)
	Delete(ctx context.Context, id int64) error
}

type destinationRepository struct {
	client *apiclient.Client
}

// NewDestinationRepository returns a backend-backed implementation.
func NewDestinationRepository(client *apiclient.Client) DestinationRepository {
	return &destinationRepository{client: client}
}

func (r *destinationRepository) List(ctx context.Context) ([]domain.Destination, error) {
	return r.list(ctx, "/destinations")
}

func (r *destinationRepository) Top(ctx context.Context) ([]domain.Destination, error) {
	return r.list(ctx, "/destinations/top")
}

func (r *destinationRepository) Search(ctx context.Context, query string) ([]domain.Destination, error) {
	return r.list(ctx, "/destinations/search?query="+url.QueryEscape(query))
}

func (r *destinationRepository) GetByID(ctx context.Context, id int64) (*domain.Destination, error) {
	var dest domain.Destination
	if err := r.client.Get(ctx, destinationPath(id), &dest); err != nil {
		return nil, notFound(err, id)
	}
	return &dest, nil
}

func (r *destinationRepository) Create(ctx context.Context, input domain.DestinationInput) (*domain.Destination, error) {
	var dest domain.Destination
	if err := r.client.Post(ctx, "/destinations", input, &dest); err != nil {
		return nil, err
	}
	return &dest, nil
}

func (r *destinationRepository) Update(ctx context.Context, id int64, input domain.DestinationInput) (*domain.Destination, error) {
	var dest domain.Destination
	if err := r.client.Put(ctx, destinationPath(id), input, &dest); err != nil {
		return nil, notFound(err, id)
	}
	if dest.ID == 0 {
		dest.ID = id
	}
	return &dest, nil
}

func (r *destinationRepository) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, destinationPath(id)); err != nil {
		return notFound(err, id)
	}
	return nil
}

func (r *destinationRepository) list(ctx context.Context, path string) ([]domain.Destination, error) {
	var dests []domain.Destination
	if err := r.client.Get(ctx, path, &dests); err != nil {
		return nil, err
	}
	if dests == nil {
		dests = []domain.Destination{}
	}
	return dests, nil
}

func destinationPath(id int64) string {
	return fmt.Sprintf("/destinations/%d", id)
}

func notFound(err error, id int64) error {
	if apperrors.HasCode(err, apperrors.CodeNotFound) {
		return apperrors.NewNotFound("destination", map[string]any{"id": id})
	}
	return err
}
