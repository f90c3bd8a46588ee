package service

import (
	"context"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/wanderlust-labs/destination-portal/internal/domain"
	"github.com/wanderlust-labs/destination-portal/internal/repository"
)

var imageURLPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)

// DestinationService validates destination forms before they reach the backend.
type DestinationService struct {
	repo repository.DestinationRepository
}

// NewDestinationService builds the service.
func NewDestinationService(repo repository.DestinationRepository) *DestinationService {
	return &DestinationService{repo: repo}
}

// ValidateDestination checks a create/update form.
func ValidateDestination(in domain.DestinationInput) error {
	return validationFailure(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required.Error("destination name is required")),
		validation.Field(&in.Location, validation.Required.Error("location is required")),
		validation.Field(&in.ImageURL,
			validation.Match(imageURLPattern).Error("must be a direct image URL ending in .jpg, .jpeg, .png, .gif or .webp"),
		),
		validation.Field(&in.Rating,
			validation.Min(float64(domain.MinRating)),
			validation.Max(float64(domain.MaxRating)),
		),
	))
}

func (s *DestinationService) List(ctx context.Context) ([]domain.Destination, error) {
	return s.repo.List(ctx)
}

func (s *DestinationService) Top(ctx context.Context) ([]domain.Destination, error) {
	return s.repo.Top(ctx)
}

// Search returns the full list for a blank query.
func (s *DestinationService) Search(ctx context.Context, query string) ([]domain.Destination, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, query)
}

func (s *DestinationService) Get(ctx context.Context, id int64) (*domain.Destination, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DestinationService) Create(ctx context.Context, in domain.DestinationInput) (*domain.Destination, error) {
	in = trimInput(in)
	if err := ValidateDestination(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

func (s *DestinationService) Update(ctx context.Context, id int64, in domain.DestinationInput) (*domain.Destination, error) {
	in = trimInput(in)
	if err := ValidateDestination(in); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *DestinationService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func trimInput(in domain.DestinationInput) domain.DestinationInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	return in
}
