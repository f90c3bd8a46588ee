package dto

import (
	"strconv"
	"strings"

	"github.com/wanderlust-labs/destination-portal/internal/domain"
	apperrors "github.com/wanderlust-labs/destination-portal/pkg/util/errorutil"
)

// DestinationForm is posted by the add and edit pages. Rating stays a string so
// a blank or garbled value can be reported next to the field.
type DestinationForm struct {
	Name        string `form:"name" json:"name"`
	Location    string `form:"location" json:"location"`
	Description string `form:"description" json:"description"`
	ImageURL    string `form:"imageUrl" json:"imageUrl"`
	Rating      string `form:"rating" json:"rating"`
}

// FormFromDestination pre-fills the edit page.
func FormFromDestination(d domain.Destination) DestinationForm {
	return DestinationForm{
		Name:        d.Name,
		Location:    d.Location,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		Rating:      strconv.FormatFloat(d.Rating, 'f', -1, 64),
	}
}

// Input parses the form. A blank rating means 0.
func (f DestinationForm) Input() (domain.DestinationInput, error) {
	in := domain.DestinationInput{
		Name:        f.Name,
		Location:    f.Location,
		Description: f.Description,
		ImageURL:    f.ImageURL,
	}
	raw := strings.TrimSpace(f.Rating)
	if raw == "" {
		return in, nil
	}
	rating, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return in, apperrors.NewValidationError("Rating must be a number", map[string]any{"rating": "must be a number"})
	}
	in.Rating = rating
	return in, nil
}
