package domain

// Destination is a travel destination as served by the backend.
type Destination struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Rating      float64 `json:"rating"`
}

// DestinationInput is the writable part of a destination.
type DestinationInput struct {
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Rating      float64 `json:"rating"`
}

// Input strips the server-assigned fields.
func (d Destination) Input() DestinationInput {
	return DestinationInput{
		Name:        d.Name,
		Location:    d.Location,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		Rating:      d.Rating,
	}
}

const (
	MinRating = 0
	MaxRating = 5
)
