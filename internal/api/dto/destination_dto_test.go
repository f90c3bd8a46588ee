package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust-labs/destination-portal/internal/domain"
	apperrors "github.com/wanderlust-labs/destination-portal/pkg/util/errorutil"
)

func TestDestinationFormInput(t *testing.T) {
	in, err := DestinationForm{Name: "Kyoto", Location: "Japan", Rating: " 4.5 "}.Input()
	require.NoError(t, err)
	assert.Equal(t, 4.5, in.Rating)

	in, err = DestinationForm{Name: "Kyoto"}.Input()
	require.NoError(t, err)
	assert.Zero(t, in.Rating)

	_, err = DestinationForm{Rating: "five"}.Input()
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestFormFromDestination(t *testing.T) {
	form := FormFromDestination(domain.Destination{ID: 3, Name: "Oslo", Rating: 4})
	assert.Equal(t, "4", form.Rating)
	assert.Equal(t, "Oslo", form.Name)
}
