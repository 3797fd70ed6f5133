package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapictureday/leadgen/internal/model"
	"github.com/sapictureday/leadgen/pkg/places"
)

func TestEnrichAll_SetsDetailFields(t *testing.T) {
	t.Parallel()

	stub := &stubPlaces{
		details: map[string]*places.DetailsResponse{
			"p1": {
				Status: places.StatusOK,
				Result: places.PlaceDetails{
					FormattedPhoneNumber: "210-555-0101",
					Website:              "https://starlight.example",
					URL:                  "https://maps.google.com/?cid=1",
				},
			},
		},
	}

	lead := &model.Lead{PlaceID: "p1", Name: "Starlight Dance"}
	d := NewDetailEnricher(stub).WithDelay(0)
	require.NoError(t, d.EnrichAll(context.Background(), []*model.Lead{lead}))

	assert.Equal(t, "(210) 555-0101", lead.Phone)
	assert.Equal(t, "https://starlight.example", lead.Website)
	assert.Equal(t, "https://maps.google.com/?cid=1", lead.MapsURL)
}

func TestEnrichAll_KeepsLeadOnErrorStatus(t *testing.T) {
	t.Parallel()

	stub := &stubPlaces{
		details: map[string]*places.DetailsResponse{
			"p1": {Status: "NOT_FOUND"},
		},
	}

	lead := &model.Lead{PlaceID: "p1", Name: "Gone Studio", Address: "1 Main St"}
	d := NewDetailEnricher(stub).WithDelay(0)
	require.NoError(t, d.EnrichAll(context.Background(), []*model.Lead{lead}))

	assert.Empty(t, lead.Phone)
	assert.Equal(t, "1 Main St", lead.Address)
}

func TestEnrichAll_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDetailEnricher(&stubPlaces{}).WithDelay(0)
	err := d.EnrichAll(ctx, []*model.Lead{{PlaceID: "p1"}})

	assert.ErrorIs(t, err, context.Canceled)
}
