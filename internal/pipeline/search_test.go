package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapictureday/leadgen/internal/model"
	"github.com/sapictureday/leadgen/pkg/places"
)

// stubPlaces scripts search responses keyed by query text and page token.
type stubPlaces struct {
	search  map[string]*places.SearchResponse
	pages   map[string]*places.SearchResponse
	details map[string]*places.DetailsResponse

	searchCalls []string
	pageCalls   []string
	detailCalls []string
}

func (s *stubPlaces) TextSearch(_ context.Context, query string, _ int) (*places.SearchResponse, error) {
	s.searchCalls = append(s.searchCalls, query)
	if resp, ok := s.search[query]; ok {
		return resp, nil
	}
	return &places.SearchResponse{Status: places.StatusZeroResults}, nil
}

func (s *stubPlaces) TextSearchPage(_ context.Context, token string) (*places.SearchResponse, error) {
	s.pageCalls = append(s.pageCalls, token)
	if resp, ok := s.pages[token]; ok {
		return resp, nil
	}
	return &places.SearchResponse{Status: places.StatusZeroResults}, nil
}

func (s *stubPlaces) Details(_ context.Context, placeID string) (*places.DetailsResponse, error) {
	s.detailCalls = append(s.detailCalls, placeID)
	if resp, ok := s.details[placeID]; ok {
		return resp, nil
	}
	return &places.DetailsResponse{Status: places.StatusOK}, nil
}

func place(id, name string) places.Place {
	return places.Place{PlaceID: id, Name: name, BusinessStatus: model.BusinessStatusOperational}
}

func TestSearchAll_SinglePage(t *testing.T) {
	t.Parallel()

	stub := &stubPlaces{
		search: map[string]*places.SearchResponse{
			"dance studio in San Antonio, TX": {
				Status:  places.StatusOK,
				Results: []places.Place{place("p1", "Starlight Dance"), place("p2", "Premier Ballet")},
			},
		},
	}

	s := NewSearcher(stub, "San Antonio, TX", 40000).WithDelays(0, 0)
	leads, err := s.SearchAll(context.Background(), []Query{{"dance studio", model.CategoryDanceStudio}}, 60)

	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Starlight Dance", leads[0].Name)
	assert.Equal(t, model.CategoryDanceStudio, leads[0].Category)
	assert.True(t, leads[0].Enrichment.Succeeded(model.StrategyGoogle))
}

func TestSearchAll_FollowsPagination(t *testing.T) {
	t.Parallel()

	stub := &stubPlaces{
		search: map[string]*places.SearchResponse{
			"preschool in Austin, TX": {
				Status:        places.StatusOK,
				Results:       []places.Place{place("p1", "A")},
				NextPageToken: "tok-2",
			},
		},
		pages: map[string]*places.SearchResponse{
			"tok-2": {
				Status:  places.StatusOK,
				Results: []places.Place{place("p2", "B")},
			},
		},
	}

	s := NewSearcher(stub, "Austin, TX", 40000).WithDelays(0, 0)
	leads, err := s.SearchAll(context.Background(), []Query{{"preschool", model.CategoryDaycare}}, 60)

	require.NoError(t, err)
	assert.Len(t, leads, 2)
	assert.Equal(t, []string{"tok-2"}, stub.pageCalls)
}

func TestSearchAll_DeduplicatesAcrossQueries(t *testing.T) {
	t.Parallel()

	stub := &stubPlaces{
		search: map[string]*places.SearchResponse{
			"dance studio in San Antonio, TX": {
				Status:  places.StatusOK,
				Results: []places.Place{place("p1", "Starlight Dance")},
			},
			"dance academy in San Antonio, TX": {
				Status:  places.StatusOK,
				Results: []places.Place{place("p1", "Starlight Dance"), place("p2", "Academy of Dance")},
			},
		},
	}

	s := NewSearcher(stub, "San Antonio, TX", 40000).WithDelays(0, 0)
	leads, err := s.SearchAll(context.Background(), []Query{
		{"dance studio", model.CategoryDanceStudio},
		{"dance academy", model.CategoryDanceStudio},
	}, 60)

	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "p1", leads[0].PlaceID)
	assert.Equal(t, "p2", leads[1].PlaceID)
}

func TestSearchAll_RespectsPerQueryCap(t *testing.T) {
	t.Parallel()

	stub := &stubPlaces{
		search: map[string]*places.SearchResponse{
			"preschool in Austin, TX": {
				Status: places.StatusOK,
				Results: []places.Place{
					place("p1", "A"), place("p2", "B"), place("p3", "C"),
				},
				NextPageToken: "tok-2",
			},
		},
	}

	s := NewSearcher(stub, "Austin, TX", 40000).WithDelays(0, 0)
	leads, err := s.SearchAll(context.Background(), []Query{{"preschool", model.CategoryDaycare}}, 2)

	require.NoError(t, err)
	assert.Len(t, leads, 2)
	assert.Empty(t, stub.pageCalls)
}

func TestSearchAll_ErrorStatusAbandonsQueryOnly(t *testing.T) {
	t.Parallel()

	stub := &stubPlaces{
		search: map[string]*places.SearchResponse{
			"dance studio in San Antonio, TX": {
				Status:       "REQUEST_DENIED",
				ErrorMessage: "key invalid",
			},
			"preschool in San Antonio, TX": {
				Status:  places.StatusOK,
				Results: []places.Place{place("p9", "Sunny Days")},
			},
		},
	}

	s := NewSearcher(stub, "San Antonio, TX", 40000).WithDelays(0, 0)
	leads, err := s.SearchAll(context.Background(), []Query{
		{"dance studio", model.CategoryDanceStudio},
		{"preschool", model.CategoryDaycare},
	}, 60)

	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Sunny Days", leads[0].Name)
}

func TestSearchAll_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSearcher(&stubPlaces{}, "San Antonio, TX", 40000).WithDelays(0, 0)
	_, err := s.SearchAll(ctx, DefaultQueries, 60)

	assert.ErrorIs(t, err, context.Canceled)
}
