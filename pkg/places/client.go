// Package places provides a client for the Google Places text-search and
// place-details HTTP endpoints.
package places

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// detailsFields is the field mask requested from the details endpoint.
const detailsFields = "formatted_phone_number,international_phone_number,website,url,opening_hours"

// API statuses the pipeline reacts to. Anything else is treated as an error.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

// Client performs Places API operations.
type Client interface {
	// TextSearch runs a text query and returns the first page of results.
	TextSearch(ctx context.Context, query string, radiusM int) (*SearchResponse, error)
	// TextSearchPage fetches a continuation page using the token from a
	// previous response. The API requires a short delay before the token
	// becomes valid; pacing is the caller's responsibility.
	TextSearchPage(ctx context.Context, pageToken string) (*SearchResponse, error)
	// Details fetches phone/website details for one place.
	Details(ctx context.Context, placeID string) (*DetailsResponse, error)
}

// SearchResponse is the response from a text search.
type SearchResponse struct {
	Status        string  `json:"status"`
	ErrorMessage  string  `json:"error_message,omitempty"`
	Results       []Place `json:"results"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

// Place represents a place returned by the text-search endpoint.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	BusinessStatus   string   `json:"business_status"`
	Geometry         Geometry `json:"geometry"`
}

// Geometry holds the place coordinates.
type Geometry struct {
	Location LatLng `json:"location"`
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DetailsResponse is the response from the place-details endpoint.
type DetailsResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Result       PlaceDetails `json:"result"`
}

// PlaceDetails holds the detail fields the pipeline consumes.
type PlaceDetails struct {
	FormattedPhoneNumber string `json:"formatted_phone_number"`
	Website              string `json:"website"`
	URL                  string `json:"url"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) TextSearch(ctx context.Context, query string, radiusM int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("radius", strconv.Itoa(radiusM))

	var result SearchResponse
	if err := c.get(ctx, "/textsearch/json", params, &result); err != nil {
		return nil, eris.Wrap(err, "places: text search")
	}
	return &result, nil
}

func (c *httpClient) TextSearchPage(ctx context.Context, pageToken string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("pagetoken", pageToken)

	var result SearchResponse
	if err := c.get(ctx, "/textsearch/json", params, &result); err != nil {
		return nil, eris.Wrap(err, "places: text search page")
	}
	return &result, nil
}

func (c *httpClient) Details(ctx context.Context, placeID string) (*DetailsResponse, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)

	var result DetailsResponse
	if err := c.get(ctx, "/details/json", params, &result); err != nil {
		return nil, eris.Wrap(err, "places: details")
	}
	return &result, nil
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}

	return nil
}
