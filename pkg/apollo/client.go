// Package apollo provides a client for the Apollo organization and
// people-search APIs.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.apollo.io/v1"

// Client performs Apollo API operations.
type Client interface {
	// SearchOrganizations looks up an organization by free-text name scoped
	// to one geography.
	SearchOrganizations(ctx context.Context, name, location string) (*OrganizationSearchResponse, error)
	// SearchPeople looks up people at an organization filtered by job titles.
	SearchPeople(ctx context.Context, organizationID string, titles []string) (*PeopleSearchResponse, error)
}

// OrganizationSearchResponse is the response from the org-search endpoint.
type OrganizationSearchResponse struct {
	Organizations []Organization `json:"organizations"`
}

// Organization is a single org-search hit.
type Organization struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	WebsiteURL string `json:"website_url"`
	Phone      string `json:"phone"`
}

// PeopleSearchResponse is the response from the people-search endpoint.
type PeopleSearchResponse struct {
	People []Person `json:"people"`
}

// Person is a single people-search hit.
type Person struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Title     string `json:"title"`
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

// NewClient creates an Apollo API client.
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

type organizationSearchRequest struct {
	APIKey                string   `json:"api_key"`
	QOrganizationName     string   `json:"q_organization_name"`
	OrganizationLocations []string `json:"organization_locations"`
	Page                  int      `json:"page"`
	PerPage               int      `json:"per_page"`
}

type peopleSearchRequest struct {
	APIKey          string   `json:"api_key"`
	OrganizationIDs []string `json:"organization_ids"`
	PersonTitles    []string `json:"person_titles"`
	Page            int      `json:"page"`
	PerPage         int      `json:"per_page"`
}

func (c *httpClient) SearchOrganizations(ctx context.Context, name, location string) (*OrganizationSearchResponse, error) {
	req := organizationSearchRequest{
		APIKey:                c.apiKey,
		QOrganizationName:     name,
		OrganizationLocations: []string{location},
		Page:                  1,
		PerPage:               1,
	}

	var result OrganizationSearchResponse
	if err := c.post(ctx, "/mixed_companies/search", req, &result); err != nil {
		return nil, eris.Wrap(err, "apollo: organization search")
	}
	return &result, nil
}

func (c *httpClient) SearchPeople(ctx context.Context, organizationID string, titles []string) (*PeopleSearchResponse, error) {
	req := peopleSearchRequest{
		APIKey:          c.apiKey,
		OrganizationIDs: []string{organizationID},
		PersonTitles:    titles,
		Page:            1,
		PerPage:         1,
	}

	var result PeopleSearchResponse
	if err := c.post(ctx, "/mixed_people/search", req, &result); err != nil {
		return nil, eris.Wrap(err, "apollo: people search")
	}
	return &result, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}

	return nil
}
