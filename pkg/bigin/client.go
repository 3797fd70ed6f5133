// Package bigin provides a client for the Zoho Bigin CRM REST API.
package bigin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.zohoapis.com/bigin/v2"

// CodeSuccess is the per-record success discriminator in create responses.
const CodeSuccess = "SUCCESS"

// Client defines the Bigin API operations used by the CRM upsert stage.
type Client interface {
	// TestConnection probes the Contacts module with a minimal page fetch.
	TestConnection(ctx context.Context) error
	// ListContacts fetches one page of existing contacts.
	ListContacts(ctx context.Context, page, perPage int) (*ListContactsResponse, error)
	// CreateContact creates a single contact record and returns the
	// per-record outcome reported by the API.
	CreateContact(ctx context.Context, fields map[string]any) (*RecordResult, error)
}

// ListContactsResponse is one page of the contacts listing.
type ListContactsResponse struct {
	Data []Contact `json:"data"`
	Info PageInfo  `json:"info"`
}

// Contact is the subset of contact fields consumed for duplicate checking.
type Contact struct {
	ID          string `json:"id"`
	CompanyName string `json:"Company_Name"`
}

// PageInfo carries pagination state.
type PageInfo struct {
	MoreRecords bool `json:"more_records"`
}

// RecordResult is the API's success/failure discriminator for one record.
type RecordResult struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details RecordDetails `json:"details"`
}

// RecordDetails holds the created record identifier.
type RecordDetails struct {
	ID string `json:"id"`
}

// Success reports whether the record operation succeeded.
func (r RecordResult) Success() bool { return r.Code == CodeSuccess }

type createResponse struct {
	Data []RecordResult `json:"data"`
}

type createRequest struct {
	Data []map[string]any `json:"data"`
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

// WithRateLimit sets a per-second rate limit for API calls. A burst equal
// to the integer portion of rps is allowed.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Bigin API client authenticated with an OAuth token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
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

// wait blocks until the rate limiter allows one event, or ctx is cancelled.
func (c *httpClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *httpClient) TestConnection(ctx context.Context) error {
	if _, err := c.ListContacts(ctx, 1, 1); err != nil {
		return eris.Wrap(err, "bigin: test connection")
	}
	return nil
}

func (c *httpClient) ListContacts(ctx context.Context, page, perPage int) (*ListContactsResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "bigin: rate limit")
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/Contacts?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "bigin: create request")
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "bigin: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	// Zoho returns 204 with an empty body when the module has no records.
	if resp.StatusCode == http.StatusNoContent {
		return &ListContactsResponse{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "bigin: read response")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, eris.Errorf("bigin: authentication failed (status 401): %s", string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("bigin: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result ListContactsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "bigin: unmarshal response")
	}

	return &result, nil
}

func (c *httpClient) CreateContact(ctx context.Context, fields map[string]any) (*RecordResult, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "bigin: rate limit")
	}

	body, err := json.Marshal(createRequest{Data: []map[string]any{fields}})
	if err != nil {
		return nil, eris.Wrap(err, "bigin: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Contacts", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "bigin: create request")
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "bigin: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "bigin: read response")
	}

	// Bigin answers 201 for created records and 202 for per-record
	// failures; both carry the data[].code discriminator.
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("bigin: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result createResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "bigin: unmarshal response")
	}
	if len(result.Data) == 0 {
		return nil, eris.New("bigin: empty create response")
	}

	return &result.Data[0], nil
}

func (c *httpClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.token)
	req.Header.Set("Content-Type", "application/json")
}
