// Package overpass queries the Overpass API for heritage POIs. It builds the
// query text and delivers it to an ordered list of interpreter endpoints,
// falling back to the next endpoint when one is unreachable or unhealthy.
package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"heritage/internal/models"
)

// Default interpreter endpoints, tried in order.
const (
	DefaultPrimary  = "https://overpass-api.de/api/interpreter"
	DefaultFallback = "https://overpass.kumi.systems/api/interpreter"
)

// ErrAllEndpointsUnavailable is returned when every configured endpoint
// failed; no partial or cached result is substituted.
var ErrAllEndpointsUnavailable = errors.New("all overpass endpoints unavailable")

// Response is the parsed body of a successful Overpass query.
type Response struct {
	Elements []models.RawElement `json:"elements"`
}

// Client issues Overpass queries with ordered-endpoint failover. Endpoint
// order is significant and fixed: the primary is always tried first.
type Client struct {
	httpClient *http.Client
	endpoints  []string

	// OnAttempt, when set, is invoked after each endpoint attempt with the
	// endpoint URL and whether it produced a usable response. Used for
	// metrics wiring; the client itself never depends on it.
	OnAttempt func(endpoint string, ok bool)
}

// NewClient returns a Client for the given endpoints. With no endpoints it
// uses the default primary/fallback pair.
func NewClient(endpoints ...string) *Client {
	return NewClientWithHTTP(http.DefaultClient, endpoints...)
}

// NewClientWithHTTP is NewClient with an injected http.Client, mainly for
// tests and callers that need custom transport timeouts.
func NewClientWithHTTP(httpClient *http.Client, endpoints ...string) *Client {
	if len(endpoints) == 0 {
		endpoints = []string{DefaultPrimary, DefaultFallback}
	}
	return &Client{httpClient: httpClient, endpoints: endpoints}
}

// attemptFunc runs a query against a single endpoint. ok reports whether the
// endpoint produced a usable response; err is only set for failures that must
// abort the whole sequence, such as a malformed body on a 2xx response.
type attemptFunc[T any] func(endpoint string) (result T, ok bool, err error)

// failover tries attempt against each endpoint in order and returns the first
// successful result. Endpoint failures are swallowed; each endpoint is tried
// at most once. When the list is exhausted it fails with
// ErrAllEndpointsUnavailable.
func failover[T any](endpoints []string, attempt attemptFunc[T]) (T, error) {
	var zero T
	for _, endpoint := range endpoints {
		result, ok, err := attempt(endpoint)
		if err != nil {
			return zero, err
		}
		if ok {
			return result, nil
		}
	}
	return zero, ErrAllEndpointsUnavailable
}

// Fetch POSTs the query to the configured endpoints in order and returns the
// parsed body of the first 2xx response. Transport errors and non-2xx
// statuses move on to the next endpoint. Results are live: the request asks
// intermediaries not to serve from cache.
func (c *Client) Fetch(ctx context.Context, query string) (*Response, error) {
	form := url.Values{}
	form.Set("data", query)
	body := form.Encode()

	return failover(c.endpoints, func(endpoint string) (*Response, bool, error) {
		resp, ok, err := c.attempt(ctx, endpoint, body)
		if c.OnAttempt != nil {
			c.OnAttempt(endpoint, ok)
		}
		return resp, ok, err
	})
}

func (c *Client) attempt(ctx context.Context, endpoint, body string) (*Response, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("building overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, nil
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decoding overpass response from %s: %w", endpoint, err)
	}
	return &out, true, nil
}
