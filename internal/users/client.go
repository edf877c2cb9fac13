// file: internal/users/client.go
// version: 1.1.0
// guid: 8c9d0e1f-2a3b-4c5d-6e7f-8a9b0c1d2e3f

package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultUpstreamURL is the public demo directory the service reads from.
const DefaultUpstreamURL = "https://jsonplaceholder.typicode.com/users"

// Client fetches the full user collection from the upstream REST API.
// The upstream is a free third-party service with no SLA, so callers are
// expected to sit behind the read-through cache in Service rather than
// hitting this directly per request.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a client against the given upstream URL. An empty URL
// falls back to DefaultUpstreamURL. The page render blocks on this call on a
// cache miss, so the timeout is kept short.
func NewClient(url string) *Client {
	if strings.TrimSpace(url) == "" {
		url = DefaultUpstreamURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		url:        url,
	}
}

// FetchAll performs a single GET against the upstream and decodes the JSON
// array of user objects. Order is preserved from the response.
func (c *Client) FetchAll(ctx context.Context) ([]User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users from upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var collection []User
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return nil, fmt.Errorf("failed to decode upstream response: %w", err)
	}

	// A JSON "null" body decodes into a nil slice without error. That is not
	// a user collection and must not reach the cache.
	if collection == nil {
		return nil, fmt.Errorf("upstream body is not a JSON array")
	}

	// The upstream contract is an array of objects carrying integer ids.
	// A payload that decodes but carries no usable identity is malformed.
	for i, u := range collection {
		if u.ID <= 0 {
			return nil, fmt.Errorf("upstream record %d has invalid id %d", i, u.ID)
		}
	}

	return collection, nil
}
