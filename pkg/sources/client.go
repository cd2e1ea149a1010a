// Package sources fetches the transit and road feeds the map overlays and
// normalizes them into stable JSON snapshots.
package sources

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// Client wraps a retrying HTTP client; the public feeds flake often enough
// that a couple of retries saves most scraper runs.
type Client struct {
	http *http.Client
}

func NewClient() *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil
	return &Client{http: rc.StandardClient()}
}

func (c *Client) getJSON(url string, v any) error {
	resp, err := c.http.Get(url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
