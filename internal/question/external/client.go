// Package external holds thin HTTP clients for the third-party question sources.
// Clients only model the response shapes; filtering and normalisation live in the
// question providers.
package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrRateLimited signals the upstream throttled the request (HTTP 429 or an embedded code).
	ErrRateLimited = errors.New("rate limited by upstream")
	// ErrNoResults signals the upstream had nothing for the query.
	ErrNoResults = errors.New("upstream returned no results")
)

const defaultTimeout = 8 * time.Second

func defaultHTTPClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: defaultTimeout}
}

// getJSON performs a GET and decodes a JSON body into out.
func getJSON(ctx context.Context, client *http.Client, source, rawURL string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w", source, ErrRateLimited)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s non-200: %d", source, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s decode: %w", source, err)
	}
	return nil
}
