package alertengine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Fetcher performs bounded JSON fetches. Every request runs under a timeout
// derived from the caller's context, so either the timeout or the external
// cancellation aborts it, whichever fires first.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(userAgent string) *Fetcher {
	return &Fetcher{client: &http.Client{}, userAgent: userAgent}
}

// FetchJSON retrieves url and decodes the body into v. It fails with
// ErrCancelled when ctx was cancelled, ErrTimeout when the timeout elapsed,
// *HTTPError on a non-2xx status and *MalformedError when the body does not
// decode.
func (f *Fetcher) FetchJSON(ctx context.Context, url string, timeout time.Duration, v any) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(tctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return f.classify(ctx, tctx, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{URL: url, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		// The body read can also die from cancellation or the deadline.
		if ctx.Err() != nil || tctx.Err() != nil {
			return f.classify(ctx, tctx, url, err)
		}
		return &MalformedError{URL: url, Err: err}
	}
	return nil
}

// classify maps a transport failure onto the fetch taxonomy. External
// cancellation wins when both contexts are dead.
func (f *Fetcher) classify(ctx, tctx context.Context, url string, err error) error {
	if ctx.Err() == context.Canceled {
		return ErrCancelled
	}
	if tctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return fmt.Errorf("fetch %s: %w", url, err)
}
