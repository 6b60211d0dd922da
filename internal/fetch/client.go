// Package fetch wraps the outbound HTTP client. Every request carries
// the app's User-Agent, and non-2xx responses are turned into upstream
// errors so callers never have to inspect status codes themselves.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/clynamic/scrollstack/internal/apperror"
)

// UserAgent identifies the app on all outbound requests. GitHub rejects
// requests without one.
const UserAgent = "scrollstack/1.0.0 (clynamic)"

// userAgentTransport sets the User-Agent header on every request before
// delegating to the underlying transport.
type userAgentTransport struct {
	next http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", UserAgent)
	return t.next.RoundTrip(clone)
}

// Client issues GET and HEAD requests, failing with an upstream error on
// any non-2xx response. It is safe for concurrent use.
type Client struct {
	http *http.Client
}

func NewClient() *Client {
	return &Client{
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &userAgentTransport{next: http.DefaultTransport},
		},
	}
}

// Get issues a GET request. The caller owns the response body on success.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, url)
}

// Head issues a HEAD request.
func (c *Client) Head(ctx context.Context, url string) (*http.Response, error) {
	return c.do(ctx, http.MethodHead, url)
}

func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: building request for %s: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.Upstream(0, fmt.Sprintf("request to %s failed: %v", url, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, apperror.Upstream(resp.StatusCode,
			fmt.Sprintf("request to %s failed with status %d", url, resp.StatusCode))
	}

	return resp, nil
}
