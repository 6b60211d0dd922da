package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/clynamic/scrollstack/internal/apperror"
)

// Stream resolves a content source locator into a byte stream. Supported
// schemes are http/https (remote bytes are proxied) and file (local
// read). The caller owns the returned reader.
func (c *Client) Stream(ctx context.Context, source string) (io.ReadCloser, error) {
	parsed, err := url.Parse(source)
	if err != nil {
		return nil, apperror.ValidationFailed("source",
			fmt.Sprintf("malformed source url: %q", source))
	}

	switch parsed.Scheme {
	case "http", "https":
		resp, err := c.Get(ctx, source)
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	case "file":
		f, err := os.Open(parsed.Path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, apperror.NotFound("content source", parsed.Path)
			}
			return nil, fmt.Errorf("fetch: opening %s: %w", parsed.Path, err)
		}
		return f, nil
	default:
		return nil, apperror.Unsupported(
			fmt.Sprintf("unsupported source scheme: %q", parsed.Scheme))
	}
}
