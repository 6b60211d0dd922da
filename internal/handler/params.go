package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clynamic/scrollstack/internal/apperror"
	"github.com/clynamic/scrollstack/internal/store"
)

// pathID parses an integer path parameter, failing with a
// missing-parameter error when it is absent or not a number.
func pathID(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	if raw == "" {
		return 0, apperror.MissingParameter(key)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.MissingParameter(key)
	}
	return id, nil
}

// pageFromQuery assembles a pagination window from the standard
// page/size/sort/order query parameters. Absent or unparsable page and
// size fall back to the defaults; clamping happens in the engine.
func pageFromQuery(r *http.Request) store.Page {
	page := store.DefaultPage()
	query := r.URL.Query()

	if raw := query.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page.Number = n
		}
	}
	if raw := query.Get("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page.Size = n
		}
	}
	page.Sort = query.Get("sort")
	page.Order = store.ParseOrder(query.Get("order"))
	return page
}

// queryID parses an optional integer query parameter, returning nil when
// it is absent or not a number.
func queryID(r *http.Request, key string) *int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// requestOrigin reconstructs the externally visible scheme://host[:port]
// of the request, preferring forwarded headers when a proxy set them.
// This fails if the server is behind a sub-path.
func requestOrigin(r *http.Request) string {
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	if host == "" {
		return ""
	}
	if port := r.Header.Get("X-Forwarded-Port"); port != "" && port != "80" && port != "443" {
		if _, err := strconv.Atoi(port); err == nil {
			host = stripPort(host) + ":" + port
		}
	}
	return scheme + "://" + host
}

func stripPort(host string) string {
	for i := len(host) - 1; i >= 0; i-- {
		switch host[i] {
		case ':':
			return host[:i]
		case ']':
			return host
		}
	}
	return host
}
