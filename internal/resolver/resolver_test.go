package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clynamic/scrollstack/internal/apperror"
	"github.com/clynamic/scrollstack/internal/model"
	"github.com/clynamic/scrollstack/internal/service"
	"github.com/clynamic/scrollstack/internal/store"
)

const repoJSON = `{
	"name": "scrollstack",
	"html_url": "https://github.com/clynamic/scrollstack",
	"description": "portfolio backend",
	"pushed_at": "2024-06-01T12:00:00Z",
	"homepage": "https://clynamic.net",
	"language": "Go",
	"stargazers_count": 42
}`

type fixture struct {
	resolver *Resolver
	contents *service.ContentsService
	imageURL string
}

// newFixture wires a resolver against three fake remote hosts: the
// repository API, the scraped web page, and the banner image host.
// withBanner controls whether the web page advertises an og:image.
func newFixture(t *testing.T, withBanner bool) fixture {
	t.Helper()

	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	contents, err := service.NewContentsService(db, logger)
	if err != nil {
		t.Fatalf("failed to create contents service: %v", err)
	}

	imageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(imageSrv.Close)
	imageURL := imageSrv.URL + "/banner.png"

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/clynamic/scrollstack" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, repoJSON)
	}))
	t.Cleanup(apiSrv.Close)

	webSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if withBanner {
			fmt.Fprintf(w, `<html><head><meta property="og:image" content=%q></head><body></body></html>`, imageURL)
			return
		}
		fmt.Fprint(w, `<html><head><title>repo</title></head><body></body></html>`)
	}))
	t.Cleanup(webSrv.Close)

	return fixture{
		resolver: New(contents, logger, Options{APIBase: apiSrv.URL, WebBase: webSrv.URL}),
		contents: contents,
		imageURL: imageURL,
	}
}

func githubSource(id int64) model.ProjectSource {
	return model.ProjectSource{
		ID:     id,
		Name:   "scrollstack",
		Source: "clynamic/scrollstack",
		Type:   model.ProjectTypeGitHub,
	}
}

func TestResolve_GitHub(t *testing.T) {
	f := newFixture(t, true)

	project, err := f.resolver.Resolve(context.Background(), githubSource(7), "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if project.ID != 7 {
		t.Errorf("ID = %d, want 7", project.ID)
	}
	if project.Name != "scrollstack" {
		t.Errorf("Name = %q, want scrollstack", project.Name)
	}
	if project.Source != "https://github.com/clynamic/scrollstack" {
		t.Errorf("Source = %q", project.Source)
	}
	if project.Description == nil || *project.Description != "portfolio backend" {
		t.Errorf("Description = %v", project.Description)
	}
	if project.Updated == nil {
		t.Error("Updated = nil, want pushed_at")
	}
	if project.Website == nil || *project.Website != "https://clynamic.net" {
		t.Errorf("Website = %v", project.Website)
	}
	if project.Language == nil || *project.Language != "Go" {
		t.Errorf("Language = %v", project.Language)
	}
	if project.Stars != 42 {
		t.Errorf("Stars = %d, want 42", project.Stars)
	}
	if project.Banner == nil {
		t.Fatal("Banner = nil, want cached content path")
	}

	content, err := f.contents.FindBySource(context.Background(), f.imageURL)
	if err != nil {
		t.Fatalf("FindBySource() error = %v", err)
	}
	if content == nil {
		t.Fatal("no content row cached for banner")
	}
	if content.Mime != "image/png" {
		t.Errorf("Mime = %q, want image/png", content.Mime)
	}
	if content.ExpiresAt == nil {
		t.Error("ExpiresAt = nil, want TTL set")
	}
	if want := fmt.Sprintf("/cdn/%d", content.ID); *project.Banner != want {
		t.Errorf("Banner = %q, want %q", *project.Banner, want)
	}
}

func TestResolve_BannerAbsoluteWithOrigin(t *testing.T) {
	f := newFixture(t, true)

	project, err := f.resolver.Resolve(context.Background(), githubSource(1), "https://portfolio.example.com")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if project.Banner == nil {
		t.Fatal("Banner = nil")
	}

	content, err := f.contents.FindBySource(context.Background(), f.imageURL)
	if err != nil || content == nil {
		t.Fatalf("FindBySource() = %v, %v", content, err)
	}
	want := fmt.Sprintf("https://portfolio.example.com/cdn/%d", content.ID)
	if *project.Banner != want {
		t.Errorf("Banner = %q, want %q", *project.Banner, want)
	}
}

func TestResolve_NoOGImage(t *testing.T) {
	f := newFixture(t, false)

	project, err := f.resolver.Resolve(context.Background(), githubSource(1), "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if project.Banner != nil {
		t.Errorf("Banner = %q, want nil when page has no og:image", *project.Banner)
	}
	if project.Name != "scrollstack" {
		t.Errorf("Name = %q, want metadata resolved regardless", project.Name)
	}
}

func TestResolve_ReusesCachedContentRow(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	first, err := f.resolver.Resolve(ctx, githubSource(1), "")
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	second, err := f.resolver.Resolve(ctx, githubSource(1), "")
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if *first.Banner != *second.Banner {
		t.Errorf("banner changed across resolutions: %q then %q", *first.Banner, *second.Banner)
	}

	content, err := f.contents.FindBySource(ctx, f.imageURL)
	if err != nil || content == nil {
		t.Fatalf("FindBySource() = %v, %v", content, err)
	}
	if content.UpdatedAt == nil {
		t.Error("UpdatedAt = nil, want stamped by the refresh")
	}
}

func TestResolve_UpstreamFailure(t *testing.T) {
	f := newFixture(t, true)

	src := githubSource(1)
	src.Source = "clynamic/missing-repo"
	_, err := f.resolver.Resolve(context.Background(), src, "")
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Fatalf("Resolve() error = %v, want ErrUpstream", err)
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", appErr.Status, http.StatusNotFound)
	}
}

func TestResolve_MalformedSource(t *testing.T) {
	f := newFixture(t, true)

	src := githubSource(1)
	src.Source = "not a repo locator"
	_, err := f.resolver.Resolve(context.Background(), src, "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Resolve() error = %v, want ErrValidation", err)
	}
}

func TestResolveAll_DropsFailedSources(t *testing.T) {
	f := newFixture(t, true)

	sources := []model.ProjectSource{
		githubSource(1),
		{ID: 2, Name: "broken", Source: "not a repo locator", Type: model.ProjectTypeGitHub},
		{ID: 3, Name: "gone", Source: "clynamic/missing-repo", Type: model.ProjectTypeGitHub},
	}

	projects := f.resolver.ResolveAll(context.Background(), sources, "")
	if len(projects) != 1 {
		t.Fatalf("len(projects) = %d, want 1 (failures dropped)", len(projects))
	}
	if projects[0].ID != 1 {
		t.Errorf("projects[0].ID = %d, want 1", projects[0].ID)
	}
}
