// Package resolver turns stored project sources into user-facing
// projects by fetching live metadata from the remote host and caching a
// scraped banner image as a content record.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/clynamic/scrollstack/internal/apperror"
	"github.com/clynamic/scrollstack/internal/fetch"
	"github.com/clynamic/scrollstack/internal/model"
	"github.com/clynamic/scrollstack/internal/service"
)

// Banner cache entries are refreshed on every resolution and expire a
// week after the last one.
const bannerTTL = 7 * 24 * time.Hour

const (
	defaultAPIBase = "https://api.github.com"
	defaultWebBase = "https://github.com"
)

// Options overrides the resolver's remote endpoints and client, mainly
// for tests. Zero-valued fields keep their defaults.
type Options struct {
	APIBase string
	WebBase string
	Client  *fetch.Client
}

// Resolver resolves project sources against their remote system. All
// network calls happen outside any database transaction; the content
// upsert is its own short transaction afterwards.
type Resolver struct {
	contents *service.ContentsService
	client   *fetch.Client
	logger   *slog.Logger
	apiBase  string
	webBase  string
}

func New(contents *service.ContentsService, logger *slog.Logger, opts Options) *Resolver {
	r := &Resolver{
		contents: contents,
		client:   opts.Client,
		logger:   logger,
		apiBase:  opts.APIBase,
		webBase:  opts.WebBase,
	}
	if r.client == nil {
		r.client = fetch.NewClient()
	}
	if r.apiBase == "" {
		r.apiBase = defaultAPIBase
	}
	if r.webBase == "" {
		r.webBase = defaultWebBase
	}
	return r
}

// ResolveAll resolves a batch of sources with partial-success semantics:
// a source that fails to resolve is logged and dropped from the result,
// never aborting the rest of the batch.
func (r *Resolver) ResolveAll(ctx context.Context, sources []model.ProjectSource, origin string) []model.Project {
	projects := make([]model.Project, 0, len(sources))
	for _, src := range sources {
		project, err := r.Resolve(ctx, src, origin)
		if err != nil {
			r.logger.Warn("failed to resolve project",
				slog.Int64("id", src.ID),
				slog.String("source", src.Source),
				slog.String("error", err.Error()),
			)
			continue
		}
		projects = append(projects, project)
	}
	return projects
}

// Resolve turns one stored source into a user-facing project. origin is
// the request's external scheme+host+port, used to absolutize the banner
// URL; pass "" to keep the banner path relative.
func (r *Resolver) Resolve(ctx context.Context, src model.ProjectSource, origin string) (model.Project, error) {
	switch src.Type {
	case model.ProjectTypeGitHub:
		return r.resolveGitHub(ctx, src, origin)
	default:
		return model.Project{}, apperror.Unsupported(
			fmt.Sprintf("unsupported project type: %s", src.Type))
	}
}

// githubRepo is the portion of the repository API response we care about.
type githubRepo struct {
	Name        string     `json:"name"`
	HTMLURL     string     `json:"html_url"`
	Description *string    `json:"description"`
	PushedAt    *time.Time `json:"pushed_at"`
	Homepage    *string    `json:"homepage"`
	Language    *string    `json:"language"`
	Stars       int        `json:"stargazers_count"`
}

func (r *Resolver) resolveGitHub(ctx context.Context, src model.ProjectSource, origin string) (model.Project, error) {
	owner, repo, err := src.OwnerAndRepo()
	if err != nil {
		return model.Project{}, err
	}

	resp, err := r.client.Get(ctx, fmt.Sprintf("%s/repos/%s/%s", r.apiBase, owner, repo))
	if err != nil {
		return model.Project{}, err
	}
	defer resp.Body.Close()

	var gh githubRepo
	if err := json.NewDecoder(resp.Body).Decode(&gh); err != nil {
		return model.Project{}, fmt.Errorf("resolver: decoding repository response: %w", err)
	}

	banner, err := r.resolveBanner(ctx, owner, repo, origin)
	if err != nil {
		return model.Project{}, err
	}

	return model.Project{
		ID:          src.ID,
		Name:        gh.Name,
		Source:      gh.HTMLURL,
		Description: gh.Description,
		Updated:     gh.PushedAt,
		Website:     gh.Homepage,
		Language:    gh.Language,
		Banner:      banner,
		Stars:       gh.Stars,
	}, nil
}

// resolveBanner scrapes the repository's og:image, caches it as a content
// record with a refreshed expiry, and returns its public URL. A page
// without the tag yields no banner and no error.
func (r *Resolver) resolveBanner(ctx context.Context, owner, repo, origin string) (*string, error) {
	resp, err := r.client.Get(ctx, fmt.Sprintf("%s/%s/%s", r.webBase, owner, repo))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bannerURL, ok := findOGImage(resp.Body)
	if !ok {
		return nil, nil
	}

	head, err := r.client.Head(ctx, bannerURL)
	if err != nil {
		return nil, err
	}
	head.Body.Close()
	mime := head.Header.Get("Content-Type")
	if mime == "" {
		mime = "image"
	}

	id, err := r.upsertContent(ctx, bannerURL, mime)
	if err != nil {
		return nil, err
	}

	content, err := r.contents.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	publicURL := content.URL()
	if origin != "" {
		if originURL, err := url.Parse(origin); err == nil && originURL.Host != "" {
			publicURL = originURL.JoinPath(publicURL).String()
		}
	}
	return &publicURL, nil
}

// upsertContent finds or creates the cache row for a banner source and
// pushes its expiry out by the TTL. The find-then-write pair is not
// serialized by a uniqueness constraint; concurrent resolutions of the
// same source may leave duplicate cache rows, which expire on their own.
func (r *Resolver) upsertContent(ctx context.Context, source, mime string) (int64, error) {
	expiresAt := time.Now().UTC().Add(bannerTTL)

	existing, err := r.contents.FindBySource(ctx, source)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		err := r.contents.Update(ctx, existing.ID, model.ContentUpdate{
			Source:    &source,
			Mime:      &mime,
			ExpiresAt: &expiresAt,
		})
		if err != nil {
			return 0, err
		}
		return existing.ID, nil
	}

	return r.contents.Create(ctx, model.ContentRequest{
		Source:    source,
		Mime:      mime,
		ExpiresAt: &expiresAt,
	})
}
