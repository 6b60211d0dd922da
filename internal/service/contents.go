package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clynamic/scrollstack/internal/apperror"
	"github.com/clynamic/scrollstack/internal/model"
	"github.com/clynamic/scrollstack/internal/store"
)

const contentsDDL = `
	CREATE TABLE IF NOT EXISTS contents (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		source     TEXT NOT NULL,
		mime       TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME,
		expires_at DATETIME
	);
`

var contentsTable = store.NewIntTable("contents",
	"source", "mime", "created_at", "updated_at", "expires_at")

// ContentsService manages cached references to externally hosted binary
// content. Rows are cache entries: the resolution pipeline creates and
// refreshes them, and expiry makes them logically gone for retrieval
// while the row itself persists.
type ContentsService struct {
	svc    *store.Service[model.ContentRequest, model.Content, model.ContentUpdate, int64]
	logger *slog.Logger
}

func NewContentsService(db *store.DB, logger *slog.Logger) (*ContentsService, error) {
	if err := db.Migrate(contentsDDL); err != nil {
		return nil, fmt.Errorf("creating contents table: %w", err)
	}
	return &ContentsService{
		svc: store.NewService[model.ContentRequest, model.Content, model.ContentUpdate, int64](db, contentsTable, "content",
			store.Mapping[model.ContentRequest, model.Content, model.ContentUpdate]{
				Scan:   scanContent,
				Insert: contentInsertFields,
				Patch:  contentPatchFields,
			}),
		logger: logger,
	}, nil
}

func scanContent(row store.Scanner) (model.Content, error) {
	var c model.Content
	err := row.Scan(&c.ID, &c.Source, &c.Mime, &c.CreatedAt, &c.UpdatedAt, &c.ExpiresAt)
	return c, err
}

func contentInsertFields(req model.ContentRequest) []store.Field {
	return []store.Field{
		{Column: "source", Value: req.Source},
		{Column: "mime", Value: req.Mime},
		{Column: "created_at", Value: time.Now().UTC()},
		{Column: "expires_at", Value: req.ExpiresAt},
	}
}

func contentPatchFields(upd model.ContentUpdate) []store.Field {
	var fields []store.Field
	fields = store.PatchField(fields, "source", upd.Source)
	fields = store.PatchField(fields, "mime", upd.Mime)
	fields = store.PatchField(fields, "expires_at", upd.ExpiresAt)
	if len(fields) > 0 {
		fields = append(fields, store.Field{Column: "updated_at", Value: time.Now().UTC()})
	}
	return fields
}

func (s *ContentsService) Create(ctx context.Context, req model.ContentRequest) (int64, error) {
	if req.Source == "" {
		return 0, apperror.ValidationFailed("source", "content source is required")
	}
	if req.Mime == "" {
		return 0, apperror.ValidationFailed("mime", "content mime type is required")
	}

	id, err := s.svc.Create(ctx, req)
	if err != nil {
		s.logger.Error("failed to create content", slog.String("error", err.Error()))
		return 0, fmt.Errorf("creating content: %w", err)
	}
	return id, nil
}

func (s *ContentsService) Read(ctx context.Context, id int64) (model.Content, error) {
	return s.svc.Read(ctx, id)
}

func (s *ContentsService) ReadOrNull(ctx context.Context, id int64) (*model.Content, error) {
	return s.svc.ReadOrNull(ctx, id)
}

func (s *ContentsService) Page(ctx context.Context, page store.Page) ([]model.Content, error) {
	return s.svc.Page(ctx, page)
}

// FindBySource returns a content record whose source equals the given
// locator, or nil when none exists. Duplicate cache rows for one source
// are possible (concurrent writers race the find-or-create check); the
// first match wins.
func (s *ContentsService) FindBySource(ctx context.Context, source string) (*model.Content, error) {
	matches, err := s.svc.PageWhere(ctx, store.Page{Number: 1, Size: 1}, "source = ?", source)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (s *ContentsService) Update(ctx context.Context, id int64, upd model.ContentUpdate) error {
	return s.svc.Update(ctx, id, upd)
}

func (s *ContentsService) Delete(ctx context.Context, id int64) error {
	if err := s.svc.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("content deleted", slog.Int64("id", id))
	return nil
}
