package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clynamic/scrollstack/internal/apperror"
	"github.com/clynamic/scrollstack/internal/model"
	"github.com/clynamic/scrollstack/internal/store"
)

const projectSourcesDDL = `
	CREATE TABLE IF NOT EXISTS project_sources (
		id     INTEGER PRIMARY KEY AUTOINCREMENT,
		name   TEXT NOT NULL,
		source TEXT NOT NULL,
		type   INTEGER NOT NULL
	);
`

var projectSourcesTable = store.NewIntTable("project_sources",
	"name", "source", "type")

// ProjectsService manages stored project sources. The raw source string
// is validated lazily: a malformed locator is only rejected when the
// project is resolved, never on write.
type ProjectsService struct {
	svc    *store.Service[model.ProjectRequest, model.ProjectSource, model.ProjectUpdate, int64]
	logger *slog.Logger
}

func NewProjectsService(db *store.DB, logger *slog.Logger) (*ProjectsService, error) {
	if err := db.Migrate(projectSourcesDDL); err != nil {
		return nil, fmt.Errorf("creating project_sources table: %w", err)
	}
	return &ProjectsService{
		svc: store.NewService[model.ProjectRequest, model.ProjectSource, model.ProjectUpdate, int64](db, projectSourcesTable, "project",
			store.Mapping[model.ProjectRequest, model.ProjectSource, model.ProjectUpdate]{
				Scan:   scanProjectSource,
				Insert: projectInsertFields,
				Patch:  projectPatchFields,
			}),
		logger: logger,
	}, nil
}

func scanProjectSource(row store.Scanner) (model.ProjectSource, error) {
	var p model.ProjectSource
	err := row.Scan(&p.ID, &p.Name, &p.Source, &p.Type)
	return p, err
}

func projectInsertFields(req model.ProjectRequest) []store.Field {
	return []store.Field{
		{Column: "name", Value: req.Name},
		{Column: "source", Value: req.Source},
		{Column: "type", Value: int64(req.Type)},
	}
}

func projectPatchFields(upd model.ProjectUpdate) []store.Field {
	var fields []store.Field
	fields = store.PatchField(fields, "name", upd.Name)
	fields = store.PatchField(fields, "source", upd.Source)
	if upd.Type != nil {
		fields = append(fields, store.Field{Column: "type", Value: int64(*upd.Type)})
	}
	return fields
}

func (s *ProjectsService) Create(ctx context.Context, req model.ProjectRequest) (int64, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return 0, apperror.ValidationFailed("name", "project name is required")
	}
	if req.Source == "" {
		return 0, apperror.ValidationFailed("source", "project source is required")
	}

	id, err := s.svc.Create(ctx, req)
	if err != nil {
		s.logger.Error("failed to create project",
			slog.String("name", req.Name),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created", slog.Int64("id", id), slog.String("name", req.Name))
	return id, nil
}

func (s *ProjectsService) Read(ctx context.Context, id int64) (model.ProjectSource, error) {
	return s.svc.Read(ctx, id)
}

func (s *ProjectsService) ReadOrNull(ctx context.Context, id int64) (*model.ProjectSource, error) {
	return s.svc.ReadOrNull(ctx, id)
}

// Page lists project sources. When user is set, the page is restricted to
// projects associated with that user.
func (s *ProjectsService) Page(ctx context.Context, page store.Page, user *int64) ([]model.ProjectSource, error) {
	if user != nil {
		return s.svc.PageWhere(ctx, page,
			"id IN (SELECT project_id FROM user_projects WHERE user_id = ?)", *user)
	}
	return s.svc.Page(ctx, page)
}

func (s *ProjectsService) Update(ctx context.Context, id int64, upd model.ProjectUpdate) error {
	if err := s.svc.Update(ctx, id, upd); err != nil {
		return err
	}
	s.logger.Info("project updated", slog.Int64("id", id))
	return nil
}

func (s *ProjectsService) Delete(ctx context.Context, id int64) error {
	if err := s.svc.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("project deleted", slog.Int64("id", id))
	return nil
}
