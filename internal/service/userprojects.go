package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clynamic/scrollstack/internal/model"
	"github.com/clynamic/scrollstack/internal/store"
)

const userProjectsDDL = `
	CREATE TABLE IF NOT EXISTS user_projects (
		user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		project_id INTEGER NOT NULL REFERENCES project_sources(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, project_id)
	);
`

// relationTable keys association rows by their (user_id, project_id)
// composite primary key.
type relationTable struct{}

func (relationTable) Name() string {
	return "user_projects"
}

func (relationTable) Columns() []string {
	return []string{"user_id", "project_id"}
}

func (relationTable) Selector(rel model.UserProjectRelation) (string, []any) {
	return "user_id = ? AND project_id = ?", []any{rel.UserID, rel.ProjectID}
}

// UserProjectsService manages the many-to-many link between users and
// projects. The relation has no payload beyond its key, so there is no
// update operation on this type: the engine's update path is simply never
// part of its surface. Deleting a referenced user or project removes its
// relations through the storage layer's cascade, not through this
// service.
type UserProjectsService struct {
	svc    *store.Service[model.UserProjectRelation, model.UserProjectRelation, struct{}, model.UserProjectRelation]
	logger *slog.Logger
}

func NewUserProjectsService(db *store.DB, logger *slog.Logger) (*UserProjectsService, error) {
	if err := db.Migrate(userProjectsDDL); err != nil {
		return nil, fmt.Errorf("creating user_projects table: %w", err)
	}
	return &UserProjectsService{
		svc: store.NewService[model.UserProjectRelation, model.UserProjectRelation, struct{}, model.UserProjectRelation](db, relationTable{}, "user-project relation",
			store.Mapping[model.UserProjectRelation, model.UserProjectRelation, struct{}]{
				Scan: scanRelation,
				Insert: func(rel model.UserProjectRelation) []store.Field {
					return []store.Field{
						{Column: "user_id", Value: rel.UserID},
						{Column: "project_id", Value: rel.ProjectID},
					}
				},
				Patch: func(struct{}) []store.Field { return nil },
			}),
		logger: logger,
	}, nil
}

func scanRelation(row store.Scanner) (model.UserProjectRelation, error) {
	var rel model.UserProjectRelation
	err := row.Scan(&rel.UserID, &rel.ProjectID)
	return rel, err
}

// Create inserts an association row. A duplicate pair violates the
// composite primary key and surfaces as a plain write error.
func (s *UserProjectsService) Create(ctx context.Context, rel model.UserProjectRelation) error {
	if _, err := s.svc.Create(ctx, rel); err != nil {
		return err
	}
	s.logger.Info("user associated with project",
		slog.Int64("userId", rel.UserID),
		slog.Int64("projectId", rel.ProjectID),
	)
	return nil
}

// Read fails with a not-found error when the association does not exist.
// Presence means "associated".
func (s *UserProjectsService) Read(ctx context.Context, rel model.UserProjectRelation) (model.UserProjectRelation, error) {
	return s.svc.Read(ctx, rel)
}

func (s *UserProjectsService) ReadOrNull(ctx context.Context, rel model.UserProjectRelation) (*model.UserProjectRelation, error) {
	return s.svc.ReadOrNull(ctx, rel)
}

func (s *UserProjectsService) Delete(ctx context.Context, rel model.UserProjectRelation) error {
	if err := s.svc.Delete(ctx, rel); err != nil {
		return err
	}
	s.logger.Info("user dissociated from project",
		slog.Int64("userId", rel.UserID),
		slog.Int64("projectId", rel.ProjectID),
	)
	return nil
}
