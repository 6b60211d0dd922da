// Package service contains the resource services. Each one is a thin
// instantiation of the generic engine in internal/store with its own
// column set and row mapping, plus validation and logging.
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

const (
	MaxNameLength  = 128
	MaxEmailLength = 128
)

const usersDDL = `
	CREATE TABLE IF NOT EXISTS users (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT NOT NULL,
		email    TEXT NOT NULL,
		pronouns TEXT,
		bio      TEXT,
		discord  TEXT,
		github   TEXT
	);
`

var usersTable = store.NewIntTable("users",
	"name", "email", "pronouns", "bio", "discord", "github")

// UsersService manages portfolio users.
type UsersService struct {
	svc    *store.Service[model.UserRequest, model.User, model.UserUpdate, int64]
	logger *slog.Logger
}

func NewUsersService(db *store.DB, logger *slog.Logger) (*UsersService, error) {
	if err := db.Migrate(usersDDL); err != nil {
		return nil, fmt.Errorf("creating users table: %w", err)
	}
	return &UsersService{
		svc: store.NewService[model.UserRequest, model.User, model.UserUpdate, int64](db, usersTable, "user",
			store.Mapping[model.UserRequest, model.User, model.UserUpdate]{
				Scan:   scanUser,
				Insert: userInsertFields,
				Patch:  userPatchFields,
			}),
		logger: logger,
	}, nil
}

func scanUser(row store.Scanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Pronouns, &u.Bio, &u.Discord, &u.GitHub)
	return u, err
}

func userInsertFields(req model.UserRequest) []store.Field {
	return []store.Field{
		{Column: "name", Value: req.Name},
		{Column: "email", Value: req.Email},
		{Column: "pronouns", Value: req.Pronouns},
		{Column: "bio", Value: req.Bio},
		{Column: "discord", Value: req.Discord},
		{Column: "github", Value: req.GitHub},
	}
}

func userPatchFields(upd model.UserUpdate) []store.Field {
	var fields []store.Field
	fields = store.PatchField(fields, "name", upd.Name)
	fields = store.PatchField(fields, "email", upd.Email)
	fields = store.PatchField(fields, "pronouns", upd.Pronouns)
	fields = store.PatchField(fields, "bio", upd.Bio)
	fields = store.PatchField(fields, "discord", upd.Discord)
	fields = store.PatchField(fields, "github", upd.GitHub)
	return fields
}

// Create validates and stores a new user, returning its id.
func (s *UsersService) Create(ctx context.Context, req model.UserRequest) (int64, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if req.Name == "" {
		return 0, apperror.ValidationFailed("name", "user name is required")
	}
	if len(req.Name) > MaxNameLength {
		return 0, apperror.ValidationFailed("name",
			fmt.Sprintf("user name must be %d characters or less", MaxNameLength))
	}
	if req.Email == "" {
		return 0, apperror.ValidationFailed("email", "user email is required")
	}
	if len(req.Email) > MaxEmailLength {
		return 0, apperror.ValidationFailed("email",
			fmt.Sprintf("user email must be %d characters or less", MaxEmailLength))
	}

	id, err := s.svc.Create(ctx, req)
	if err != nil {
		s.logger.Error("failed to create user",
			slog.String("name", req.Name),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created", slog.Int64("id", id), slog.String("name", req.Name))
	return id, nil
}

func (s *UsersService) Read(ctx context.Context, id int64) (model.User, error) {
	return s.svc.Read(ctx, id)
}

func (s *UsersService) ReadOrNull(ctx context.Context, id int64) (*model.User, error) {
	return s.svc.ReadOrNull(ctx, id)
}

// Page lists users. When project is set, the page is restricted to users
// associated with that project; the window then counts the joined result
// set, not the whole table.
func (s *UsersService) Page(ctx context.Context, page store.Page, project *int64) ([]model.User, error) {
	if project != nil {
		return s.svc.PageWhere(ctx, page,
			"id IN (SELECT user_id FROM user_projects WHERE project_id = ?)", *project)
	}
	return s.svc.Page(ctx, page)
}

// Update applies a partial patch. Name and email, when present, must be
// non-empty after trimming.
func (s *UsersService) Update(ctx context.Context, id int64, upd model.UserUpdate) error {
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if trimmed == "" {
			return apperror.ValidationFailed("name", "user name must not be empty")
		}
		upd.Name = &trimmed
	}
	if upd.Email != nil {
		trimmed := strings.TrimSpace(*upd.Email)
		if trimmed == "" {
			return apperror.ValidationFailed("email", "user email must not be empty")
		}
		upd.Email = &trimmed
	}

	if err := s.svc.Update(ctx, id, upd); err != nil {
		return err
	}
	s.logger.Info("user updated", slog.Int64("id", id))
	return nil
}

// Delete removes a user. Association rows cascade in the storage layer.
func (s *UsersService) Delete(ctx context.Context, id int64) error {
	if err := s.svc.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", slog.Int64("id", id))
	return nil
}
