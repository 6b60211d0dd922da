package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/clynamic/scrollstack/internal/model"
	"github.com/clynamic/scrollstack/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newUsersService(t *testing.T, db *store.DB) *UsersService {
	t.Helper()
	svc, err := NewUsersService(db, testLogger())
	if err != nil {
		t.Fatalf("failed to create users service: %v", err)
	}
	return svc
}

func newProjectsService(t *testing.T, db *store.DB) *ProjectsService {
	t.Helper()
	svc, err := NewProjectsService(db, testLogger())
	if err != nil {
		t.Fatalf("failed to create projects service: %v", err)
	}
	return svc
}

func newContentsService(t *testing.T, db *store.DB) *ContentsService {
	t.Helper()
	svc, err := NewContentsService(db, testLogger())
	if err != nil {
		t.Fatalf("failed to create contents service: %v", err)
	}
	return svc
}

func newUserProjectsService(t *testing.T, db *store.DB) *UserProjectsService {
	t.Helper()
	svc, err := NewUserProjectsService(db, testLogger())
	if err != nil {
		t.Fatalf("failed to create user projects service: %v", err)
	}
	return svc
}

func createTestUser(t *testing.T, svc *UsersService, name string) int64 {
	t.Helper()
	id, err := svc.Create(context.Background(), model.UserRequest{
		Name:  name,
		Email: name + "@example.com",
	})
	if err != nil {
		t.Fatalf("failed to create user %q: %v", name, err)
	}
	return id
}

func createTestProject(t *testing.T, svc *ProjectsService, name string) int64 {
	t.Helper()
	id, err := svc.Create(context.Background(), model.ProjectRequest{
		Name:   name,
		Source: "clynamic/" + name,
		Type:   model.ProjectTypeGitHub,
	})
	if err != nil {
		t.Fatalf("failed to create project %q: %v", name, err)
	}
	return id
}
