package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/clynamic/scrollstack/internal/fetch"
	"github.com/clynamic/scrollstack/internal/model"
	"github.com/clynamic/scrollstack/internal/service"
	"github.com/clynamic/scrollstack/internal/store"
)

// testEnv wires handlers over a throwaway database with the same routes
// the server registers, minus admin auth.
type testEnv struct {
	router    *chi.Mux
	users     *service.UsersService
	projects  *service.ProjectsService
	contents  *service.ContentsService
	relations *service.UserProjectsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users, err := service.NewUsersService(db, logger)
	if err != nil {
		t.Fatalf("failed to create users service: %v", err)
	}
	projects, err := service.NewProjectsService(db, logger)
	if err != nil {
		t.Fatalf("failed to create projects service: %v", err)
	}
	contents, err := service.NewContentsService(db, logger)
	if err != nil {
		t.Fatalf("failed to create contents service: %v", err)
	}
	relations, err := service.NewUserProjectsService(db, logger)
	if err != nil {
		t.Fatalf("failed to create user projects service: %v", err)
	}

	usersHandler := NewUsersHandler(users, logger)
	contentsHandler := NewContentsHandler(contents, fetch.NewClient(), logger)
	relationsHandler := NewUserProjectsHandler(relations, logger)

	router := chi.NewRouter()
	router.Get("/users", usersHandler.HandleList)
	router.Post("/users", usersHandler.HandleCreate)
	router.Get("/users/{id}", usersHandler.HandleGet)
	router.Put("/users/{id}", usersHandler.HandleUpdate)
	router.Delete("/users/{id}", usersHandler.HandleDelete)
	router.Get("/cdn/{id}", contentsHandler.HandleStream)
	router.Post("/user-projects", relationsHandler.HandleCreate)
	router.Get("/user-projects/{userId}/{projectId}", relationsHandler.HandleGet)
	router.Delete("/user-projects/{userId}/{projectId}", relationsHandler.HandleDelete)

	return &testEnv{
		router:    router,
		users:     users,
		projects:  projects,
		contents:  contents,
		relations: relations,
	}
}

// do runs one request through the router. body, when non-nil, is sent as
// JSON.
func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
	return out
}

func seedUser(t *testing.T, e *testEnv, name string) int64 {
	t.Helper()
	id, err := e.users.Create(context.Background(), model.UserRequest{
		Name:  name,
		Email: name + "@example.com",
	})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

func seedProject(t *testing.T, e *testEnv, name string) int64 {
	t.Helper()
	id, err := e.projects.Create(context.Background(), model.ProjectRequest{
		Name:   name,
		Source: "clynamic/" + name,
		Type:   model.ProjectTypeGitHub,
	})
	if err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return id
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}
