package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/clynamic/scrollstack/internal/apperror"
	"github.com/clynamic/scrollstack/internal/model"
	"github.com/clynamic/scrollstack/internal/resolver"
	"github.com/clynamic/scrollstack/internal/service"
)

// ProjectsHandler exposes CRUD endpoints for stored project sources and
// serves the resolved view on reads: GET responses are always assembled
// from live remote data, never from storage alone.
type ProjectsHandler struct {
	projects *service.ProjectsService
	resolver *resolver.Resolver
	logger   *slog.Logger
}

func NewProjectsHandler(projects *service.ProjectsService, resolver *resolver.Resolver, logger *slog.Logger) *ProjectsHandler {
	return &ProjectsHandler{projects: projects, resolver: resolver, logger: logger}
}

// HandleCreate handles POST /projects. The source locator is not
// validated here; a malformed source only surfaces when resolved.
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	id, err := h.projects.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/projects/%d", id))
	writeJSON(w, http.StatusCreated, id)
}

// HandleGet handles GET /projects/{id}, triggering the resolution
// pipeline. A missing row is a plain not-found; a resolution failure
// propagates as its own error kind.
func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	src, err := h.projects.Read(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	project, err := h.resolver.Resolve(r.Context(), src, requestOrigin(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// HandleList handles GET /projects. Sources that fail to resolve are
// dropped from the response rather than failing the whole page.
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sources, err := h.projects.Page(r.Context(), pageFromQuery(r), queryID(r, "user"))
	if err != nil {
		writeError(w, err)
		return
	}

	projects := h.resolver.ResolveAll(r.Context(), sources, requestOrigin(r))
	writeJSON(w, http.StatusOK, projects)
}

// HandleUpdate handles PUT /projects/{id}.
func (h *ProjectsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var upd model.ProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.projects.Update(r.Context(), id, upd); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /projects/{id}. Association rows cascade
// in the storage layer.
func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
