package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/clynamic/scrollstack/internal/apperror"
	"github.com/clynamic/scrollstack/internal/model"
	"github.com/clynamic/scrollstack/internal/service"
)

// UserProjectsHandler exposes the user↔project association. There is no
// update endpoint: an association either exists or it doesn't.
type UserProjectsHandler struct {
	relations *service.UserProjectsService
	logger    *slog.Logger
}

func NewUserProjectsHandler(relations *service.UserProjectsService, logger *slog.Logger) *UserProjectsHandler {
	return &UserProjectsHandler{relations: relations, logger: logger}
}

// HandleCreate handles POST /user-projects.
func (h *UserProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var rel model.UserProjectRelation
	if err := json.NewDecoder(r.Body).Decode(&rel); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}
	if rel.UserID == 0 {
		writeError(w, apperror.MissingParameter("userId"))
		return
	}
	if rel.ProjectID == 0 {
		writeError(w, apperror.MissingParameter("projectId"))
		return
	}

	if err := h.relations.Create(r.Context(), rel); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/user-projects/%d/%d", rel.UserID, rel.ProjectID))
	w.WriteHeader(http.StatusCreated)
}

// HandleGet handles GET /user-projects/{userId}/{projectId} as an
// existence check: 200 when associated, 404 otherwise.
func (h *UserProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rel, err := relationFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.relations.Read(r.Context(), rel); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleDelete handles DELETE /user-projects/{userId}/{projectId}.
func (h *UserProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	rel, err := relationFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.relations.Delete(r.Context(), rel); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func relationFromPath(r *http.Request) (model.UserProjectRelation, error) {
	userID, err := pathID(r, "userId")
	if err != nil {
		return model.UserProjectRelation{}, err
	}
	projectID, err := pathID(r, "projectId")
	if err != nil {
		return model.UserProjectRelation{}, err
	}
	return model.UserProjectRelation{UserID: userID, ProjectID: projectID}, nil
}
