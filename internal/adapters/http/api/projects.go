package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	repository "github.com/okian/nestudio/internal/adapters/repository"
	"github.com/okian/nestudio/internal/domain/model"
)

const (
	maxQueryRunes = 200
	maxTags       = 32
)

// ProjectsHandler serves the project list and single projects.
type ProjectsHandler struct {
	deps Dependencies
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(deps Dependencies) *ProjectsHandler {
	return &ProjectsHandler{deps: deps}
}

type projectsResponse struct {
	Query    string              `json:"query"`
	Tags     []string            `json:"tags"`
	Count    int                 `json:"count"`
	Projects []model.ProjectCard `json:"projects"`
}

// HandleList handles GET /api/projects?q=&tag=&tag=.
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.projects"
	if !allowGet(w, r, op) {
		return
	}
	fs := model.ParseFilterState(r.URL.Query())
	if utf8.RuneCountInString(fs.Query) > maxQueryRunes {
		writeKindError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("q longer than %d characters", maxQueryRunes)))
		return
	}
	if len(fs.SelectedTags) > maxTags {
		writeKindError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("more than %d tags", maxTags)))
		return
	}

	cards, err := h.deps.Projects(r.Context(), fs)
	if err != nil {
		writeKindError(w, WrapKind(op, ErrInternal, err))
		return
	}
	tags := fs.SelectedTags
	if tags == nil {
		tags = []string{}
	}
	if cards == nil {
		cards = []model.ProjectCard{}
	}
	writeJSON(w, http.StatusOK, projectsResponse{
		Query:    fs.Query,
		Tags:     tags,
		Count:    len(cards),
		Projects: cards,
	})
}

// HandleGet handles GET /api/projects/{id}.
func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.project"
	if !allowGet(w, r, op) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/projects/")
	if id == "" || strings.Contains(id, "/") {
		writeKindError(w, WrapKind(op, ErrBadRequest, errors.New("missing project id")))
		return
	}

	card, err := h.deps.Project(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeKindError(w, WrapKind(op, ErrNotFound, err))
		return
	case err != nil:
		writeKindError(w, WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, card)
}
