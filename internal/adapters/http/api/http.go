// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/nestudio/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Projects returns the cards matching the filter in catalogue order.
	Projects(ctx context.Context, fs model.FilterState) ([]model.ProjectCard, error)
	// Project returns one card; unknown ids wrap repository.ErrNotFound.
	Project(ctx context.Context, id string) (model.ProjectCard, error)

	Tags(ctx context.Context) ([]string, error)
	About(ctx context.Context) (model.About, error)
}

// Server wires HTTP routes for the JSON API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	projectsHandler *ProjectsHandler
	aboutHandler    *AboutHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		projectsHandler: NewProjectsHandler(deps),
		aboutHandler:    NewAboutHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleHealth)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/projects", MetricsMiddleware(s.projectsHandler.HandleList, "api_projects"))
	mux.HandleFunc("/api/projects/", MetricsMiddleware(s.projectsHandler.HandleGet, "api_project"))
	mux.HandleFunc("/api/tags", MetricsMiddleware(s.aboutHandler.HandleTags, "api_tags"))
	mux.HandleFunc("/api/about", MetricsMiddleware(s.aboutHandler.HandleAbout, "api_about"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeKindError picks the status from the error's kind.
func writeKindError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrMethodNotAllowed):
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}

// allowGet answers 405 for anything but GET and HEAD.
func allowGet(w http.ResponseWriter, r *http.Request, op string) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	writeKindError(w, NewKind(op, ErrMethodNotAllowed))
	return false
}
