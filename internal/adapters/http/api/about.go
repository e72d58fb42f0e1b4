package api

import "net/http"

// AboutHandler serves tags and the about section.
type AboutHandler struct {
	deps Dependencies
}

// NewAboutHandler creates a new about handler.
func NewAboutHandler(deps Dependencies) *AboutHandler {
	return &AboutHandler{deps: deps}
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

// HandleTags handles GET /api/tags.
func (h *AboutHandler) HandleTags(w http.ResponseWriter, r *http.Request) {
	const op = "api.tags"
	if !allowGet(w, r, op) {
		return
	}
	tags, err := h.deps.Tags(r.Context())
	if err != nil {
		writeKindError(w, WrapKind(op, ErrInternal, err))
		return
	}
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, tagsResponse{Tags: tags})
}

// HandleAbout handles GET /api/about.
func (h *AboutHandler) HandleAbout(w http.ResponseWriter, r *http.Request) {
	const op = "api.about"
	if !allowGet(w, r, op) {
		return
	}
	about, err := h.deps.About(r.Context())
	if err != nil {
		writeKindError(w, WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, about)
}
