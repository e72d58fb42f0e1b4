// Package site serves the server-rendered portfolio page, its label
// graphics, the theme toggle and the embedded static assets.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/okian/nestudio/internal/adapters/enhance"
	"github.com/okian/nestudio/internal/adapters/http/api"
	"github.com/okian/nestudio/internal/domain/model"
	"github.com/okian/nestudio/internal/domain/motion"
	"github.com/okian/nestudio/internal/domain/theme"
	"github.com/okian/nestudio/pkg/logger"
)

// Error constants
var (
	ErrTemplate = errors.New("site template failed")
	ErrRender   = errors.New("site render failed")
)

// Dependencies required by the site handlers.
type Dependencies interface {
	Projects(ctx context.Context, fs model.FilterState) ([]model.ProjectCard, error)
	Tags(ctx context.Context) ([]string, error)
	About(ctx context.Context) (model.About, error)

	// QRImage never fails; the source says whether the image is real.
	QRImage(ctx context.Context, data string, size int) (model.Image, model.ImageSource)
	Barcode(value string, height, density int) []byte
	Pattern(seed string, modules, size int) []byte
	FieldSnapshot(width, height int, p motion.Point) []byte

	Themes() *theme.Controller
	Enhancement() *enhance.Capability
	Spring() motion.Spring
	Field() motion.Field
}

// Handler renders the page and serves the label routes.
type Handler struct {
	deps         Dependencies
	page         *template.Template
	log          logger.Logger
	now          func() time.Time
	secureCookie bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithClock replaces time.Now for the dates printed on the page.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithSecureCookie marks the visitor cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(h *Handler) {
		h.secureCookie = secure
	}
}

// New parses the embedded page template.
func New(deps Dependencies, opts ...Option) (*Handler, error) {
	h := &Handler{deps: deps, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.Get().Named("site")
	}
	page, err := template.New("page.html.tmpl").Funcs(funcs).ParseFS(assets, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	h.page = page
	return h, nil
}

// Register attaches the site routes to mux. The page owns "/", so API
// routes must be registered on the same mux with more specific patterns.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("/", api.MetricsMiddleware(h.withVisitor(h.HandleRoot), "page"))
	mux.HandleFunc("/theme/toggle", api.MetricsMiddleware(h.withVisitor(h.HandleThemeToggle), "theme_toggle"))

	mux.HandleFunc("/label/barcode.svg", api.MetricsMiddleware(h.HandleBarcode, "label_barcode"))
	mux.HandleFunc("/label/pattern.svg", api.MetricsMiddleware(h.HandlePattern, "label_pattern"))
	mux.HandleFunc("/label/qr", api.MetricsMiddleware(h.HandleQR, "label_qr"))
	mux.HandleFunc("/label/field.svg", api.MetricsMiddleware(h.HandleField, "label_field"))

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
}

// HandleRoot handles GET / and renders the page for the filter in the URL.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	data, err := h.pageData(ctx, model.ParseFilterState(r.URL.Query()))
	if err != nil {
		h.log.Error(ctx, "page data", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		h.log.Error(ctx, "render page", logger.Error(fmt.Errorf("%w: %w", ErrRender, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
