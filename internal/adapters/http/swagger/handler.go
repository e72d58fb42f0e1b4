// Package swagger serves the OpenAPI document and a ReDoc page for it.
package swagger

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/nestudio/pkg/logger"
)

// Error constants.
var (
	ErrServe = errors.New("swagger serve failed")
)

// RedocScript is the ReDoc bundle the docs page loads.
const RedocScript = "https://cdn.jsdelivr.net/npm/redoc@2.1.5/bundles/redoc.standalone.js"

// Register attaches the API docs routes to mux.
// Routes:
//
//	GET /api-docs      -> ReDoc HTML
//	GET /openapi.yaml  -> Embedded OpenAPI document
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("/api-docs", serveBytes("text/html; charset=utf-8", []byte(indexHTML)))
	mux.HandleFunc("/openapi.yaml", serveBytes("application/yaml; charset=utf-8", OpenAPI))
}

func serveBytes(contentType string, body []byte) http.HandlerFunc {
	log := logger.Named("swagger")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		if _, err := w.Write(body); err != nil {
			log.Debug(r.Context(), "write failed", logger.Error(fmt.Errorf("%w: %s: %w", ErrServe, r.URL.Path, err)))
		}
	}
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>neStudio API – ReDoc</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="` + RedocScript + `"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
