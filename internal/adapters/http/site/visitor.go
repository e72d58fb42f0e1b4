package site

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/nestudio/internal/domain/theme"
)

// VisitorCookie holds the anonymous visitor id that keys theme preferences.
const VisitorCookie = "nestudio_vid"

const (
	visitorMaxAge = 365 * 24 * 60 * 60

	// Client hint carrying the system colour scheme.
	colorSchemeHint = "Sec-CH-Prefers-Color-Scheme"
)

type visitorKey struct{}

// VisitorFromContext returns the visitor id set by the site middleware.
func VisitorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(visitorKey{}).(string)
	return id
}

// withVisitor makes sure the request carries a visitor id and puts the
// resolved theme in the request context.
func (h *Handler) withVisitor(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(VisitorCookie); err == nil {
			if u, err := uuid.Parse(c.Value); err == nil {
				id = u.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     VisitorCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   visitorMaxAge,
				HttpOnly: true,
				Secure:   h.secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		w.Header().Set("Accept-CH", colorSchemeHint)
		w.Header().Add("Vary", colorSchemeHint)

		ctx := context.WithValue(r.Context(), visitorKey{}, id)
		ctx = theme.NewContext(ctx, h.deps.Themes().Resolve(ctx, id, prefersDark(r)))
		next(w, r.WithContext(ctx))
	}
}

// prefersDark reads the colour-scheme client hint, a quoted sf-string.
func prefersDark(r *http.Request) bool {
	v := strings.Trim(strings.TrimSpace(r.Header.Get(colorSchemeHint)), `"`)
	return strings.EqualFold(v, "dark")
}
