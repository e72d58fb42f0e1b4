package site

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/nestudio/pkg/logger"
)

// HandleThemeToggle handles POST /theme/toggle, and GET for plain links.
// It flips the visitor's theme and sends them back where they came from.
func (h *Handler) HandleThemeToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	visitor := VisitorFromContext(ctx)
	next, err := h.deps.Themes().Toggle(ctx, visitor, prefersDark(r))
	if err != nil {
		// The page still renders with the resolved theme.
		h.log.Warn(ctx, "theme toggle not saved", logger.String("visitor", visitor), logger.Error(err))
	} else {
		h.log.Debug(ctx, "theme toggled", logger.String("visitor", visitor), logger.String("theme", next.String()))
	}
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// returnPath keeps only the path and query of the referrer so the redirect
// always stays on this site.
func returnPath(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	out := u.Path
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}
