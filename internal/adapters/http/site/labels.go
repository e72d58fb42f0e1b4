package site

import (
	"math"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/okian/nestudio/internal/adapters/svg"
	"github.com/okian/nestudio/internal/domain/model"
	"github.com/okian/nestudio/internal/domain/motion"
)

const (
	maxLabelRunes = 64
	maxQRData     = 2048

	labelCache = "public, max-age=86400"

	// Remote QR bodies may be SVG; they must not run script on this origin.
	qrPolicy = "default-src 'none'; style-src 'unsafe-inline'"
)

// HandleBarcode handles GET /label/barcode.svg?value=&height=&density=.
func (h *Handler) HandleBarcode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	value := q.Get("value")
	if utf8.RuneCountInString(value) > maxLabelRunes {
		value = string([]rune(value)[:maxLabelRunes])
	}
	height := intParam(q.Get("height"), 48, 16, 400)
	density := intParam(q.Get("density"), 3, 1, 8)
	writeSVG(w, labelCache, h.deps.Barcode(value, height, density))
}

// HandlePattern handles GET /label/pattern.svg?seed=&modules=&size=.
func (h *Handler) HandlePattern(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	seed := q.Get("seed")
	if utf8.RuneCountInString(seed) > maxQRData {
		seed = string([]rune(seed)[:maxQRData])
	}
	modules := intParam(q.Get("modules"), 0, 0, 177)
	size := intParam(q.Get("size"), 108, 21, 1000)
	writeSVG(w, labelCache, h.deps.Pattern(seed, modules, size))
}

// HandleQR handles GET /label/qr?data=&size=. It always answers 200: when
// the real image is unavailable the local pattern is served instead.
func (h *Handler) HandleQR(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := q.Get("data")
	if len(data) > maxQRData {
		data = ""
	}
	size := intParam(q.Get("size"), 108, 21, 1000)
	img, src := h.deps.QRImage(r.Context(), data, size)

	cache := labelCache
	if src == model.SourceFallback {
		// A later request may get the real image.
		cache = "no-cache"
	}
	w.Header().Set("X-QR-Source", string(src))
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", cache)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", qrPolicy)
	_, _ = w.Write(img.Body)
}

// HandleField handles GET /label/field.svg?w=&h=&px=&py=, a still of the
// magnetic background with the pointer at (px, py).
func (h *Handler) HandleField(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width := intParam(q.Get("w"), 1200, 1, 4000)
	height := intParam(q.Get("h"), 800, 1, 4000)
	p := motion.Point{
		X: floatParam(q.Get("px"), float64(width)/2),
		Y: floatParam(q.Get("py"), float64(height)/2),
	}
	writeSVG(w, labelCache, h.deps.FieldSnapshot(width, height, p))
}

func writeSVG(w http.ResponseWriter, cache string, body []byte) {
	w.Header().Set("Content-Type", svg.ContentType)
	w.Header().Set("Cache-Control", cache)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = w.Write(body)
}

// intParam parses s, using def when it is missing or malformed and
// clamping the result to [lo, hi].
func intParam(s string, def, lo, hi int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		n = def
	}
	return min(max(n, lo), hi)
}

func floatParam(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}
