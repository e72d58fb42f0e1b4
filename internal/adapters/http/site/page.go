package site

import (
	"context"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/nestudio/internal/adapters/enhance"
	"github.com/okian/nestudio/internal/domain/model"
	"github.com/okian/nestudio/internal/domain/theme"
)

const (
	easingSamples = 40
	workAnchor    = "#work"

	headerBarcode = "PORTFOLIO-2025"
	footerBarcode = "MADE-IN-WEB/CE"
)

// chip is one tag button in the filter bar.
type chip struct {
	Name     string
	Selected bool
	URL      string
}

type pageData struct {
	Theme    theme.Theme
	Filter   model.FilterState
	Chips    []chip
	ClearURL string
	Cards    []model.ProjectCard
	Total    int
	About    model.About

	Easing    template.CSS
	SettleMS  int64
	FieldCell int
	Scripts   []string

	Today         string
	Year          int
	HeaderBarcode string
	FooterBarcode string
}

func (h *Handler) pageData(ctx context.Context, fs model.FilterState) (pageData, error) {
	all, err := h.deps.Projects(ctx, model.FilterState{})
	if err != nil {
		return pageData{}, err
	}
	cards := all
	if !fs.IsEmpty() {
		if cards, err = h.deps.Projects(ctx, fs); err != nil {
			return pageData{}, err
		}
	}
	tags, err := h.deps.Tags(ctx)
	if err != nil {
		return pageData{}, err
	}
	about, err := h.deps.About(ctx)
	if err != nil {
		return pageData{}, err
	}

	chips := make([]chip, len(tags))
	for i, t := range tags {
		chips[i] = chip{Name: t, Selected: fs.IsSelected(t), URL: filterURL(fs.Toggle(t))}
	}

	var scripts []string
	if c := h.deps.Enhancement(); c != nil && c.State() == enhance.Loaded {
		scripts = c.Scripts()
	}

	spring := h.deps.Spring()
	now := h.now()
	return pageData{
		Theme:         theme.FromContext(ctx),
		Filter:        fs,
		Chips:         chips,
		ClearURL:      filterURL(fs.Clear()),
		Cards:         cards,
		Total:         len(all),
		About:         about,
		Easing:        template.CSS(spring.CSSLinear(easingSamples)), //nolint:gosec // generated from numbers only
		SettleMS:      spring.Settle().Milliseconds(),
		FieldCell:     h.deps.Field().Cell,
		Scripts:       scripts,
		Today:         now.Format("2006-01-02"),
		Year:          now.Year(),
		HeaderBarcode: headerBarcode,
		FooterBarcode: footerBarcode,
	}, nil
}

// filterURL links to the page with fs applied, scrolled to the card grid.
func filterURL(fs model.FilterState) string {
	if fs.IsEmpty() {
		return "/" + workAnchor
	}
	return "/?" + fs.Values().Encode() + workAnchor
}

var funcs = template.FuncMap{
	"barcodeURL": func(value string, height int) string {
		return "/label/barcode.svg?" + url.Values{
			"value":  {value},
			"height": {strconv.Itoa(height)},
		}.Encode()
	},
	"qrURL": func(data string, size int) string {
		return "/label/qr?" + url.Values{
			"data": {data},
			"size": {strconv.Itoa(size)},
		}.Encode()
	},
	"patternURL": func(seed string, size int) string {
		return "/label/pattern.svg?" + url.Values{
			"seed": {seed},
			"size": {strconv.Itoa(size)},
		}.Encode()
	},
	"join": strings.Join,
}
