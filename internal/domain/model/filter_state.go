package model

import (
	"net/url"
	"slices"
	"strings"
)

// Query parameter names for the filter bar.
const (
	ParamQuery = "q"
	ParamTag   = "tag"
)

// FilterState is the visitor's query and tag selection.
// It lives only in the request URL and is never persisted.
type FilterState struct {
	Query        string   `json:"query"`
	SelectedTags []string `json:"selectedTags"`
}

// ParseFilterState reads q and repeated tag parameters. The query is kept
// verbatim, so surrounding spaces take part in the substring match.
// Blank and duplicate tags are dropped; selection order is kept.
func ParseFilterState(values url.Values) FilterState {
	fs := FilterState{Query: values.Get(ParamQuery)}
	for _, tag := range values[ParamTag] {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(fs.SelectedTags, tag) {
			continue
		}
		fs.SelectedTags = append(fs.SelectedTags, tag)
	}
	return fs
}

// IsEmpty reports whether no query and no tags are set.
func (f FilterState) IsEmpty() bool {
	return f.Query == "" && len(f.SelectedTags) == 0
}

// IsSelected reports whether tag is part of the selection.
func (f FilterState) IsSelected(tag string) bool {
	return slices.Contains(f.SelectedTags, tag)
}

// Toggle returns a copy with tag added if absent or removed if present.
func (f FilterState) Toggle(tag string) FilterState {
	out := FilterState{Query: f.Query}
	if idx := slices.Index(f.SelectedTags, tag); idx >= 0 {
		out.SelectedTags = slices.Delete(slices.Clone(f.SelectedTags), idx, idx+1)
		return out
	}
	out.SelectedTags = append(slices.Clone(f.SelectedTags), tag)
	return out
}

// Clear returns the empty state.
func (f FilterState) Clear() FilterState {
	return FilterState{}
}

// Values encodes the state as query parameters.
func (f FilterState) Values() url.Values {
	v := url.Values{}
	if f.Query != "" {
		v.Set(ParamQuery, f.Query)
	}
	for _, tag := range f.SelectedTags {
		v.Add(ParamTag, tag)
	}
	return v
}
