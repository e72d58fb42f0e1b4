// Package filter derives the visible project subset from a query and a tag selection.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/okian/nestudio/internal/domain/model"
)

// Apply returns the records matching query and every selected tag, in source order.
// An empty query and an empty selection return records unchanged.
func Apply(records []model.ProjectRecord, query string, selected []string) []model.ProjectRecord {
	if query == "" && len(selected) == 0 {
		return records
	}
	needle := fold(query)
	out := make([]model.ProjectRecord, 0, len(records))
	for i := range records {
		if matches(&records[i], needle, selected) {
			out = append(out, records[i])
		}
	}
	return out
}

// ApplyState is Apply driven by a FilterState.
func ApplyState(records []model.ProjectRecord, fs model.FilterState) []model.ProjectRecord {
	return Apply(records, fs.Query, fs.SelectedTags)
}

// Matches reports whether a single record passes both predicates.
func Matches(record *model.ProjectRecord, query string, selected []string) bool {
	return matches(record, fold(query), selected)
}

func matches(record *model.ProjectRecord, foldedQuery string, selected []string) bool {
	if foldedQuery != "" && !strings.Contains(fold(haystack(record)), foldedQuery) {
		return false
	}
	for _, tag := range selected {
		if !record.HasTag(tag) {
			return false
		}
	}
	return true
}

// haystack is the searchable text: title, summary and the space-joined tags.
func haystack(record *model.ProjectRecord) string {
	return record.Title + record.Summary + strings.Join(record.Tags, " ")
}

// fold case-folds s. Casers keep state, so each call gets its own.
func fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}

// AllTags returns the distinct tags of records in first-appearance order.
func AllTags(records []model.ProjectRecord) []string {
	seen := make(map[string]struct{})
	var tags []string
	for i := range records {
		for _, tag := range records[i].Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}
