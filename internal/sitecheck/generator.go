package sitecheck

import (
	"strings"

	"github.com/okian/nestudio/internal/domain/model"
)

// Queries for the no-match and blank-query paths.
var edgeQueries = []string{"zzzz-nothing", "  "}

// generateCases derives filter states from the catalogue: the empty state,
// every tag combination up to maxTags, query terms cut from titles and
// summaries in mixed case, and each term crossed with each single tag.
func generateCases(records []model.ProjectRecord, tags []string, maxTags int) []Case {
	seen := make(map[string]struct{})
	var cases []Case
	add := func(c Case) {
		k := c.State().Values().Encode()
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		cases = append(cases, c)
	}

	add(Case{})
	for _, combo := range combinations(tags, maxTags) {
		add(Case{Tags: combo})
	}

	terms := queryTerms(records)
	for _, q := range append(terms, edgeQueries...) {
		add(Case{Query: q})
	}
	for _, q := range terms {
		for _, t := range tags {
			add(Case{Query: q, Tags: []string{t}})
		}
	}
	return cases
}

// combinations returns every non-empty subset of tags with at most k
// members, each in the order of tags.
func combinations(tags []string, k int) [][]string {
	var out [][]string
	var walk func(start int, cur []string)
	walk = func(start int, cur []string) {
		if len(cur) > 0 {
			out = append(out, append([]string(nil), cur...))
		}
		if len(cur) == k {
			return
		}
		for i := start; i < len(tags); i++ {
			walk(i+1, append(cur, tags[i]))
		}
	}
	walk(0, nil)
	return out
}

func queryTerms(records []model.ProjectRecord) []string {
	var terms []string
	for i := range records {
		r := &records[i]
		if words := strings.Fields(r.Title); len(words) > 0 {
			terms = append(terms, strings.ToUpper(words[0]))
		}
		if words := strings.Fields(r.Summary); len(words) > 1 {
			w := []rune(strings.ToLower(words[1]))
			if len(w) > 3 {
				w = w[:3]
			}
			terms = append(terms, string(w))
		}
	}
	return terms
}
