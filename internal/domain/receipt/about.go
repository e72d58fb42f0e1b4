package receipt

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/nestudio/internal/domain/model"
)

type category struct {
	label string
	match []string
}

// categories is listed in display order.
var categories = []category{
	{"Design System Package", []string{"color palette", "design audit", "typography"}},
	{"Product Design", []string{
		"wireframes", "interviews", "prototype", "hi‑fi prototype", "hi-fi prototype",
		"information architecture", "content structuring", "personas", "journey mapping", "design",
	}},
	{"Development", []string{"site build", "wordpress (yootheme)", "wordpress"}},
	{"Design System", []string{"design system"}},
	{"Accessibility", []string{"accessibility"}},
	{"Visual Design", []string{"visual design"}},
}

const unknownOrder = 999

func normalise(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Category returns the skill category of a service, or the service itself.
func Category(service string) string {
	n := normalise(service)
	for _, c := range categories {
		for _, m := range c.match {
			if normalise(m) == n {
				return c.label
			}
		}
	}
	return service
}

func categoryOrder(label string) int {
	for i, c := range categories {
		if c.label == label {
			return i
		}
	}
	return unknownOrder
}

// Skills groups every service across records by category. Known categories
// come first in fixed order; the rest follow by name.
func Skills(records []model.ProjectRecord) []model.SkillGroup {
	index := make(map[string]int)
	var groups []model.SkillGroup
	for i := range records {
		for _, svc := range records[i].Services {
			label := Category(svc)
			pos, ok := index[label]
			if !ok {
				pos = len(groups)
				index[label] = pos
				groups = append(groups, model.SkillGroup{Category: label})
			}
			if !slices.Contains(groups[pos].Items, svc) {
				groups[pos].Items = append(groups[pos].Items, svc)
			}
		}
	}

	col := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(groups, func(a, b model.SkillGroup) int {
		if d := categoryOrder(a.Category) - categoryOrder(b.Category); d != 0 {
			return d
		}
		return col.CompareString(a.Category, b.Category)
	})
	return groups
}

// Experiences lists client and year for every record that has both.
func Experiences(records []model.ProjectRecord) []model.Experience {
	var out []model.Experience
	for i := range records {
		p := &records[i]
		if p.Client == nil || strings.TrimSpace(*p.Client) == "" || p.Year == nil {
			continue
		}
		out = append(out, model.Experience{Client: *p.Client, Year: *p.Year})
	}
	return out
}
