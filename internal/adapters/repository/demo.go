package repository

import "github.com/okian/nestudio/internal/domain/model"

// DemoProjects returns the built-in case studies.
func DemoProjects() []model.ProjectRecord {
	return []model.ProjectRecord{
		{
			ID:          "c01",
			Title:       "UxUnite — Design System",
			Client:      model.StringPtr("UxUnite"),
			Year:        model.IntPtr(2022),
			Tags:        []string{"Design System", "Accessibility", "Color", "Typography", "Audit"},
			Services:    []string{"Design System", "Color Palette", "Accessibility", "Typography", "Design Audit"},
			Status:      "LIVE",
			ReadMinutes: model.IntPtr(4),
			Summary: "Design system to align teams: UI audit, refreshed color palette to meet WCAG, " +
				"modular type scale (1.25), shared tokens/components, docs and onboarding.",
			Link: "/cases/case-1.pdf",
		},
		{
			ID:          "c02",
			Title:       "Artsy — Museum UX App",
			Year:        model.IntPtr(2022),
			Tags:        []string{"UX Research", "Personas", "Wireframing", "Prototyping"},
			Services:    []string{"Interviews", "Personas", "Journey Mapping", "Wireframes", "Hi‑fi Prototype"},
			Status:      "ARCHIVED",
			ReadMinutes: model.IntPtr(5),
			Summary: "12 interviews uncovered pain points (tickets, inconsistent storytelling, navigation). " +
				"Ideation (Crazy 8s), low‑fi wireframes → high‑fi prototype for personalized tours, maps, and easier booking.",
			Link: "/cases/case-2.pdf",
		},
		{
			ID:          "c03",
			Title:       "Firefly — Ecommerce Website",
			Client:      model.StringPtr("Firefly"),
			Year:        model.IntPtr(2024),
			Tags:        []string{"Ecommerce", "Web", "Figma", "Branding"},
			Services:    []string{"Information Architecture", "Visual Design", "Prototype", "Site Build"},
			Status:      "LIVE",
			ReadMinutes: model.IntPtr(3),
			Summary: "Site for a stove alarm product; clear structure for buyers/owners (manuals, sheets), simple UX, " +
				"collaboration with two junior designers; defined palette and Cardo type in Figma/FigJam.",
			Link: "/cases/case-3.pdf",
		},
		{
			ID:          "c04",
			Title:       "Cloud First Nordics — Knowledge Hub",
			Client:      model.StringPtr("Accenture"),
			Year:        model.IntPtr(2023),
			Tags:        []string{"WordPress", "UI/UX", "Research", "Redesign"},
			Services:    []string{"Information Architecture", "Content Structuring", "Design", "WordPress (YOOtheme)"},
			Status:      "LIVE",
			ReadMinutes: model.IntPtr(4),
			Summary: "Internal portal aggregating Cloud First content; led IA, categorization, design and launch on " +
				"WordPress/YOOtheme. MVP shipped in ~1 month with minimal bugs.",
			Link: "/cases/cloud-first.pdf",
		},
	}
}

// DemoProfile returns the built-in studio profile.
func DemoProfile() model.Profile {
	return model.Profile{
		Name:    "neStudio",
		Tagline: "Web development and design studio",
		Hero:    "Making the complex simple. And having fun doing it.",
		Bio: "Designer and web developer working on design systems, research-led product UX " +
			"and small, fast websites.",
		Email:   "nestor.kulik@gmail.com",
		Website: "https://nestux.site",
		CVURL:   "/cv.pdf",
	}
}
