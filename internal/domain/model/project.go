// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"strings"
)

// Placeholder is shown in place of an absent optional field.
const Placeholder = "—"

// ProjectRecord is a case study shown on the site.
// Records are defined once at startup and never mutated.
type ProjectRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Client      *string  `json:"client,omitempty"`
	Year        *int     `json:"year,omitempty"`
	Lot         *string  `json:"lot,omitempty"`
	Tags        []string `json:"tags"`
	Services    []string `json:"services,omitempty"`
	Status      string   `json:"status,omitempty"`
	Hours       *float64 `json:"hours,omitempty"`
	ReadMinutes *int     `json:"readMinutes,omitempty"`
	Summary     string   `json:"summary"`
	Image       *string  `json:"image,omitempty"`
	Link        string   `json:"link"`
}

// HasTag reports whether tag is one of the record's tags (exact match).
func (p *ProjectRecord) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DisplayClient returns the client or the placeholder.
func (p *ProjectRecord) DisplayClient() string {
	return orPlaceholder(p.Client)
}

// DisplayLot returns the lot label or the placeholder.
func (p *ProjectRecord) DisplayLot() string {
	return orPlaceholder(p.Lot)
}

// DisplayYear returns the year or the placeholder.
func (p *ProjectRecord) DisplayYear() string {
	if p.Year == nil {
		return Placeholder
	}
	return strconv.Itoa(*p.Year)
}

// DisplayHours returns the hours without trailing zeros, or the placeholder.
func (p *ProjectRecord) DisplayHours() string {
	if p.Hours == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*p.Hours, 'f', -1, 64)
}

// DisplayStatus returns the status or the placeholder.
func (p *ProjectRecord) DisplayStatus() string {
	if strings.TrimSpace(p.Status) == "" {
		return Placeholder
	}
	return p.Status
}

// ImageURL returns the image URL and whether the record has one.
func (p *ProjectRecord) ImageURL() (string, bool) {
	if p.Image == nil || *p.Image == "" {
		return "", false
	}
	return *p.Image, true
}

// ImageSrc returns the image URL, or "" when the record has none.
func (p *ProjectRecord) ImageSrc() string {
	u, _ := p.ImageURL()
	return u
}

func orPlaceholder(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return Placeholder
	}
	return *s
}

// DerivedArtifact is a receipt line item computed from a project's services.
type DerivedArtifact struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Qty  int    `json:"qty"`
}

// Experience is a client/year line in the about section.
type Experience struct {
	Client string `json:"client"`
	Year   int    `json:"year"`
}

// SkillGroup is a category of services in the about section.
type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Profile holds the about-section and contact details.
type Profile struct {
	Name     string `json:"name"`
	Tagline  string `json:"tagline"`
	Hero     string `json:"hero"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Email    string `json:"email"`
	Website  string `json:"website"`
	CVURL    string `json:"cvUrl"`
}

// Mailto returns the contact link used for the hero QR.
func (p Profile) Mailto() string {
	if p.Email == "" {
		return ""
	}
	return "mailto:" + p.Email
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }

// FloatPtr returns a pointer to f.
func FloatPtr(f float64) *float64 { return &f }
