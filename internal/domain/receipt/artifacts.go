// Package receipt derives the receipt-style content shown on project cards:
// artifact line items with synthetic product codes, read-time estimates and
// the about-section skill and experience lists.
package receipt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/okian/nestudio/internal/domain/model"
)

// serviceAlias renames services for display. Unknown names pass through.
var serviceAlias = map[string]string{
	"Design System": "Design System Package",
	"Components":    "Component Kit",
	"Governance":    "Governance Playbook",
	"UX Research":   "UX Research Sprint",
	"Flows":         "User Flow Mapping",
	"Web":           "Web Build",
	"Prototyping":   "Prototype Kit",
	"Responsive":    "Responsive QA",
}

const (
	abbrMax = 4
	abbrMin = 3
	codeMod = 1000
)

// MapServiceName returns the display alias of s, or s itself.
func MapServiceName(s string) string {
	if alias, ok := serviceAlias[s]; ok {
		return alias
	}
	return s
}

// ProductCode synthesises SKU-ABBR-NUM for name. ABBR is the upper-cased
// first letters of up to four words, padded with X to three; NUM is a
// polynomial hash of name:seed modulo 1000.
func ProductCode(name, seed string) string {
	return fmt.Sprintf("SKU-%s-%03d", abbreviate(name), hashString(name+":"+seed)%codeMod)
}

func abbreviate(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			return r
		}
		return -1
	}, name)

	var b strings.Builder
	for _, word := range strings.Split(clean, " ") {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		if b.Len() == abbrMax {
			break
		}
	}
	abbr := b.String()
	if len(abbr) < abbrMin {
		abbr += strings.Repeat("X", abbrMin-len(abbr))
	}
	return abbr
}

// hashString is h = h*31 + unit over UTF-16 code units with uint32 wrap.
func hashString(s string) uint32 {
	var h uint32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*31 + uint32(u)
	}
	return h
}

// DeriveArtifacts maps a record's services, or its tags when it has none,
// to receipt line items. Codes are seeded with "<id>-<index>".
func DeriveArtifacts(p *model.ProjectRecord) []model.DerivedArtifact {
	if p == nil {
		return nil
	}
	base := p.Services
	if len(base) == 0 {
		base = p.Tags
	}
	out := make([]model.DerivedArtifact, 0, len(base))
	for i, s := range base {
		name := MapServiceName(s)
		out = append(out, model.DerivedArtifact{
			Name: name,
			Code: ProductCode(name, p.ID+"-"+strconv.Itoa(i)),
			Qty:  1,
		})
	}
	return out
}
