package receipt

import (
	"math"
	"strings"

	"github.com/okian/nestudio/internal/domain/model"
)

// DefaultWPM is the reading speed used when none is configured.
const DefaultWPM = 220

// EstimateReadMinutes returns max(1, round(words/wpm)). Words are
// whitespace-delimited tokens; a non-positive wpm means DefaultWPM.
func EstimateReadMinutes(text string, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultWPM
	}
	words := len(strings.Fields(text))
	minutes := int(math.Floor(float64(words)/float64(wpm) + 0.5))
	return max(1, minutes)
}

// ReadMinutes prefers the record's own estimate over the summary word count.
func ReadMinutes(p *model.ProjectRecord, wpm int) int {
	if p.ReadMinutes != nil && *p.ReadMinutes > 0 {
		return *p.ReadMinutes
	}
	return EstimateReadMinutes(p.Summary, wpm)
}
