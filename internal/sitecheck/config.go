package sitecheck

import (
	"time"

	"github.com/okian/nestudio/internal/domain/model"
)

// Config holds configuration for a site check run.
type Config struct {
	BaseURL string        // Base URL of the site
	Workers int           // Number of concurrent filter checks
	Timeout time.Duration // HTTP request timeout
	MaxTags int           // Largest tag combination to try
	Verbose bool          // Log every case
}

// Case is one filter state to verify.
type Case struct {
	Query string
	Tags  []string
}

// State returns the case as a filter state.
func (c Case) State() model.FilterState {
	return model.FilterState{Query: c.Query, SelectedTags: c.Tags}
}

// projectsResponse mirrors GET /api/projects.
type projectsResponse struct {
	Query    string              `json:"query"`
	Tags     []string            `json:"tags"`
	Count    int                 `json:"count"`
	Projects []model.ProjectCard `json:"projects"`
}

// Stats holds run statistics.
type Stats struct {
	RunID          string
	Projects       int
	Tags           int
	CasesGenerated int
	CasesPassed    int
	CasesFailed    int
	LabelsChecked  int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
