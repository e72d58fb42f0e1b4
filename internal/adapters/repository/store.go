// Package repository serves the project catalogue. The data is fixed at
// startup; callers receive copies and cannot change it.
package repository

import (
	"context"

	"github.com/okian/nestudio/internal/domain/model"
)

// Store provides read access to projects and the site profile.
type Store interface {
	// List returns every project in display order.
	List(ctx context.Context) ([]model.ProjectRecord, error)

	// Get returns one project. Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (model.ProjectRecord, error)

	// Profile returns the about-section details.
	Profile(ctx context.Context) (model.Profile, error)

	// Count returns the number of projects.
	Count(ctx context.Context) int
}
