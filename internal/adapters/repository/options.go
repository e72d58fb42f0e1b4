package repository

import "github.com/okian/nestudio/internal/domain/model"

// Option configures a StaticStore.
type Option func(*StaticStore)

// WithRecords replaces the demo dataset.
func WithRecords(records []model.ProjectRecord) Option {
	return func(s *StaticStore) {
		s.records = records
	}
}

// WithProfile replaces the demo profile.
func WithProfile(p model.Profile) Option {
	return func(s *StaticStore) {
		s.profile = p
	}
}
