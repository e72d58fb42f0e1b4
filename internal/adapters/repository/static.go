package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/nestudio/internal/domain/model"
)

// StaticStore is an in-memory, read-only Store.
type StaticStore struct {
	records []model.ProjectRecord
	byID    map[string]int
	profile model.Profile
}

var _ Store = (*StaticStore)(nil)

// NewStaticStore builds a store over the demo dataset unless WithRecords
// says otherwise. Ids must be unique and id, title and link non-empty.
func NewStaticStore(opts ...Option) (*StaticStore, error) {
	s := &StaticStore{
		records: DemoProjects(),
		profile: DemoProfile(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.records = cloneRecords(s.records)
	s.byID = make(map[string]int, len(s.records))
	for i := range s.records {
		r := &s.records[i]
		if strings.TrimSpace(r.ID) == "" || strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Link) == "" {
			return nil, fmt.Errorf("%w: record %d needs id, title and link", ErrInvalid, i)
		}
		if _, dup := s.byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		s.byID[r.ID] = i
	}
	return s, nil
}

// List returns a copy of every record.
func (s *StaticStore) List(_ context.Context) ([]model.ProjectRecord, error) {
	return cloneRecords(s.records), nil
}

// Get returns a copy of the record with id.
func (s *StaticStore) Get(_ context.Context, id string) (model.ProjectRecord, error) {
	i, ok := s.byID[id]
	if !ok {
		return model.ProjectRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cloneRecord(s.records[i]), nil
}

// Profile returns the site profile.
func (s *StaticStore) Profile(_ context.Context) (model.Profile, error) {
	return s.profile, nil
}

// Count returns the number of records.
func (s *StaticStore) Count(_ context.Context) int {
	return len(s.records)
}

func cloneRecords(in []model.ProjectRecord) []model.ProjectRecord {
	out := make([]model.ProjectRecord, len(in))
	for i := range in {
		out[i] = cloneRecord(in[i])
	}
	return out
}

// cloneRecord deep-copies slices and pointer fields.
func cloneRecord(r model.ProjectRecord) model.ProjectRecord { //nolint:gocritic // value copy is the point
	r.Tags = slices.Clone(r.Tags)
	r.Services = slices.Clone(r.Services)
	r.Client = clonePtr(r.Client)
	r.Year = clonePtr(r.Year)
	r.Lot = clonePtr(r.Lot)
	r.Hours = clonePtr(r.Hours)
	r.ReadMinutes = clonePtr(r.ReadMinutes)
	r.Image = clonePtr(r.Image)
	return r
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
