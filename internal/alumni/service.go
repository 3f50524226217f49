package alumni

import (
	"context"
	"errors"
)

// ErrMissingID is returned when a record has no alumni id.
var ErrMissingID = errors.New("alumni id required")

// Service coordinates alumni storage and reporting.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create stores a trimmed copy of rec.
func (s *Service) Create(ctx context.Context, rec Record) (Alumnus, error) {
	rec = rec.Trimmed()
	if rec.AlumniID == "" {
		return Alumnus{}, ErrMissingID
	}
	return s.store.Insert(ctx, Alumnus{Record: rec})
}

// List returns alumni matching f, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]Alumnus, error) {
	return s.store.List(ctx, f)
}

// Delete removes an alumnus by storage id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrNotFound
	}
	return s.store.Delete(ctx, id)
}

// ExistingIDs returns every alumni id currently stored.
func (s *Service) ExistingIDs(ctx context.Context) ([]string, error) {
	return s.store.IDs(ctx)
}

// Statistics computes directory totals.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	all, err := s.store.List(ctx, Filter{})
	if err != nil {
		return Statistics{}, err
	}
	return Summarize(all), nil
}

// Summarize computes statistics over a set of alumni.
func Summarize(all []Alumnus) Statistics {
	st := Statistics{TotalAlumni: len(all)}
	departments := map[string]struct{}{}
	for _, a := range all {
		if a.Department != "" {
			departments[a.Department] = struct{}{}
		}
		switch NormalizeStatus(a.Status) {
		case StatusEmployed:
			st.Employed++
		case StatusEntrepreneur:
			st.Entrepreneur++
		case StatusHigherStudies:
			st.HigherStudies++
		case StatusSeekingJob:
			st.SeekingJob++
		}
	}
	st.Departments = len(departments)
	return st
}
