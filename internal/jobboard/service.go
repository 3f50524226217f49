package jobboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrUserRequired   = errors.New("user id is required")
	ErrForbidden      = errors.New("you can only delete postings you created")
	ErrDeadlinePassed = errors.New("application deadline cannot be in the past")
	ErrInvalidKind    = errors.New("kind must be job or internship")
	ErrInvalidDate    = errors.New("application deadline must be a date (YYYY-MM-DD)")
	ErrUnknownFacet   = errors.New("unknown facet")
)

// ValidationError lists required fields that were left empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Scored is a posting with its preference score.
type Scored struct {
	Posting
	Score int `json:"score"`
}

// Service implements the job board rules on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) today() string {
	return s.now().Format(time.DateOnly)
}

// Post validates and stores a new posting.
func (s *Service) Post(ctx context.Context, p Posting) (Posting, error) {
	kind, ok := ParseKind(string(p.Kind))
	if !ok {
		return Posting{}, ErrInvalidKind
	}
	p.Kind = kind
	p.Title = strings.TrimSpace(p.Title)
	p.Company = strings.TrimSpace(p.Company)
	p.ContactEmail = strings.TrimSpace(p.ContactEmail)
	p.Description = strings.TrimSpace(p.Description)
	p.PostedBy = strings.TrimSpace(p.PostedBy)
	p.JobArea = strings.TrimSpace(p.JobArea)
	p.ApplicationDeadline = strings.TrimSpace(p.ApplicationDeadline)
	p.Skills = cleanList(p.Skills)
	p.Locations = cleanList(p.Locations)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"title", p.Title},
		{"company", p.Company},
		{"contact_email", p.ContactEmail},
		{"description", p.Description},
		{"posted_by", p.PostedBy},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Posting{}, &ValidationError{Missing: missing}
	}
	if p.ApplicationDeadline != "" {
		if !validDate(p.ApplicationDeadline) {
			return Posting{}, ErrInvalidDate
		}
		if p.ApplicationDeadline < s.today() {
			return Posting{}, ErrDeadlinePassed
		}
	}
	p.ID = ""
	p.PostedAt = time.Time{}
	return s.store.Insert(ctx, p)
}

// List returns postings matching f, newest first. Expired postings are left
// out unless f.IncludeExpired is set.
func (s *Service) List(ctx context.Context, f Filter) ([]Posting, error) {
	all, err := s.store.List(ctx, f.Kind)
	if err != nil {
		return nil, err
	}
	today := s.today()
	res := []Posting{}
	for _, p := range all {
		if !f.IncludeExpired && p.ExpiredOn(today) {
			continue
		}
		if f.Match(p) {
			res = append(res, p)
		}
	}
	return res, nil
}

// Facets returns the distinct values of field across live postings of kind.
func (s *Service) Facets(ctx context.Context, kind Kind, field string) ([]string, error) {
	live, err := s.List(ctx, Filter{Kind: kind})
	if err != nil {
		return nil, err
	}
	values, ok := Facets(live, field)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFacet, field)
	}
	return values, nil
}

// Delete removes a posting on behalf of userID, who must have created it.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrUserRequired
	}
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.PostedBy != userID {
		return ErrForbidden
	}
	return s.store.Delete(ctx, id)
}

// ForYou ranks live postings of kind against pref, best first. Postings that
// match nothing are dropped.
func (s *Service) ForYou(ctx context.Context, kind Kind, pref Preferences) ([]Scored, error) {
	res := []Scored{}
	if pref.Empty() {
		return res, nil
	}
	live, err := s.List(ctx, Filter{Kind: kind})
	if err != nil {
		return nil, err
	}
	for _, p := range live {
		if score := Score(p, pref); score > 0 {
			res = append(res, Scored{Posting: p, Score: score})
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		return res[i].PostedAt.After(res[j].PostedAt)
	})
	return res, nil
}

// CleanupExpired deletes every posting whose deadline has passed.
func (s *Service) CleanupExpired(ctx context.Context) (int, error) {
	return s.store.DeleteExpired(ctx, s.today())
}
