package jobboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a posting does not exist.
var ErrNotFound = errors.New("posting not found")

// Store persists postings.
type Store interface {
	Insert(ctx context.Context, p Posting) (Posting, error)
	List(ctx context.Context, kind Kind) ([]Posting, error)
	Get(ctx context.Context, id string) (Posting, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes postings whose deadline is before day (YYYY-MM-DD).
	DeleteExpired(ctx context.Context, day string) (int, error)
}

const postingColumns = `id, kind, title, company, company_website, experience_from, experience_to, duration,
	locations, contact_email, job_area, skills, pay, application_deadline, description, posted_by, posted_at`

// Repository persists postings in Postgres. Locations and skills are JSONB arrays.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, p Posting) (Posting, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	locations, err := json.Marshal(nonNil(p.Locations))
	if err != nil {
		return Posting{}, err
	}
	skills, err := json.Marshal(nonNil(p.Skills))
	if err != nil {
		return Posting{}, err
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO postings (id, kind, title, company, company_website, experience_from, experience_to, duration,
			locations, contact_email, job_area, skills, pay, application_deadline, description, posted_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING posted_at
	`, p.ID, p.Kind, p.Title, p.Company, p.CompanyWebsite, p.ExperienceFrom, p.ExperienceTo, p.Duration,
		string(locations), p.ContactEmail, p.JobArea, string(skills), p.Pay, p.ApplicationDeadline, p.Description, p.PostedBy)
	if err := row.Scan(&p.PostedAt); err != nil {
		return Posting{}, err
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context, kind Kind) ([]Posting, error) {
	query := `SELECT ` + postingColumns + ` FROM postings`
	var args []any
	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, kind)
	}
	query += ` ORDER BY posted_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Posting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id string) (Posting, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postingColumns+` FROM postings WHERE id = $1`, id)
	p, err := scanPosting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Posting{}, ErrNotFound
		}
		return Posting{}, err
	}
	return p, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM postings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteExpired(ctx context.Context, day string) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM postings
		WHERE application_deadline ~ '^\d{4}-\d{2}-\d{2}$' AND application_deadline < $1
	`, day)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPosting(s scanner) (Posting, error) {
	var (
		p                 Posting
		locations, skills []byte
	)
	if err := s.Scan(&p.ID, &p.Kind, &p.Title, &p.Company, &p.CompanyWebsite, &p.ExperienceFrom, &p.ExperienceTo, &p.Duration,
		&locations, &p.ContactEmail, &p.JobArea, &skills, &p.Pay, &p.ApplicationDeadline, &p.Description, &p.PostedBy, &p.PostedAt); err != nil {
		return Posting{}, err
	}
	if err := json.Unmarshal(locations, &p.Locations); err != nil {
		return Posting{}, err
	}
	if err := json.Unmarshal(skills, &p.Skills); err != nil {
		return Posting{}, err
	}
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// MemoryStore keeps postings in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Posting
	now   func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Posting), now: time.Now}
}

func (m *MemoryStore) Insert(_ context.Context, p Posting) (Posting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PostedAt.IsZero() {
		p.PostedAt = m.now().UTC()
	}
	m.items[p.ID] = p
	return p, nil
}

func (m *MemoryStore) List(_ context.Context, kind Kind) ([]Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []Posting
	for _, p := range m.items {
		if kind == "" || p.Kind == kind {
			res = append(res, p)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].PostedAt.Equal(res[j].PostedAt) {
			return res[i].PostedAt.After(res[j].PostedAt)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.items[id]
	if !ok {
		return Posting{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, day string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, p := range m.items {
		if p.ExpiredOn(day) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}
