package alumni

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrAlreadyExists is returned when an alumni id is already stored.
	ErrAlreadyExists = errors.New("alumni id already exists")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("alumni record not found")
)

// Store is the persistence contract shared by the Postgres and in-memory backends.
type Store interface {
	Insert(ctx context.Context, a Alumnus) (Alumnus, error)
	List(ctx context.Context, f Filter) ([]Alumnus, error)
	Delete(ctx context.Context, id string) error
	IDs(ctx context.Context) ([]string, error)
}

// Repository persists alumni in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new record. A duplicate alumni id yields ErrAlreadyExists.
func (r *Repository) Insert(ctx context.Context, a Alumnus) (Alumnus, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO alumni (id, alumni_id, name, dob, department, batch, contact, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, a.ID, a.AlumniID, a.Name, a.DOB, a.Department, a.Batch, a.Contact, a.Status)
	if err := row.Scan(&a.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return Alumnus{}, ErrAlreadyExists
		}
		return Alumnus{}, err
	}
	return a, nil
}

// List returns records matching f, newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Alumnus, error) {
	query := `SELECT id, alumni_id, name, dob, department, batch, contact, status, created_at FROM alumni`
	args := []any{}
	clauses := []string{}
	if f.Batch != "" {
		args = append(args, f.Batch)
		clauses = append(clauses, "batch = $"+strconv.Itoa(len(args)))
	}
	if f.Department != "" {
		args = append(args, f.Department)
		clauses = append(clauses, "department = $"+strconv.Itoa(len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := strconv.Itoa(len(args))
		clauses = append(clauses, "(name ILIKE $"+n+" OR alumni_id ILIKE $"+n+")")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Alumnus
	for rows.Next() {
		var a Alumnus
		if err := rows.Scan(&a.ID, &a.AlumniID, &a.Name, &a.DOB, &a.Department, &a.Batch, &a.Contact, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// Delete removes a record by its storage id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM alumni WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IDs returns every stored alumni id.
func (r *Repository) IDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT alumni_id FROM alumni`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// MemoryStore keeps alumni in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Alumnus
	now   func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) Insert(_ context.Context, a Alumnus) (Alumnus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.AlumniID == a.AlumniID {
			return Alumnus{}, ErrAlreadyExists
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = m.now().UTC()
	m.items = append(m.items, a)
	return a, nil
}

func (m *MemoryStore) List(_ context.Context, f Filter) ([]Alumnus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []Alumnus
	for i := len(m.items) - 1; i >= 0; i-- {
		if f.Match(m.items[i]) {
			res = append(res, m.items[i])
		}
	}
	return res, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.items {
		if a.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) IDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.items))
	for _, a := range m.items {
		ids = append(ids, a.AlumniID)
	}
	return ids, nil
}
