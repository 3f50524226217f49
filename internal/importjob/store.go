package importjob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"alumni/internal/bulkimport"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("import session not found")

// DefaultTTL is how long sessions are kept when no ttl is configured.
const DefaultTTL = 24 * time.Hour

// Store keeps import sessions between upload, confirmation and completion.
// Implementations store copies: mutating a session after Save does not
// change the stored value.
type Store interface {
	Save(ctx context.Context, s *bulkimport.Session) error
	Get(ctx context.Context, id string) (*bulkimport.Session, error)
}

// MemoryStore is a process-local Store. Sessions expire after ttl like they
// do in Redis; expired entries are dropped on the next Save.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

type memoryEntry struct {
	body    []byte
	expires time.Time
}

// NewMemoryStore creates an empty store. A non-positive ttl selects DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{data: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, s *bulkimport.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, e := range m.data {
		if !now.Before(e.expires) {
			delete(m.data, id)
		}
	}
	m.data[s.ID] = memoryEntry{body: b, expires: now.Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*bulkimport.Session, error) {
	m.mu.RLock()
	e, ok := m.data[id]
	now := m.now()
	m.mu.RUnlock()
	if !ok || !now.Before(e.expires) {
		return nil, ErrNotFound
	}
	return decodeSession(e.body)
}

// size counts held sessions, expired ones included until the next Save.
func (m *MemoryStore) size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// RedisStore keeps sessions as JSON values that expire after ttl.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, prefix: "alumni:import:", ttl: ttl}
}

func (r *RedisStore) Save(ctx context.Context, s *bulkimport.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.client.Set(ctx, r.prefix+s.ID, b, r.ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, id string) (*bulkimport.Session, error) {
	b, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeSession(b)
}

func decodeSession(b []byte) (*bulkimport.Session, error) {
	var s bulkimport.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}
