package jobboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// PreferenceStore keeps per-user preferences. Get returns empty preferences
// for users who never saved any.
type PreferenceStore interface {
	Get(ctx context.Context, userID string) (Preferences, error)
	Put(ctx context.Context, userID string, p Preferences) error
	Delete(ctx context.Context, userID string) error
}

// MemoryPreferences is a process-local PreferenceStore.
type MemoryPreferences struct {
	mu   sync.RWMutex
	data map[string]Preferences
}

// NewMemoryPreferences creates an empty store.
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{data: make(map[string]Preferences)}
}

func (m *MemoryPreferences) Get(_ context.Context, userID string) (Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[userID], nil
}

func (m *MemoryPreferences) Put(_ context.Context, userID string, p Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID] = p.Clean()
	return nil
}

func (m *MemoryPreferences) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
	return nil
}

// RedisPreferences stores preferences as JSON under alumni:prefs:<user>.
type RedisPreferences struct {
	client *redis.Client
}

// NewRedisPreferences creates a Redis-backed store.
func NewRedisPreferences(client *redis.Client) *RedisPreferences {
	return &RedisPreferences{client: client}
}

func prefsKey(userID string) string { return "alumni:prefs:" + userID }

func (r *RedisPreferences) Get(ctx context.Context, userID string) (Preferences, error) {
	b, err := r.client.Get(ctx, prefsKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Preferences{}, nil
		}
		return Preferences{}, err
	}
	var p Preferences
	if err := json.Unmarshal(b, &p); err != nil {
		return Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}
	return p, nil
}

func (r *RedisPreferences) Put(ctx context.Context, userID string, p Preferences) error {
	b, err := json.Marshal(p.Clean())
	if err != nil {
		return err
	}
	return r.client.Set(ctx, prefsKey(userID), b, 0).Err()
}

func (r *RedisPreferences) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, prefsKey(userID)).Err()
}
