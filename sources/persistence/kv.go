package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyValue is the ephemeral store behind chat state and claims. Redis backs
// it in production; a process-local map is used when redis is disabled.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
}

func NewKeyValue(client *redis.Client) KeyValue {
	if client == nil {
		return NewMemoryKeyValue()
	}
	return &redisKeyValue{client: client}
}

type redisKeyValue struct {
	client *redis.Client
}

func (x *redisKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := x.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (x *redisKeyValue) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return x.client.Set(ctx, key, value, ttl).Err()
}

func (x *redisKeyValue) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return x.client.SetNX(ctx, key, value, ttl).Result()
}

func (x *redisKeyValue) Del(ctx context.Context, key string) error {
	return x.client.Del(ctx, key).Err()
}

type memoryEntry struct {
	value   string
	expires time.Time
}

type MemoryKeyValue struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryKeyValue() *MemoryKeyValue {
	return &MemoryKeyValue{entries: make(map[string]memoryEntry), now: time.Now}
}

func (x *MemoryKeyValue) Get(_ context.Context, key string) (string, bool, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	entry, ok := x.lookup(key)
	return entry.value, ok, nil
}

func (x *MemoryKeyValue) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.store(key, value, ttl)
	return nil
}

func (x *MemoryKeyValue) SetNX(_ context.Context, key string, value string, ttl time.Duration) (bool, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.lookup(key); ok {
		return false, nil
	}
	x.store(key, value, ttl)
	return true, nil
}

func (x *MemoryKeyValue) Del(_ context.Context, key string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	delete(x.entries, key)
	return nil
}

func (x *MemoryKeyValue) lookup(key string) (memoryEntry, bool) {
	entry, ok := x.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expires.IsZero() && !x.now().Before(entry.expires) {
		delete(x.entries, key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (x *MemoryKeyValue) store(key, value string, ttl time.Duration) {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expires = x.now().Add(ttl)
	}
	x.entries[key] = entry
}
