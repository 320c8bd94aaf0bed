package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = time.Hour

// Lock guards a task so only one worker instance executes it at a time.
type Lock interface {
	Acquire(ctx context.Context, task string) (bool, error)
	Release(ctx context.Context, task string) error
}

// redisStore defines the operations used by RedisLock.
type redisStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(scope string) string
}

// RedisLock implements Lock with per-task SETNX keys. The TTL bounds how long
// a crashed worker can hold a task hostage.
type RedisLock struct {
	client redisStore
	ttl    time.Duration
	owners map[string]string
}

// NewRedisLock constructs a Redis-backed task lock.
func NewRedisLock(client redisStore, ttl time.Duration) (*RedisLock, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{client: client, ttl: ttl, owners: make(map[string]string)}, nil
}

// Acquire tries to own the task's lock for the configured TTL.
func (l *RedisLock) Acquire(ctx context.Context, task string) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.client.LockKey("task:"+task), owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	if ok {
		l.owners[task] = owner
	}
	return ok, nil
}

// Release frees the task's lock only if the owner value still matches.
func (l *RedisLock) Release(ctx context.Context, task string) error {
	owner, held := l.owners[task]
	if !held {
		return nil
	}
	key := l.client.LockKey("task:" + task)
	value, err := l.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			delete(l.owners, task)
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != owner {
		delete(l.owners, task)
		return nil
	}
	if err := l.client.Del(ctx, key); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	delete(l.owners, task)
	return nil
}
