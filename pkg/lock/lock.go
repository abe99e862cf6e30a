package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soilminds/soilminds-backend/pkg/redis"
)

const (
	defaultTTL           = 15 * time.Second
	defaultRetryInterval = 50 * time.Millisecond
	defaultMaxWait       = 2 * time.Second
)

// ErrNotAcquired is returned when the lock stayed held for the whole wait window.
var ErrNotAcquired = errors.New("lock not acquired")

// Store is the minimal redis surface the keyed lock needs.
type Store interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(scope, id string) string
}

// Keyed serializes short critical sections per key via Redis SETNX + TTL.
// Reading generation uses it to keep concurrent generate calls from both
// reading the same "last reading" and assigning the same field twice.
type Keyed struct {
	store         Store
	ttl           time.Duration
	retryInterval time.Duration
	maxWait       time.Duration
}

// NewKeyed constructs a keyed lock with the default TTL and wait window.
func NewKeyed(store Store) (*Keyed, error) {
	if store == nil {
		return nil, errors.New("lock store is required")
	}
	return &Keyed{
		store:         store,
		ttl:           defaultTTL,
		retryInterval: defaultRetryInterval,
		maxWait:       defaultMaxWait,
	}, nil
}

// Acquire blocks until the key lock is owned or the wait window elapses.
// The returned release function frees the lock only while still owned.
func (k *Keyed) Acquire(ctx context.Context, scope, id string) (func(context.Context) error, error) {
	key := k.store.LockKey(scope, id)
	owner := uuid.NewString()
	deadline := time.Now().Add(k.maxWait)

	for {
		ok, err := k.store.SetNX(ctx, key, owner, k.ttl)
		if err != nil {
			return nil, fmt.Errorf("setnx: %w", err)
		}
		if ok {
			return k.releaseFunc(key, owner), nil
		}
		if time.Now().After(deadline) {
			return nil, ErrNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(k.retryInterval):
		}
	}
}

// The GET and DEL are separate commands: a lock that expires between them can
// delete a successor's hold. Critical sections must stay far below the TTL.
func (k *Keyed) releaseFunc(key, owner string) func(context.Context) error {
	return func(ctx context.Context) error {
		value, err := k.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return fmt.Errorf("read lock owner: %w", err)
		}
		if value != owner {
			return nil
		}
		if err := k.store.Del(ctx, key); err != nil {
			return fmt.Errorf("delete lock: %w", err)
		}
		return nil
	}
}
