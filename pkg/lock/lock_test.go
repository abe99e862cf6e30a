package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/soilminds/soilminds-backend/pkg/redis"
)

type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, held := f.data[key]; held {
		return false, nil
	}
	f.data[key] = value.(string)
	return true, nil
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeStore) LockKey(scope, id string) string {
	return "sm:lock:" + scope + ":" + id
}

func TestAcquireAndRelease(t *testing.T) {
	store := newFakeStore()
	keyed, err := NewKeyed(store)
	if err != nil {
		t.Fatalf("new keyed: %v", err)
	}

	release, err := keyed.Acquire(context.Background(), "generate:farm", "1")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, held := store.data["sm:lock:generate:farm:1"]; !held {
		t.Fatal("lock key not set")
	}

	if err := release(context.Background()); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, held := store.data["sm:lock:generate:farm:1"]; held {
		t.Fatal("lock key not cleared")
	}
}

func TestAcquireContendedTimesOut(t *testing.T) {
	store := newFakeStore()
	keyed, err := NewKeyed(store)
	if err != nil {
		t.Fatalf("new keyed: %v", err)
	}
	keyed.retryInterval = time.Millisecond
	keyed.maxWait = 10 * time.Millisecond

	first, err := keyed.Acquire(context.Background(), "generate:farm", "1")
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer first(context.Background())

	if _, err := keyed.Acquire(context.Background(), "generate:farm", "1"); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected ErrNotAcquired, got %v", err)
	}

	// Different keys do not contend.
	other, err := keyed.Acquire(context.Background(), "generate:farm", "2")
	if err != nil {
		t.Fatalf("different key acquire: %v", err)
	}
	_ = other(context.Background())
}

func TestReleaseSkipsStolenLock(t *testing.T) {
	store := newFakeStore()
	keyed, err := NewKeyed(store)
	if err != nil {
		t.Fatalf("new keyed: %v", err)
	}

	release, err := keyed.Acquire(context.Background(), "generate:user", "1")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	// Simulate TTL expiry plus takeover by another owner.
	key := store.LockKey("generate:user", "1")
	store.mu.Lock()
	store.data[key] = "someone-else"
	store.mu.Unlock()

	if err := release(context.Background()); err != nil {
		t.Fatalf("release of stolen lock must be a no-op: %v", err)
	}
	if store.data[key] != "someone-else" {
		t.Fatal("release removed a lock it no longer owned")
	}
}

func TestAcquireRespectsContextCancel(t *testing.T) {
	store := newFakeStore()
	keyed, err := NewKeyed(store)
	if err != nil {
		t.Fatalf("new keyed: %v", err)
	}
	keyed.retryInterval = time.Millisecond
	keyed.maxWait = time.Second

	first, err := keyed.Acquire(context.Background(), "generate:user", "1")
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer first(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	if _, err := keyed.Acquire(ctx, "generate:user", "1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline, got %v", err)
	}
}
