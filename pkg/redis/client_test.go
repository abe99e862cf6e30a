package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/soilminds/soilminds-backend/pkg/config"
)

func TestOptionsFromConfigURL(t *testing.T) {
	cfg := config.RedisConfig{
		URL:      "redis://:secret@cache.internal:6380/2",
		PoolSize: 15,
	}

	opts, err := optionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Addr != "cache.internal:6380" {
		t.Fatalf("unexpected addr: %q", opts.Addr)
	}
	if opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("url credentials not applied: %+v", opts)
	}
	if opts.PoolSize != 15 {
		t.Fatalf("pool size not applied: %d", opts.PoolSize)
	}
}

func TestOptionsFromConfigAddressFallback(t *testing.T) {
	cfg := config.RedisConfig{
		Address:     "localhost:6379",
		Password:    "secret",
		DB:          1,
		DialTimeout: 3 * time.Second,
	}

	opts, err := optionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.Password != "secret" || opts.DB != 1 {
		t.Fatalf("address config not applied: %+v", opts)
	}
	if opts.DialTimeout != 3*time.Second {
		t.Fatalf("dial timeout not applied: %v", opts.DialTimeout)
	}
}

func TestOptionsFromConfigRequiresURLOrAddress(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error with neither url nor address")
	}
}

func TestOptionsFromConfigRejectsBadURL(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{URL: "://nope"}); err == nil {
		t.Fatal("expected error for malformed url")
	}
}

type fakeCmdable struct {
	pinged  bool
	setNX   map[string]string
	deleted []string
}

func (f *fakeCmdable) Ping(ctx context.Context) *goredis.StatusCmd {
	f.pinged = true
	return goredis.NewStatusResult("PONG", nil)
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *goredis.StringCmd {
	if val, ok := f.setNX[key]; ok {
		return goredis.NewStringResult(val, nil)
	}
	return goredis.NewStringResult("", goredis.Nil)
}

func (f *fakeCmdable) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *goredis.BoolCmd {
	if f.setNX == nil {
		f.setNX = map[string]string{}
	}
	if _, held := f.setNX[key]; held {
		return goredis.NewBoolResult(false, nil)
	}
	f.setNX[key] = value.(string)
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeCmdable) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	f.deleted = append(f.deleted, keys...)
	return goredis.NewIntResult(int64(len(keys)), nil)
}

func TestClientDelegatesToStore(t *testing.T) {
	fake := &fakeCmdable{}
	client := NewFromStore(fake)
	ctx := context.Background()

	if err := client.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if !fake.pinged {
		t.Fatal("ping did not reach the store")
	}

	ok, err := client.SetNX(ctx, "k", "owner", time.Second)
	if err != nil || !ok {
		t.Fatalf("setnx: ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, "k", "other", time.Second)
	if err != nil || ok {
		t.Fatalf("second setnx should not win: ok=%v err=%v", ok, err)
	}

	val, err := client.Get(ctx, "k")
	if err != nil || val != "owner" {
		t.Fatalf("get: val=%q err=%v", val, err)
	}

	if _, err := client.Get(ctx, "missing"); err != Nil {
		t.Fatalf("expected Nil for missing key, got %v", err)
	}

	if err := client.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "k" {
		t.Fatalf("unexpected deletes: %v", fake.deleted)
	}
}

func TestLockKeyNamespacing(t *testing.T) {
	client := NewFromStore(&fakeCmdable{})
	if got := client.LockKey("generate:farm", "7"); got != "sm:lock:generate:farm:7" {
		t.Fatalf("unexpected lock key: %q", got)
	}
}
