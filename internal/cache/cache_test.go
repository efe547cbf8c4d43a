package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestKey(t *testing.T) {
	type req struct {
		Price float64 `json:"price"`
	}

	a, err := Key("max", req{Price: 1})
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	b, err := Key("max", req{Price: 1})
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	c, err := Key("max", req{Price: 2})
	if err != nil {
		t.Fatalf("key: %v", err)
	}

	if a != b {
		t.Errorf("same request gave %q and %q", a, b)
	}
	if a == c {
		t.Errorf("different requests share key %q", a)
	}
	if !strings.HasPrefix(a, "max:") {
		t.Errorf("key %q missing namespace", a)
	}
}

func TestKeyUnencodable(t *testing.T) {
	if _, err := Key("x", make(chan int)); err == nil {
		t.Fatal("expected error for unencodable request")
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	if _, ok, err := m.Get(ctx, "a"); ok || err != nil {
		t.Fatalf("get on empty cache: ok=%v err=%v", ok, err)
	}

	if err := m.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := m.Get(ctx, "a")
	if err != nil || !ok || v != "1" {
		t.Fatalf("get a = %q, %v, %v", v, ok, err)
	}

	if err := m.Set(ctx, "b", "2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Overwriting an existing key does not trigger a reset.
	if err := m.Set(ctx, "a", "3"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("len = %d, want 2", m.Len())
	}

	// A third key resets the full cache.
	if err := m.Set(ctx, "c", "4"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("len = %d, want 1 after reset", m.Len())
	}
	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Error("expected a to be dropped")
	}
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	r, err := NewRedis(ctx, RedisConfig{Addr: mr.Addr(), TTL: time.Minute})
	if err != nil {
		t.Fatalf("new redis: %v", err)
	}
	t.Cleanup(func() {
		if err := r.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})

	if _, ok, err := r.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}

	if err := r.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := r.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("get = %q, %v, %v", v, ok, err)
	}

	if !mr.Exists("da:k") {
		t.Error("expected key stored under the da: prefix")
	}
	if ttl := mr.TTL("da:k"); ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := r.Get(ctx, "k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := NewRedis(ctx, RedisConfig{Addr: addr}); err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}
