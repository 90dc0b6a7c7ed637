package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

type sample struct {
	Email string `json:"email"`
	Table string `json:"table"`
}

func exerciseCache(t *testing.T, c Cache, prefix string) {
	t.Helper()
	ctx := context.Background()

	var got sample
	ok, err := c.Get(ctx, prefix+"missing", &got)
	if err != nil || ok {
		t.Fatalf("Get missing = %v, %v", ok, err)
	}

	want := sample{Email: "a@x.com", Table: "VIP1"}
	if err := c.Set(ctx, prefix+"guest", want, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ok, err = c.Get(ctx, prefix+"guest", &got)
	if err != nil || !ok || got != want {
		t.Fatalf("Get = %+v, %v, %v", got, ok, err)
	}

	if err := c.Del(ctx, prefix+"guest"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if ok, _ := c.Get(ctx, prefix+"guest", &got); ok {
		t.Fatal("deleted key still present")
	}

	if n, err := c.GetInt(ctx, prefix+"counter"); err != nil || n != 0 {
		t.Fatalf("GetInt missing = %d, %v", n, err)
	}
	for i := int64(1); i <= 3; i++ {
		n, err := c.Incr(ctx, prefix+"counter")
		if err != nil || n != i {
			t.Fatalf("Incr #%d = %d, %v", i, n, err)
		}
	}
	if n, _ := c.GetInt(ctx, prefix+"counter"); n != 3 {
		t.Fatalf("GetInt = %d, want 3", n)
	}
	_ = c.Del(ctx, prefix+"counter")
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache(), "")
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	if err := c.Set(ctx, "k", 1, time.Second); err != nil {
		t.Fatal(err)
	}
	var v int
	if ok, _ := c.Get(ctx, "k", &v); !ok {
		t.Fatal("entry should be live")
	}
	now = now.Add(2 * time.Second)
	if ok, _ := c.Get(ctx, "k", &v); ok {
		t.Fatal("entry should have expired")
	}

	if _, err := c.Incr(ctx, "attempts"); err != nil {
		t.Fatal(err)
	}
	if err := c.Expire(ctx, "attempts", time.Minute); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	if n, _ := c.GetInt(ctx, "attempts"); n != 0 {
		t.Fatalf("expired counter = %d", n)
	}
}

func TestMemoryCacheSweepsUnreadEntries(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := c.Set(ctx, fmt.Sprintf("checkin:guest:v1:g%d@x.com", i), i, time.Second); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.Incr(ctx, "checkin:admin:login:10.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if err := c.Expire(ctx, "checkin:admin:login:10.0.0.1", time.Second); err != nil {
		t.Fatal(err)
	}

	now = now.Add(2 * time.Minute)
	if err := c.Set(ctx, "checkin:guest:v2:a@x.com", 1, time.Minute); err != nil {
		t.Fatal(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) != 1 {
		t.Fatalf("entries after sweep = %d, want 1", len(c.entries))
	}
	if _, ok := c.entries["checkin:guest:v2:a@x.com"]; !ok {
		t.Fatal("live entry was swept")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(context.Background(), Config{Enabled: true, Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c, "checkin:test:")
}
