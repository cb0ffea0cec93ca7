//go:build !integration

package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"training-registration/internal/config"
	"training-registration/internal/domain"
	"training-registration/internal/domain/model"
)

func TestSessionRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("should round-trip a session with its ttl", func(t *testing.T) {
		// --- Arrange ---
		mem := newMemRedis()
		repo := NewSessionRepo(mem, 30*time.Minute)
		sess := model.NewFormSession("s-1", model.DeviceMobile, time.Now().UTC())
		sess.Draft.FullName = "Aya Koffi"

		// --- Act ---
		if err := repo.Save(ctx, sess); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := repo.Get(ctx, "s-1")

		// --- Assert ---
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Draft.FullName != "Aya Koffi" || got.Device != model.DeviceMobile {
			t.Errorf("unexpected session: %+v", got)
		}
		if mem.ttls[sessionKey("s-1")] != 30*time.Minute {
			t.Errorf("expected ttl 30m, got %v", mem.ttls[sessionKey("s-1")])
		}
	})

	t.Run("should map a missing key to ErrNotFound", func(t *testing.T) {
		repo := NewSessionRepo(newMemRedis(), time.Minute)

		_, err := repo.Get(ctx, "missing")

		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("should delete a session", func(t *testing.T) {
		repo := NewSessionRepo(newMemRedis(), time.Minute)
		_ = repo.Save(ctx, model.NewFormSession("s-2", model.DeviceDesktop, time.Now()))

		if err := repo.Delete(ctx, "s-2"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := repo.Get(ctx, "s-2"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("should allow up to the limit and block afterwards", func(t *testing.T) {
		mem := newMemRedis()
		rl := NewRateLimiter(mem)
		key := ClientRouteKey("10.0.0.1", "submit")

		for i := 0; i < 3; i++ {
			ok, err := rl.Allow(ctx, key, 3, time.Minute)
			if err != nil || !ok {
				t.Fatalf("hit %d: expected allowed, got ok=%v err=%v", i+1, ok, err)
			}
		}
		ok, err := rl.Allow(ctx, key, 3, time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected the 4th hit to be blocked")
		}
		if mem.ttls[key] != time.Minute {
			t.Errorf("expected window to be set on first hit, got %v", mem.ttls[key])
		}
	})

	t.Run("should surface redis errors", func(t *testing.T) {
		mem := newMemRedis()
		mem.IncrErr = errors.New("connection refused")
		rl := NewRateLimiter(mem)

		ok, err := rl.Allow(ctx, "k", 1, time.Second)

		if err == nil || ok {
			t.Fatalf("expected error and not allowed, got ok=%v err=%v", ok, err)
		}
	})
}

func TestClientOptions(t *testing.T) {
	t.Run("should use a plain address as is", func(t *testing.T) {
		opts, err := clientOptions(&config.RedisConfig{URL: "localhost:6379", DB: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.Addr != "localhost:6379" || opts.DB != 2 {
			t.Errorf("unexpected options: addr=%s db=%d", opts.Addr, opts.DB)
		}
		if opts.DialTimeout != dialTimeout {
			t.Errorf("expected dial timeout %s, got %s", dialTimeout, opts.DialTimeout)
		}
	})

	t.Run("should parse a URL and prefer the configured password", func(t *testing.T) {
		opts, err := clientOptions(&config.RedisConfig{URL: "redis://:inurl@cache:6380/1", Password: "override"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.Addr != "cache:6380" || opts.DB != 1 || opts.Password != "override" {
			t.Errorf("unexpected options: addr=%s db=%d password=%s", opts.Addr, opts.DB, opts.Password)
		}
	})

	t.Run("should reject an invalid database number", func(t *testing.T) {
		if _, err := clientOptions(&config.RedisConfig{URL: "redis://cache:6379/abc"}); err == nil {
			t.Fatal("expected an error")
		}
	})
}
