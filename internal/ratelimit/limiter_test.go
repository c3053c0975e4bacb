package ratelimit

import (
	"testing"
	"time"
)

func TestNewLimiterDefaultConfig(t *testing.T) {
	limiter := NewLimiter(Config{})
	defer limiter.Stop()

	if limiter.config.RequestsPerSecond != 5 {
		t.Errorf("expected RequestsPerSecond=5, got %v", limiter.config.RequestsPerSecond)
	}
	if limiter.config.Burst != 1 {
		t.Errorf("expected Burst=1, got %d", limiter.config.Burst)
	}
	if limiter.config.IdleTTL != 10*time.Minute {
		t.Errorf("expected IdleTTL=10m, got %v", limiter.config.IdleTTL)
	}
}

func TestAllowBurst(t *testing.T) {
	limiter := NewLimiter(Config{RequestsPerSecond: 5, Burst: 3})
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if res := limiter.allowAt("token", now); !res.Allowed {
			t.Fatalf("request %d denied within burst", i+1)
		}
	}

	res := limiter.allowAt("token", now)
	if res.Allowed {
		t.Fatal("expected request beyond burst to be denied")
	}
	if res.RetryAfter <= 0 || res.RetryAfter > 200*time.Millisecond {
		t.Errorf("RetryAfter = %v, want (0, 200ms]", res.RetryAfter)
	}

	// One token refills after 1/5 s
	if res := limiter.allowAt("token", now.Add(200*time.Millisecond)); !res.Allowed {
		t.Error("expected request after refill to be allowed")
	}
}

func TestAllowDeniedDoesNotConsume(t *testing.T) {
	limiter := NewLimiter(Config{RequestsPerSecond: 1, Burst: 1})
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	limiter.allowAt("token", now)
	for i := 0; i < 5; i++ {
		if res := limiter.allowAt("token", now); res.Allowed {
			t.Fatal("expected denial with empty bucket")
		}
	}

	if res := limiter.allowAt("token", now.Add(time.Second)); !res.Allowed {
		t.Error("denied requests should not delay refill")
	}
}

func TestAllowKeysIndependent(t *testing.T) {
	limiter := NewLimiter(Config{RequestsPerSecond: 1, Burst: 1})
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	if !limiter.allowAt("a", now).Allowed {
		t.Fatal("first request for a denied")
	}
	if !limiter.allowAt("b", now).Allowed {
		t.Error("key b should have its own bucket")
	}
	if limiter.allowAt("a", now).Allowed {
		t.Error("second request for a should be denied")
	}
	if limiter.Len() != 2 {
		t.Errorf("Len() = %d, want 2", limiter.Len())
	}
}

func TestEvictIdle(t *testing.T) {
	limiter := NewLimiter(Config{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute})
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	limiter.allowAt("old", now)
	limiter.allowAt("fresh", now.Add(50*time.Second))

	limiter.evictIdle(now.Add(70 * time.Second))

	if limiter.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", limiter.Len())
	}
	if _, ok := limiter.buckets["fresh"]; !ok {
		t.Error("fresh bucket was evicted")
	}
}

func TestStartStop(t *testing.T) {
	limiter := NewLimiter(Config{IdleTTL: time.Millisecond})
	limiter.Start()
	limiter.Allow("token")
	limiter.Stop()
	limiter.Stop()
}
