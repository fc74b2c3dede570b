package ratelimit

import (
	"testing"
	"time"

	"github.com/porchest/portal-api/internal/platform/config"
)

func TestAllow_WithinLimit(t *testing.T) {
	t.Parallel()

	l := New(config.RateLimitProfile{Limit: 5, Window: time.Minute})

	for i := range 5 {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d rejected, want full burst allowed", i+1)
		}
	}
}

func TestAllow_RejectsBeyondLimit(t *testing.T) {
	t.Parallel()

	l := New(config.RateLimitProfile{Limit: 3, Window: time.Hour})

	for range 3 {
		l.Allow("1.2.3.4")
	}
	if l.Allow("1.2.3.4") {
		t.Error("request beyond limit allowed, want rejected")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	l := New(config.RateLimitProfile{Limit: 1, Window: time.Hour})

	if !l.Allow("1.1.1.1") {
		t.Fatal("first key's first request rejected")
	}
	if l.Allow("1.1.1.1") {
		t.Error("first key's second request allowed, want rejected")
	}
	if !l.Allow("2.2.2.2") {
		t.Error("second key's first request rejected, want allowed")
	}
}

func TestAllow_RefillsOverTime(t *testing.T) {
	t.Parallel()

	l := New(config.RateLimitProfile{Limit: 2, Window: 2 * time.Second})

	now := time.Now()
	l.now = func() time.Time { return now }

	l.Allow("k")
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("request beyond burst allowed")
	}

	// One token refills per second (limit 2 / window 2s).
	now = now.Add(1100 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("request after refill interval rejected, want allowed")
	}
}

func TestSweep_EvictsIdleKeys(t *testing.T) {
	t.Parallel()

	l := New(config.RateLimitProfile{Limit: 10, Window: time.Minute})

	now := time.Now()
	l.now = func() time.Time { return now }
	l.lastSweep = now

	l.Allow("idle")
	l.Allow("active")

	// Move past the window and keep one key active.
	now = now.Add(2 * time.Minute)
	l.Allow("active")

	if l.Len() != 1 {
		t.Errorf("Len() = %d after sweep, want 1 (idle key evicted)", l.Len())
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		window time.Duration
		want   int
	}{
		{time.Minute, 60},
		{time.Hour, 3600},
		{500 * time.Millisecond, 1},
	}

	for _, tt := range tests {
		l := New(config.RateLimitProfile{Limit: 1, Window: tt.window})
		if got := l.RetryAfterSeconds(); got != tt.want {
			t.Errorf("RetryAfterSeconds() with window %v = %d, want %d", tt.window, got, tt.want)
		}
	}
}

func TestNewProfiles(t *testing.T) {
	t.Parallel()

	p := NewProfiles(config.RateLimitConfig{
		Enabled:  true,
		Auth:     config.RateLimitProfile{Limit: 5, Window: time.Minute},
		Register: config.RateLimitProfile{Limit: 3, Window: time.Hour},
		Default:  config.RateLimitProfile{Limit: 100, Window: time.Minute},
	})

	if p.Auth == nil || p.Register == nil || p.Default == nil {
		t.Fatal("NewProfiles left a profile nil")
	}
	if p.Register.RetryAfterSeconds() != 3600 {
		t.Errorf("Register.RetryAfterSeconds() = %d, want 3600", p.Register.RetryAfterSeconds())
	}
}
