// Package ratelimit provides per-key request throttling for inbound traffic.
// Each client key (usually the remote IP) gets a token bucket sized from a
// configured profile; idle buckets are evicted so the key table stays
// bounded.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/porchest/portal-api/internal/platform/config"
)

// sweepInterval bounds how often the idle-entry sweep runs.
const sweepInterval = time.Minute

// Limiter throttles requests per client key against a single profile.
type Limiter struct {
	profile config.RateLimitProfile

	mu        sync.Mutex
	entries   map[string]*entry
	lastSweep time.Time
	now       func() time.Time
}

type entry struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// New creates a Limiter for the given profile.
func New(profile config.RateLimitProfile) *Limiter {
	return &Limiter{
		profile:   profile,
		entries:   make(map[string]*entry),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether a request for key may proceed now. Each key refills
// at profile.Limit tokens per profile.Window with a burst of the full limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	e, ok := l.entries[key]
	if !ok {
		e = &entry{
			bucket: rate.NewLimiter(rate.Every(l.profile.Window/time.Duration(l.profile.Limit)), l.profile.Limit),
		}
		l.entries[key] = e
	}
	e.lastSeen = now

	return e.bucket.AllowN(now, 1)
}

// RetryAfterSeconds returns the Retry-After value for rejected requests:
// the profile window in whole seconds, minimum 1.
func (l *Limiter) RetryAfterSeconds() int {
	secs := int(l.profile.Window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// sweep drops entries idle for longer than the profile window. Called with
// the mutex held, at most once per sweepInterval.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now

	cutoff := now.Add(-l.profile.Window)
	if maxIdle := sweepInterval; l.profile.Window < maxIdle {
		cutoff = now.Add(-maxIdle)
	}
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// Profiles bundles the portal's three inbound limiter classes.
type Profiles struct {
	Auth     *Limiter
	Register *Limiter
	Default  *Limiter
}

// NewProfiles builds the limiter set from config.
func NewProfiles(cfg config.RateLimitConfig) *Profiles {
	return &Profiles{
		Auth:     New(cfg.Auth),
		Register: New(cfg.Register),
		Default:  New(cfg.Default),
	}
}
