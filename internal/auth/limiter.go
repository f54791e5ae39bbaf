package auth

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Login throttling defaults.
const (
	DefaultMaxLoginFailures = 5
	DefaultLoginLockout     = 15 * time.Minute
)

// LoginLimiter counts failed logins per key and refuses further attempts once
// a key reaches the limit. Counters expire window after the first failure.
type LoginLimiter struct {
	failures *cache.Cache
	max      int
	window   time.Duration
}

// NewLoginLimiter returns a limiter allowing max failures per window.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		failures: cache.New(window, 2*window),
		max:      max,
		window:   window,
	}
}

// LimiterKey builds the throttling key for a username and client host.
func LimiterKey(username, host string) string {
	return strings.ToLower(username) + "|" + host
}

// Allowed reports whether key may attempt another login.
func (l *LoginLimiter) Allowed(key string) bool {
	n, ok := l.failures.Get(key)
	return !ok || n.(int) < l.max
}

// Fail records a failed login for key.
func (l *LoginLimiter) Fail(key string) {
	if _, err := l.failures.IncrementInt(key, 1); err != nil {
		l.failures.Set(key, 1, l.window)
	}
}

// Reset forgets the failures recorded for key.
func (l *LoginLimiter) Reset(key string) {
	l.failures.Delete(key)
}
