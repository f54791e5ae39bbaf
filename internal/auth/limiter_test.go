package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginLimiter(t *testing.T) {
	l := NewLoginLimiter(3, time.Minute)
	key := LimiterKey("Bob", "10.0.0.1")

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allowed(key), "attempt %d", i)
		l.Fail(key)
	}
	assert.False(t, l.Allowed(key))

	assert.True(t, l.Allowed(LimiterKey("bob", "10.0.0.2")), "other hosts are unaffected")
	assert.Equal(t, key, LimiterKey("bob", "10.0.0.1"), "usernames are case-insensitive")

	l.Reset(key)
	assert.True(t, l.Allowed(key))
}

func TestLoginLimiterWindowExpires(t *testing.T) {
	l := NewLoginLimiter(1, 20*time.Millisecond)
	key := LimiterKey("bob", "h")

	l.Fail(key)
	assert.False(t, l.Allowed(key))

	assert.Eventually(t, func() bool { return l.Allowed(key) }, time.Second, 10*time.Millisecond)
}
