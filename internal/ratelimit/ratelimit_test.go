package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerClient(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, 3, true)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.AllowRequest("a"))
	assert.True(t, rl.AllowRequest("a"))
	assert.False(t, rl.AllowRequest("a"), "minute limit")
	assert.True(t, rl.AllowRequest("b"), "clients are independent")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.AllowRequest("a"))
	assert.False(t, rl.AllowRequest("a"), "hour limit")

	stats := rl.GetStats("a")
	assert.Equal(t, 1, stats.RequestsLastMinute)
	assert.Equal(t, 3, stats.RequestsLastHour)
	assert.Equal(t, 0, stats.RemainingThisHour)

	now = now.Add(time.Hour)
	assert.True(t, rl.AllowRequest("a"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(1, 1, false)
	for i := 0; i < 5; i++ {
		assert.True(t, rl.AllowRequest("a"))
	}
	assert.False(t, rl.GetStats("a").Enabled)
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(1, 0, true)
	assert.True(t, rl.AllowRequest("a"))
	assert.False(t, rl.AllowRequest("a"))

	rl.Reset()
	assert.True(t, rl.AllowRequest("a"))
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, 0, true)
	rl.now = func() time.Time { return now }

	for i := 0; i <= idleClientSweep; i++ {
		rl.AllowRequest(time.Duration(i).String())
	}

	now = now.Add(2 * time.Hour)
	rl.AllowRequest("fresh")
	assert.Len(t, rl.clients, 1)
}
