package syncstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGuard_TryAcquire(t *testing.T) {
	g := NewGuard(time.Minute)

	assert.True(t, g.TryAcquire())
	assert.False(t, g.TryAcquire(), "second acquire while held must fail")

	g.Release()
	assert.True(t, g.TryAcquire(), "acquire after release must succeed")
}

func TestGuard_Cooldown(t *testing.T) {
	g := NewGuard(time.Minute)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	assert.False(t, g.IsCooldownActive(now), "no completed pass yet")

	g.MarkCompleted(now)
	assert.True(t, g.IsCooldownActive(now.Add(30*time.Second)))
	assert.True(t, g.IsCooldownActive(now.Add(59*time.Second)))
	assert.False(t, g.IsCooldownActive(now.Add(time.Minute)))
	assert.False(t, g.IsCooldownActive(now.Add(2*time.Minute)))
}
