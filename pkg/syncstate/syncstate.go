// Package syncstate coordinates a single-flight sync pass with a cooldown
// window between completed passes.
package syncstate

import (
	"sync"
	"time"
)

type Guard struct {
	mu            sync.Mutex
	running       bool
	lastCompleted time.Time
	cooldown      time.Duration
}

func NewGuard(cooldown time.Duration) *Guard {
	return &Guard{cooldown: cooldown}
}

// TryAcquire claims the guard for one pass. It returns false without
// blocking when a pass is already in flight.
func (g *Guard) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return false
	}
	g.running = true
	return true
}

// Release frees the guard for the next pass.
func (g *Guard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running = false
}

// IsCooldownActive reports whether the last completed pass is still within
// the cooldown window at the given time.
func (g *Guard) IsCooldownActive(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lastCompleted.IsZero() {
		return false
	}
	return now.Sub(g.lastCompleted) < g.cooldown
}

// MarkCompleted records the completion time of a successful pass. Failed
// passes do not call it, so they can be retried immediately.
func (g *Guard) MarkCompleted(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastCompleted = now
}
