package basket

import (
	"sync"
	"time"
)

// ClickGuard drops add actions for the same item id that arrive inside a
// short window, absorbing duplicate event dispatches. It is a best-effort
// UX safeguard: a genuine human double-click inside the window is dropped
// too, and the window check is not atomic across processes.
//
// The guard is owned by a session, never shared as a package singleton.
type ClickGuard struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	last   map[int64]time.Time
}

func NewClickGuard(window time.Duration) *ClickGuard {
	if window <= 0 {
		window = 250 * time.Millisecond
	}
	return &ClickGuard{
		window: window,
		now:    time.Now,
		last:   make(map[int64]time.Time),
	}
}

// Allow reports whether an add for itemID may proceed. It records the
// timestamp only for accepted calls, so a burst inside the window is
// measured from the first accepted add.
func (g *ClickGuard) Allow(itemID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, ok := g.last[itemID]; ok && now.Sub(last) < g.window {
		return false
	}
	g.last[itemID] = now
	return true
}
