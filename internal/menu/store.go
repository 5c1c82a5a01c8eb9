// Package menu keeps the last fetched menu snapshot in memory. Every load
// replaces the whole snapshot; there is no incremental sync. Fetches are
// sequence-numbered so that a slow response finishing after a newer one
// can never install stale data.
package menu

import (
	"sync"
	"time"

	"meo-pos/internal/models"
)

type Store struct {
	mu        sync.RWMutex
	seq       uint64
	installed uint64
	items     []models.MenuItem
	fetchedAt time.Time
}

func NewStore() *Store {
	return &Store{}
}

// Begin reserves a sequence number for a fetch that is about to start.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Complete installs the snapshot for the given fetch ticket. It reports
// false when a fetch started later has already completed, in which case
// the items are discarded.
func (s *Store) Complete(seq uint64, items []models.MenuItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.installed {
		return false
	}

	s.installed = seq
	s.items = make([]models.MenuItem, len(items))
	copy(s.items, items)
	s.fetchedAt = time.Now()
	return true
}

// Items returns a copy of the current snapshot.
func (s *Store) Items() []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MenuItem, len(s.items))
	copy(out, s.items)
	return out
}

// Get looks up a single item by id in the current snapshot.
func (s *Store) Get(id int64) (models.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.MenuItem{}, false
}

// Len returns the snapshot size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// FetchedAt returns when the current snapshot was installed; zero when no
// fetch has completed yet.
func (s *Store) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}
