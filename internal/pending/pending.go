// Package pending holds per-caller selections that await a follow-up
// action, such as a chosen source strategy waiting for the media reference
// that completes the request. Entries expire after a TTL so an abandoned
// selection cannot leak into a later, unrelated request.
package pending

import (
	"sync"
	"time"
)

var timeNow = time.Now

// Selection is one caller's stored choice.
type Selection struct {
	Value     string
	StoredAt  time.Time
	expiresAt time.Time
}

// Store keeps at most one live selection per caller.
type Store struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]Selection
}

// NewStore constructs a selection store with the given entry lifetime.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Store{ttl: ttl, entries: make(map[string]Selection)}
}

// Put stores the caller's selection, replacing any live one. The returned
// flag reports whether a live selection was overwritten.
func (s *Store) Put(callerID, value string) (replaced bool) {
	now := timeNow()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(now)
	_, replaced = s.entries[callerID]
	s.entries[callerID] = Selection{
		Value:     value,
		StoredAt:  now,
		expiresAt: now.Add(s.ttl),
	}
	return replaced
}

// Take removes and returns the caller's live selection.
func (s *Store) Take(callerID string) (Selection, bool) {
	now := timeNow()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(now)
	entry, ok := s.entries[callerID]
	if !ok {
		return Selection{}, false
	}
	delete(s.entries, callerID)
	return entry, true
}

// Peek returns the caller's live selection without consuming it.
func (s *Store) Peek(callerID string) (Selection, bool) {
	now := timeNow()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(now)
	entry, ok := s.entries[callerID]
	return entry, ok
}

// Len reports the number of live selections.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(timeNow())
	return len(s.entries)
}

// sweep drops expired entries. Callers hold s.mu.
func (s *Store) sweep(now time.Time) {
	for caller, entry := range s.entries {
		if !entry.expiresAt.After(now) {
			delete(s.entries, caller)
		}
	}
}
