// Package visited tracks which URLs and page states have already been
// explored.
package visited

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	bloomCapacity = 100000
	bloomFPRate   = 0.01
)

// Set is an exact membership set with a bloom prefilter. The filter
// answers the common "definitely new" case without touching the map; the
// map removes the false positives, so membership answers are exact.
type Set struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	exact  map[string]struct{}
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{
		filter: bloom.NewWithEstimates(bloomCapacity, bloomFPRate),
		exact:  make(map[string]struct{}),
	}
}

// Add records the key. It reports true if the key was new.
func (s *Set) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter.TestString(key) {
		if _, ok := s.exact[key]; ok {
			return false
		}
	}
	s.filter.AddString(key)
	s.exact[key] = struct{}{}
	return true
}

// Contains reports whether the key has been recorded.
func (s *Set) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.filter.TestString(key) {
		return false
	}
	_, ok := s.exact[key]
	return ok
}

// Len reports the number of recorded keys.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.exact)
}

// Tracker holds the two membership sets a discovery run needs: visited
// URLs (keyed by normalized URL) and discovered states (keyed by node
// id, which folds in the DOM fingerprint).
type Tracker struct {
	urls   *Set
	states *Set
}

// NewTracker creates empty URL and state sets.
func NewTracker() *Tracker {
	return &Tracker{urls: NewSet(), states: NewSet()}
}

// MarkURL records a normalized URL, reporting true if it was unvisited.
func (t *Tracker) MarkURL(normalizedURL string) bool {
	return t.urls.Add(normalizedURL)
}

// SeenURL reports whether a normalized URL was already visited.
func (t *Tracker) SeenURL(normalizedURL string) bool {
	return t.urls.Contains(normalizedURL)
}

// MarkState records a node id, reporting true if the state was new.
func (t *Tracker) MarkState(nodeID string) bool {
	return t.states.Add(nodeID)
}

// SeenState reports whether a node id was already discovered.
func (t *Tracker) SeenState(nodeID string) bool {
	return t.states.Contains(nodeID)
}

// URLCount reports the number of visited URLs.
func (t *Tracker) URLCount() int { return t.urls.Len() }

// StateCount reports the number of discovered states.
func (t *Tracker) StateCount() int { return t.states.Len() }
