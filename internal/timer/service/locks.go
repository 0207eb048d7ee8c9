package service

import "sync"

// ownerLocks serializes timer mutations per owner within this process. The
// repository's version guard covers cross-replica races; this lock keeps
// local read-modify-write cycles from interleaving at all.
//
// Locks are never evicted: the map grows with the set of distinct owners seen
// by this process, which is bounded by the user population.
type ownerLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

// lock acquires the owner's mutex and returns its unlock function.
func (l *ownerLocks) lock(ownerID string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	om, ok := l.m[ownerID]
	if !ok {
		om = &sync.Mutex{}
		l.m[ownerID] = om
	}
	l.mu.Unlock()

	om.Lock()
	return om.Unlock
}
