package ledger

import "sync"

// userLocks serializes trade execution per user. SQLite offers no
// SELECT FOR UPDATE, so the exclusive account-scoped lock required by the
// read-check-write sequence is taken here, before the balance is read,
// and held until the atomic unit commits. One lock per user also covers
// every position under that account, so no finer lock ordering exists to
// get wrong.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire returns the mutex for userID, creating it on first use. Locks
// are never evicted; the map is bounded by the number of active users.
func (l *userLocks) acquire(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	return m
}
