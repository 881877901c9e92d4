package trading

import (
	"sync"

	"github.com/google/uuid"
)

// portfolioLocks hands out one mutex per portfolio so that concurrent
// trades against the same portfolio are serialized while trades against
// different portfolios proceed independently. Locks are never evicted;
// the set of portfolios is small and bounded by the user base.
type portfolioLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newPortfolioLocks() *portfolioLocks {
	return &portfolioLocks{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// get returns the mutex for a portfolio, creating it on first use.
func (l *portfolioLocks) get(portfolioID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[portfolioID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[portfolioID] = lock
	}
	return lock
}
