package inventory

import (
	"sync"

	"github.com/google/uuid"
)

// productLocks serializes concurrent stock changes for the same product so
// the local write and the channel fan-out cannot interleave. Different
// products proceed independently.
type productLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[uuid.UUID]*lockEntry)}
}

// Lock blocks until the product's lock is held and returns the unlock func.
func (p *productLocks) Lock(productID uuid.UUID) func() {
	p.mu.Lock()
	entry, ok := p.locks[productID]
	if !ok {
		entry = &lockEntry{}
		p.locks[productID] = entry
	}
	entry.refs++
	p.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		p.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(p.locks, productID)
		}
		p.mu.Unlock()
	}
}
