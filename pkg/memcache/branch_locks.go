package mem

import (
	"sync"
)

// BranchLocks serializes matrix placements per tree. Two concurrent
// enrollments that could select the same open slot always share a root,
// so locking on the root key is enough to keep breadth-first slot
// selection race-free within this process. The unique index on
// (parent_id, leg_position) backstops multi-instance deployments.
type BranchLocks interface {
	Lock(rootKey string)
	Unlock(rootKey string)
}

type branchLocks struct {
	mu    sync.Mutex
	locks map[string]*branchLock
}

type branchLock struct {
	mu   sync.Mutex
	refs int
}

func NewBranchLocks() BranchLocks {
	return &branchLocks{
		locks: make(map[string]*branchLock),
	}
}

func (b *branchLocks) Lock(rootKey string) {
	b.mu.Lock()
	l, ok := b.locks[rootKey]
	if !ok {
		l = &branchLock{}
		b.locks[rootKey] = l
	}
	l.refs++
	b.mu.Unlock()

	l.mu.Lock()
}

func (b *branchLocks) Unlock(rootKey string) {
	b.mu.Lock()
	l, ok := b.locks[rootKey]
	if ok {
		l.refs--
		if l.refs <= 0 {
			delete(b.locks, rootKey) // cleanup idle entries
		}
	}
	b.mu.Unlock()

	if ok {
		l.mu.Unlock()
	}
}
