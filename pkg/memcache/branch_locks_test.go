package mem

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBranchLocks_SerializesSameKey(t *testing.T) {
	locks := NewBranchLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("tree-a")
			counter++
			locks.Unlock("tree-a")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestBranchLocks_IndependentKeys(t *testing.T) {
	locks := NewBranchLocks()

	locks.Lock("tree-a")

	done := make(chan struct{})
	go func() {
		locks.Lock("tree-b")
		locks.Unlock("tree-b")
		close(done)
	}()

	// A different tree must not block behind tree-a.
	<-done
	locks.Unlock("tree-a")
}

func TestBranchLocks_EntryRemovedWhenIdle(t *testing.T) {
	locks := NewBranchLocks().(*branchLocks)

	locks.Lock("tree-a")
	locks.Unlock("tree-a")

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks)
}
