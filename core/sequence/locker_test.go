package sequence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassLocker(t *testing.T) {
	locker := newClassLocker()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		running = make(map[string]int)
		maxSeen = make(map[string]int)
	)
	for i := 0; i < 50; i++ {
		classID := []string{"c1", "c2"}[i%2]
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.lock(classID)
			defer unlock()

			mu.Lock()
			running[classID]++
			if running[classID] > maxSeen[classID] {
				maxSeen[classID] = running[classID]
			}
			mu.Unlock()

			mu.Lock()
			running[classID]--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen["c1"])
	assert.Equal(t, 1, maxSeen["c2"])
	assert.Empty(t, locker.locks, "released locks are dropped")
}
