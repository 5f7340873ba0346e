package sequence

import "sync"

// classLocker hands out one mutex per class so that read-recompute-write cycles on
// the same class never interleave.
type classLocker struct {
	mu    sync.Mutex
	locks map[string]*classLock
}

type classLock struct {
	sync.Mutex
	refs int
}

func newClassLocker() *classLocker {
	return &classLocker{locks: make(map[string]*classLock)}
}

// lock blocks until the class is free and returns its unlock func.
func (l *classLocker) lock(classID string) (unlock func()) {
	l.mu.Lock()
	cl, ok := l.locks[classID]
	if !ok {
		cl = &classLock{}
		l.locks[classID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.Lock()
	return func() {
		cl.Unlock()

		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.locks, classID)
		}
		l.mu.Unlock()
	}
}
