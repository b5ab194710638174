package character

import (
	"context"
	"sync"
)

// keyedLocker hands out one mutex per character ID. Entries are dropped once
// nobody holds or waits on them.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[string]*keyLock)}
}

// lock blocks until id is free or ctx is done. The returned func releases
// the lock and is safe to call more than once.
func (l *keyedLocker) lock(ctx context.Context, id string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[id]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		l.locks[id] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(id, kl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.sem
			l.release(id, kl)
		})
	}, nil
}

func (l *keyedLocker) release(id string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, id)
	}
}

// held reports how many callers hold or wait on id
func (l *keyedLocker) held(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if kl, ok := l.locks[id]; ok {
		return kl.refs
	}
	return 0
}
