package lock

import (
	"sync"
)

// Keyed provides a mutex per key. The booking lifecycle engine locks the
// owning room's key around every check-then-act sequence so that an
// availability probe and the write it guards cannot interleave with another
// writer on the same room.
type Keyed struct {
	mutexes sync.Map
}

func NewKeyed() *Keyed {
	return &Keyed{}
}

// Lock acquires the mutex for key, creating it on first use. Mutexes are
// never evicted; the key space (room ids) is small and bounded.
func (k *Keyed) Lock(key string) {
	mu, _ := k.mutexes.LoadOrStore(key, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
}

func (k *Keyed) Unlock(key string) {
	mu, ok := k.mutexes.Load(key)
	if !ok {
		return
	}

	mu.(*sync.Mutex).Unlock()
}
