package library

import "sync"

// keyedLocks hands out one mutex per identity key so find-or-create can
// hold the read-decide-write sequence for a key without serializing
// unrelated keys. Locks are never released back; the key space (external
// ids, normalized titles, ISBNs) is small and bounded by the catalog size.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for key and returns the matching unlock func.
func (k *keyedLocks) acquire(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
