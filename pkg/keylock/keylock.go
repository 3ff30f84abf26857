// Package keylock provides per-key mutual exclusion for check-then-act
// sequences keyed by entity id.
package keylock

import (
	"sync"
)

// KeyLock serializes operations sharing the same key. Locks are retained for
// the lifetime of the process; the key space is bounded by entity ids.
type KeyLock struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// New creates an empty KeyLock.
func New() *KeyLock {
	return &KeyLock{locks: make(map[uint]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *KeyLock) Lock(key uint) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
