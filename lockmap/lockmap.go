// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmap

import "sync"

type holderLock struct {
	holders int
	mu      sync.Mutex
}

// Lockmap hands out one mutex per key, creating it on first use and
// dropping it once nobody holds or waits on it.
type Lockmap struct {
	l sync.Mutex
	m map[string]*holderLock
}

func New(initSize int) *Lockmap {
	return &Lockmap{
		m: make(map[string]*holderLock, initSize),
	}
}

func (l *Lockmap) Lock(key string) {
	l.l.Lock()
	hl, ok := l.m[key]
	if !ok {
		hl = &holderLock{}
		l.m[key] = hl
	}
	hl.holders++
	l.l.Unlock()

	hl.mu.Lock()
}

// Unlock panics if [key] is not locked.
func (l *Lockmap) Unlock(key string) {
	l.l.Lock()
	defer l.l.Unlock()

	hl, ok := l.m[key]
	if !ok {
		panic("lockmap: unlock of unlocked key")
	}
	hl.holders--
	if hl.holders == 0 {
		delete(l.m, key)
	}
	hl.mu.Unlock()
}

// LockAll acquires [keys] in order. Callers must pass keys in a consistent
// order across goroutines.
func (l *Lockmap) LockAll(keys []string) {
	for _, k := range keys {
		l.Lock(k)
	}
}

func (l *Lockmap) UnlockAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.Unlock(keys[i])
	}
}

// Locks returns the number of keys currently held or waited on.
func (l *Lockmap) Locks() int {
	l.l.Lock()
	defer l.l.Unlock()

	return len(l.m)
}
