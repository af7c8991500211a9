// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package baseline

import (
	"context"
	"sync"

	"github.com/clockguard/trustengine/internal/models"
)

// ProfileStore is the persistence hook the caller supplies. The engine
// never persists state itself; after a training or incremental update the
// caller saves the profile through this interface.
type ProfileStore interface {
	Save(ctx context.Context, profile *models.BehaviorProfile) error
}

// KeyedMutex serializes writers per key. Retraining is the only stateful
// operation in the engine, and callers must ensure a single retrain runs
// per subject at a time; this helper gives them a per-subject lock
// without holding one global mutex across all subjects.
//
// Concurrent reads of a profile snapshot need no lock.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the lock for key and returns its unlock function. Locks
// are created on demand and removed once the last holder releases them.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
