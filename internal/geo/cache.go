// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package geo

import "sync"

// geometryCache is a thread-safe LRU of prepared geofence geometries keyed
// by geofence ID. Repeated containment checks against the same fence skip
// re-preparation. The cache is bounded; the least recently used entry is
// evicted at capacity.
//
// Doubly-linked list for ordering plus a map for O(1) lookup.
type geometryCache struct {
	mu sync.Mutex

	capacity int
	items    map[string]*cacheEntry

	// head.next is most recently used, tail.prev least recently used.
	head *cacheEntry
	tail *cacheEntry

	hits   int64
	misses int64
}

type cacheEntry struct {
	key   string
	value *preparedGeofence
	prev  *cacheEntry
	next  *cacheEntry
}

// defaultGeometryCacheSize bounds the cache when the caller does not.
const defaultGeometryCacheSize = 1000

func newGeometryCache(capacity int) *geometryCache {
	if capacity <= 0 {
		capacity = defaultGeometryCacheSize
	}
	c := &geometryCache{
		capacity: capacity,
		items:    make(map[string]*cacheEntry, capacity),
		head:     &cacheEntry{},
		tail:     &cacheEntry{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// get returns the prepared geometry for key, promoting it to most recently
// used.
func (c *geometryCache) get(key string) (*preparedGeofence, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.moveToFront(entry)
	c.hits++
	return entry.value, true
}

// add inserts or replaces the prepared geometry for key, evicting the
// least recently used entry at capacity.
func (c *geometryCache) add(key string, value *preparedGeofence) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		entry.value = value
		c.moveToFront(entry)
		return
	}

	entry := &cacheEntry{key: key, value: value}
	c.addToFront(entry)
	c.items[key] = entry

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// stats returns hit/miss counters and the current size.
func (c *geometryCache) stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.items)
}

// Internal list operations, called with the lock held.

func (c *geometryCache) addToFront(entry *cacheEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *geometryCache) moveToFront(entry *cacheEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

func (c *geometryCache) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	oldest.prev.next = oldest.next
	oldest.next.prev = oldest.prev
	delete(c.items, oldest.key)
}
