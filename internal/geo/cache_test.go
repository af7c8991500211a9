// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package geo

import "testing"

func TestGeometryCacheEviction(t *testing.T) {
	c := newGeometryCache(2)

	c.add("a", &preparedGeofence{})
	c.add("b", &preparedGeofence{})

	// Touch "a" so "b" is the eviction candidate.
	if _, ok := c.get("a"); !ok {
		t.Fatal("entry a missing before eviction")
	}

	c.add("c", &preparedGeofence{})

	if _, ok := c.get("b"); ok {
		t.Error("least recently used entry b survived eviction")
	}
	if _, ok := c.get("a"); !ok {
		t.Error("recently used entry a was evicted")
	}
	if _, ok := c.get("c"); !ok {
		t.Error("new entry c missing")
	}

	if _, _, size := c.stats(); size != 2 {
		t.Errorf("size = %d, want 2", size)
	}
}

func TestGeometryCacheReplace(t *testing.T) {
	c := newGeometryCache(2)

	first := &preparedGeofence{radiusKm: 1}
	second := &preparedGeofence{radiusKm: 2}

	c.add("a", first)
	c.add("a", second)

	got, ok := c.get("a")
	if !ok || got.radiusKm != 2 {
		t.Errorf("get(a) = %+v, want the replacement entry", got)
	}
	if _, _, size := c.stats(); size != 1 {
		t.Errorf("size = %d, want 1 after replace", size)
	}
}

func TestGeometryCacheDefaultCapacity(t *testing.T) {
	c := newGeometryCache(0)
	if c.capacity != defaultGeometryCacheSize {
		t.Errorf("capacity = %d, want %d", c.capacity, defaultGeometryCacheSize)
	}
}
