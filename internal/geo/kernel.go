// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package geo

import (
	"math"

	"github.com/clockguard/trustengine/internal/metrics"
)

// Kernel performs geofence containment checks. It carries a bounded LRU of
// prepared geometries; everything else about it is stateless.
type Kernel struct {
	cache *geometryCache
}

// NewKernel creates a Kernel with a prepared-geometry cache of the given
// capacity. Capacity <= 0 uses the default (1000 entries).
func NewKernel(cacheCapacity int) *Kernel {
	return &Kernel{cache: newGeometryCache(cacheCapacity)}
}

// preparedGeofence is the cached, pre-processed form of a geofence: the
// polygon ring with a bounding box for fast rejection, or the circle
// parameters verbatim.
type preparedGeofence struct {
	kind     GeofenceKind
	ring     []Coordinate
	bboxMin  Coordinate
	bboxMax  Coordinate
	center   Coordinate
	radiusKm float64
	bufferKm float64
}

// Contains reports whether point lies inside the geofence. With
// useHysteresis, the fence boundary is extended outward by the fence's
// hysteresis buffer so GPS jitter near the edge does not flap the verdict.
// Returns a *GeofenceError for a malformed fence definition.
func (k *Kernel) Contains(fence *Geofence, point Coordinate, useHysteresis bool) (bool, error) {
	prepared, err := k.prepare(fence)
	if err != nil {
		return false, err
	}
	return prepared.contains(point, useHysteresis), nil
}

// prepare validates the fence and returns its prepared geometry, consulting
// the cache when the fence carries an ID.
func (k *Kernel) prepare(fence *Geofence) (*preparedGeofence, error) {
	if fence.ID != "" {
		if cached, ok := k.cache.get(fence.ID); ok {
			metrics.GeometryCacheHits.Inc()
			return cached, nil
		}
		metrics.GeometryCacheMisses.Inc()
	}

	if err := fence.Validate(); err != nil {
		return nil, err
	}

	prepared := &preparedGeofence{
		kind:     fence.Kind,
		bufferKm: fence.bufferKm(),
	}
	switch fence.Kind {
	case GeofencePolygon:
		prepared.ring = append([]Coordinate(nil), fence.Vertices...)
		prepared.bboxMin, prepared.bboxMax = boundingBox(prepared.ring)
	case GeofenceCircular:
		prepared.center = fence.Center
		prepared.radiusKm = fence.RadiusKm
	}

	if fence.ID != "" {
		k.cache.add(fence.ID, prepared)
	}
	return prepared, nil
}

// CacheStats returns prepared-geometry cache hit/miss counters and size.
func (k *Kernel) CacheStats() (hits, misses int64, size int) {
	return k.cache.stats()
}

// contains evaluates containment against the prepared geometry.
func (p *preparedGeofence) contains(point Coordinate, useHysteresis bool) bool {
	buffer := 0.0
	if useHysteresis {
		buffer = p.bufferKm
	}

	if p.kind == GeofenceCircular {
		return DistanceKm(p.center, point) <= p.radiusKm+buffer
	}

	// Fast bounding-box reject, padded by the buffer converted to a
	// conservative degree margin.
	margin := buffer / 110.574
	if point.Lat < p.bboxMin.Lat-margin || point.Lat > p.bboxMax.Lat+margin ||
		point.Lon < p.bboxMin.Lon-margin/math.Max(math.Cos(point.Lat*math.Pi/180), 0.01) ||
		point.Lon > p.bboxMax.Lon+margin/math.Max(math.Cos(point.Lat*math.Pi/180), 0.01) {
		return false
	}

	if pointInRing(point, p.ring) {
		return true
	}
	if buffer <= 0 {
		return false
	}

	// Outward buffering: a point just outside the ring still counts as
	// inside while within buffer km of the nearest edge.
	return distanceToRingKm(point, p.ring) <= buffer
}

// pointInRing implements the even-odd ray casting rule over the implicitly
// closed ring, with longitude as x and latitude as y.
func pointInRing(point Coordinate, ring []Coordinate) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := ring[i], ring[j]
		if (vi.Lat > point.Lat) != (vj.Lat > point.Lat) {
			crossLon := (vj.Lon-vi.Lon)*(point.Lat-vi.Lat)/(vj.Lat-vi.Lat) + vi.Lon
			if point.Lon < crossLon {
				inside = !inside
			}
		}
	}
	return inside
}

// distanceToRingKm returns the distance from point to the nearest polygon
// edge in kilometers.
func distanceToRingKm(point Coordinate, ring []Coordinate) float64 {
	minDist := math.Inf(1)
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		if d := distanceToSegmentKm(point, a, b); d < minDist {
			minDist = d
		}
	}
	return minDist
}

// distanceToSegmentKm approximates the distance from p to segment a-b by
// projecting onto a local planar frame centered at p. Accurate to well
// under the hysteresis buffers this package works with (tens to hundreds
// of meters).
func distanceToSegmentKm(p, a, b Coordinate) float64 {
	kmPerDegLat := 110.574
	kmPerDegLon := 111.320 * math.Cos(p.Lat*math.Pi/180)

	ax := (a.Lon - p.Lon) * kmPerDegLon
	ay := (a.Lat - p.Lat) * kmPerDegLat
	bx := (b.Lon - p.Lon) * kmPerDegLon
	by := (b.Lat - p.Lat) * kmPerDegLat

	dx := bx - ax
	dy := by - ay
	segLenSq := dx*dx + dy*dy
	if segLenSq == 0 {
		return math.Hypot(ax, ay)
	}

	// Projection parameter of the origin (p) onto the segment, clamped.
	t := -(ax*dx + ay*dy) / segLenSq
	t = math.Max(0, math.Min(1, t))

	cx := ax + t*dx
	cy := ay + t*dy
	return math.Hypot(cx, cy)
}

// boundingBox returns the min/max corners of a vertex ring.
func boundingBox(ring []Coordinate) (min, max Coordinate) {
	min = Coordinate{Lat: math.Inf(1), Lon: math.Inf(1)}
	max = Coordinate{Lat: math.Inf(-1), Lon: math.Inf(-1)}
	for _, v := range ring {
		min.Lat = math.Min(min.Lat, v.Lat)
		min.Lon = math.Min(min.Lon, v.Lon)
		max.Lat = math.Max(max.Lat, v.Lat)
		max.Lon = math.Max(max.Lon, v.Lon)
	}
	return min, max
}
