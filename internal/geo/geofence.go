// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package geo

import "fmt"

// GeofenceKind selects the geometry variant of a Geofence.
type GeofenceKind string

const (
	GeofencePolygon  GeofenceKind = "polygon"
	GeofenceCircular GeofenceKind = "circular"
)

// DefaultHysteresisBufferKm is the default boundary tolerance (50 m). A
// point flapping in and out of a fence because of GPS jitter stays "inside"
// while within this band of the boundary.
const DefaultHysteresisBufferKm = 0.05

// Geofence is a geographic boundary, either a polygon or a circle.
// Immutable once constructed; ownership stays with the caller's geofence
// registry.
type Geofence struct {
	ID   string       `json:"id"`
	Kind GeofenceKind `json:"kind"`

	// Vertices defines the polygon ring (Kind == GeofencePolygon). The
	// ring is closed implicitly; the last vertex does not repeat the
	// first. At least 3 vertices are required.
	Vertices []Coordinate `json:"vertices,omitempty"`

	// Center and RadiusKm define the circle (Kind == GeofenceCircular).
	Center   Coordinate `json:"center,omitempty"`
	RadiusKm float64    `json:"radius_km,omitempty"`

	// HysteresisBufferKm overrides DefaultHysteresisBufferKm when > 0.
	HysteresisBufferKm float64 `json:"hysteresis_buffer_km,omitempty"`
}

// GeofenceError reports a malformed geofence definition. It is fatal only
// for the specific containment check that hit it; callers score the result
// as "geofence status unknown".
type GeofenceError struct {
	GeofenceID string
	Reason     string
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("malformed geofence %q: %s", e.GeofenceID, e.Reason)
}

// Validate checks the geofence definition and returns a *GeofenceError
// when it cannot be used for containment.
func (g *Geofence) Validate() error {
	switch g.Kind {
	case GeofencePolygon:
		if len(g.Vertices) < 3 {
			return &GeofenceError{GeofenceID: g.ID, Reason: fmt.Sprintf("polygon needs at least 3 vertices, got %d", len(g.Vertices))}
		}
		for i, v := range g.Vertices {
			if !InBounds(v.Lat, v.Lon) {
				return &GeofenceError{GeofenceID: g.ID, Reason: fmt.Sprintf("vertex %d out of bounds: lat=%v lon=%v", i, v.Lat, v.Lon)}
			}
		}
	case GeofenceCircular:
		if !InBounds(g.Center.Lat, g.Center.Lon) {
			return &GeofenceError{GeofenceID: g.ID, Reason: fmt.Sprintf("center out of bounds: lat=%v lon=%v", g.Center.Lat, g.Center.Lon)}
		}
		if g.RadiusKm <= 0 {
			return &GeofenceError{GeofenceID: g.ID, Reason: fmt.Sprintf("radius must be positive, got %v", g.RadiusKm)}
		}
	default:
		return &GeofenceError{GeofenceID: g.ID, Reason: fmt.Sprintf("unknown geofence kind %q", g.Kind)}
	}
	if g.HysteresisBufferKm < 0 {
		return &GeofenceError{GeofenceID: g.ID, Reason: fmt.Sprintf("hysteresis buffer must not be negative, got %v", g.HysteresisBufferKm)}
	}
	return nil
}

// bufferKm returns the effective hysteresis buffer for the fence.
func (g *Geofence) bufferKm() float64 {
	if g.HysteresisBufferKm > 0 {
		return g.HysteresisBufferKm
	}
	return DefaultHysteresisBufferKm
}
