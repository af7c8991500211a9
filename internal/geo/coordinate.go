// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package geo

import (
	"fmt"
	"math"
)

// NullIslandEpsilon bounds the region around (0,0) treated as "null
// island": coordinates a spoofed or defaulted GPS stack reports when it has
// no fix. 0.001 degrees is roughly 110 m at the equator, far from any
// workplace that could legitimately sit at the origin.
const NullIslandEpsilon = 0.001

// Coordinate is a validated WGS84 latitude/longitude pair in degrees.
// Construct through NewCoordinate so out-of-range values are rejected,
// never silently clamped.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// InvalidCoordinateError reports a latitude or longitude outside its valid
// range.
type InvalidCoordinateError struct {
	Lat float64
	Lon float64
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate: lat=%v lon=%v (lat must be in [-90,90], lon in [-180,180])", e.Lat, e.Lon)
}

// NewCoordinate validates lat/lon and returns a Coordinate, or an
// *InvalidCoordinateError when either component is out of range or NaN.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if !InBounds(lat, lon) {
		return Coordinate{}, &InvalidCoordinateError{Lat: lat, Lon: lon}
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

// InBounds reports whether lat/lon are finite and within WGS84 range.
func InBounds(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// IsNullIsland reports whether the coordinate sits in the null-island
// region around (0,0).
func (c Coordinate) IsNullIsland() bool {
	return IsNullIsland(c.Lat, c.Lon)
}

// IsNullIsland reports whether the raw lat/lon pair sits in the
// null-island region around (0,0). Uses an epsilon band instead of direct
// float equality so near-zero noise from a defaulted GPS stack still
// matches.
func IsNullIsland(lat, lon float64) bool {
	return math.Abs(lat) < NullIslandEpsilon && math.Abs(lon) < NullIslandEpsilon
}
