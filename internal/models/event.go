// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package models

import "time"

// GeofenceStatus is the pre-computed geofence containment verdict attached
// to an event by the platform's geofence validation, before the event
// reaches the trust engine.
type GeofenceStatus string

const (
	// GeofenceStatusUnknown means no geofence was resolved for the site or
	// the containment check failed (malformed geometry). Scored as a
	// low-severity informational finding, never as a violation.
	GeofenceStatusUnknown GeofenceStatus = "unknown"

	// GeofenceStatusInside means the check-in location was inside the
	// authorized geofence.
	GeofenceStatusInside GeofenceStatus = "inside"

	// GeofenceStatusOutside means the check-in location was explicitly
	// outside the authorized geofence.
	GeofenceStatusOutside GeofenceStatus = "outside"
)

// AttendanceEvent is a single check-in/check-out record as supplied by the
// attendance platform. The engine never mutates an event.
type AttendanceEvent struct {
	ID        string `json:"id"`
	SubjectID string `json:"subject_id" validate:"required"`

	CheckInAt  time.Time  `json:"check_in_at" validate:"required"`
	CheckOutAt *time.Time `json:"check_out_at,omitempty"`

	// Start coordinates are captured at check-in, end coordinates at
	// check-out (nil for an open shift).
	StartLatitude  float64  `json:"start_latitude" validate:"latitude"`
	StartLongitude float64  `json:"start_longitude" validate:"longitude"`
	EndLatitude    *float64 `json:"end_latitude,omitempty"`
	EndLongitude   *float64 `json:"end_longitude,omitempty"`

	// AccuracyM is the reported GPS accuracy radius in meters at check-in.
	AccuracyM float64 `json:"accuracy_m" validate:"min=0"`

	DeviceID string `json:"device_id"`

	// TransportModes lists the declared travel legs since the previous
	// event. Velocity checks use the fastest declared mode.
	TransportModes []TransportMode `json:"transport_modes,omitempty"`

	// DistanceKm and DurationHours are computed by the platform from the
	// event pair and carried through for duration/shift checks.
	DistanceKm    float64 `json:"distance_km"`
	DurationHours float64 `json:"duration_hours"`

	// WorkDate is the calendar date the event is booked against.
	WorkDate time.Time `json:"work_date"`

	GeofenceID     string         `json:"geofence_id,omitempty"`
	GeofenceStatus GeofenceStatus `json:"geofence_status"`
}

// HasCheckOut reports whether the shift has been closed.
func (e *AttendanceEvent) HasCheckOut() bool {
	return e.CheckOutAt != nil
}

// EndLocation returns the check-out coordinates when present, falling back
// to the check-in coordinates for an open shift. The boolean is false when
// the fallback was used.
func (e *AttendanceEvent) EndLocation() (lat, lon float64, exact bool) {
	if e.EndLatitude != nil && e.EndLongitude != nil {
		return *e.EndLatitude, *e.EndLongitude, true
	}
	return e.StartLatitude, e.StartLongitude, false
}

// TransportMode returns the fastest declared transport mode for the event.
func (e *AttendanceEvent) TransportMode() TransportMode {
	return FastestTransportMode(e.TransportModes)
}

// ISOWeekday returns the check-in weekday as ISO 8601 (Monday=1 .. Sunday=7).
func (e *AttendanceEvent) ISOWeekday() int {
	wd := int(e.CheckInAt.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// IsWeekend reports whether the check-in falls on Saturday or Sunday.
func (e *AttendanceEvent) IsWeekend() bool {
	wd := e.ISOWeekday()
	return wd == 6 || wd == 7
}
