// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package models

import (
	"slices"
	"time"
)

// LocationCluster is one of a subject's learned typical check-in locations:
// the centroid of a proximity cluster plus how many training events fell
// into it.
type LocationCluster struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Frequency int     `json:"frequency"`
}

// BehaviorProfile is a subject's learned baseline: their normal check-in
// times, places, devices, schedule, and travel habits. One profile exists
// per subject. Assessment reads a stable snapshot; only the baseline
// learner writes to it, and callers must serialize writes per subject.
type BehaviorProfile struct {
	SubjectID string `json:"subject_id"`

	// TrainingRecordCount is the number of events the last full training
	// run consumed. IsSufficient flips once the minimum (30) is reached.
	TrainingRecordCount int  `json:"training_record_count"`
	IsSufficient        bool `json:"is_sufficient"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Temporal baseline.
	TypicalCheckInHour    int     `json:"typical_checkin_hour"`
	TypicalCheckInMinute  int     `json:"typical_checkin_minute"`
	CheckInVarianceMin    float64 `json:"checkin_variance_minutes"`
	TypicalCheckOutHour   int     `json:"typical_checkout_hour"`
	TypicalDurationHours  float64 `json:"typical_duration_hours"`
	DurationVarianceHours float64 `json:"duration_variance_hours"`

	// Spatial and device baseline.
	TypicalLocations   []LocationCluster `json:"typical_locations,omitempty"`
	TypicalGeofenceIDs []string          `json:"typical_geofence_ids,omitempty"`
	TypicalDeviceIDs   []string          `json:"typical_device_ids,omitempty"`

	// TypicalWorkdays holds ISO weekdays (Monday=1 .. Sunday=7).
	TypicalWorkdays []int `json:"typical_workdays,omitempty"`

	TypicalTransportModes []TransportMode `json:"typical_transport_modes,omitempty"`

	// Per-subject threshold overrides. Zero values mean "use the engine
	// configuration defaults".
	AnomalyScoreThreshold float64 `json:"anomaly_score_threshold,omitempty"`
	AutoBlockThreshold    float64 `json:"auto_block_threshold,omitempty"`

	// Running counters maintained by the caller as assessments come back.
	TotalCheckIns     int64 `json:"total_checkins"`
	AnomaliesDetected int64 `json:"anomalies_detected"`
	FalsePositives    int64 `json:"false_positives"`
}

// RecognizesDevice reports whether the device ID is part of the baseline.
func (p *BehaviorProfile) RecognizesDevice(deviceID string) bool {
	return deviceID != "" && slices.Contains(p.TypicalDeviceIDs, deviceID)
}

// RecognizesGeofence reports whether the geofence ID is part of the baseline.
func (p *BehaviorProfile) RecognizesGeofence(geofenceID string) bool {
	return geofenceID != "" && slices.Contains(p.TypicalGeofenceIDs, geofenceID)
}

// IsTypicalWorkday reports whether the ISO weekday is part of the baseline.
func (p *BehaviorProfile) IsTypicalWorkday(isoWeekday int) bool {
	return slices.Contains(p.TypicalWorkdays, isoWeekday)
}

// IsTypicalTransportMode reports whether the mode is part of the baseline.
func (p *BehaviorProfile) IsTypicalTransportMode(mode TransportMode) bool {
	return slices.Contains(p.TypicalTransportModes, mode)
}

// StaleAfter reports whether the profile has not been retrained within
// maxAge as of now. Stale profiles are retrained wholesale.
func (p *BehaviorProfile) StaleAfter(now time.Time, maxAge time.Duration) bool {
	return now.Sub(p.UpdatedAt) > maxAge
}

// Clone returns a deep copy safe to hand to concurrent readers.
func (p *BehaviorProfile) Clone() *BehaviorProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.TypicalLocations = slices.Clone(p.TypicalLocations)
	cp.TypicalGeofenceIDs = slices.Clone(p.TypicalGeofenceIDs)
	cp.TypicalDeviceIDs = slices.Clone(p.TypicalDeviceIDs)
	cp.TypicalWorkdays = slices.Clone(p.TypicalWorkdays)
	cp.TypicalTransportModes = slices.Clone(p.TypicalTransportModes)
	return &cp
}
