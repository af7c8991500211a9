// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package models

import "github.com/goccy/go-json"

// Severity grades an individual anomaly finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRank orders severities for comparisons.
var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// FindingType is the closed set of anomaly finding kinds the engine emits.
type FindingType string

const (
	// Spoofing guard findings.
	FindingNullIsland         FindingType = "null_island"
	FindingInvalidCoordinates FindingType = "invalid_coordinates"
	FindingLowAccuracy        FindingType = "low_gps_accuracy"
	FindingImpossibleTravel   FindingType = "impossible_travel"
	FindingAccuracyJump       FindingType = "accuracy_jump"

	// Temporal findings.
	FindingUnusualHour      FindingType = "unusual_hour"
	FindingInsufficientRest FindingType = "insufficient_rest"
	FindingExcessiveShift   FindingType = "excessive_shift"
	FindingAtypicalWeekend  FindingType = "atypical_weekend"

	// Location findings.
	FindingOutsideGeofence FindingType = "outside_geofence"
	FindingGeofenceUnknown FindingType = "geofence_unknown"

	// Device findings.
	FindingDeviceSharing   FindingType = "device_sharing"
	FindingRapidSwitching  FindingType = "rapid_device_switching"
	FindingExcessiveDevice FindingType = "excessive_device_count"

	// Behavioral findings.
	FindingAtypicalHour      FindingType = "atypical_checkin_hour"
	FindingAtypicalLocation  FindingType = "atypical_location"
	FindingUnknownDevice     FindingType = "unrecognized_device"
	FindingAtypicalWeekday   FindingType = "atypical_weekday"
	FindingAtypicalTransport FindingType = "atypical_transport_mode"
	FindingNoBaseline        FindingType = "no_baseline"

	// Orchestrator finding emitted when a detector had to be skipped.
	FindingDetectorUnavailable FindingType = "detector_unavailable"
)

// AnomalyFinding is a single anomaly signal contributing to an assessment.
type AnomalyFinding struct {
	Type        FindingType     `json:"type"`
	Severity    Severity        `json:"severity"`
	Description string          `json:"description"`
	Score       float64         `json:"score"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}
