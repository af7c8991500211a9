// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package detection

import (
	"context"
	"time"

	"github.com/clockguard/trustengine/internal/models"
)

// DetectorType identifies a fraud detector and keys its composite weight.
type DetectorType string

const (
	DetectorTemporal   DetectorType = "temporal"
	DetectorLocation   DetectorType = "location"
	DetectorDevice     DetectorType = "device"
	DetectorBehavioral DetectorType = "behavioral"
)

// Input carries everything a detector may need for one event. The engine
// never fetches data itself; the caller resolves the previous event, the
// profile snapshot, and the device activity view before calling Assess.
type Input struct {
	Event *models.AttendanceEvent

	// Previous is the subject's most recent event before Event, nil when
	// none exists.
	Previous *models.AttendanceEvent

	// Profile is the subject's baseline profile, nil or insufficient when
	// the subject is still in the learning period.
	Profile *models.BehaviorProfile

	// Devices answers cross-subject device usage queries. Nil disables
	// device correlation checks.
	Devices DeviceActivity
}

// Result is one detector's verdict: a sub-score in [0,1] plus the findings
// behind it.
type Result struct {
	Score    float64
	Findings []models.AnomalyFinding
}

// add appends a finding and accumulates its score.
func (r *Result) add(f models.AnomalyFinding) {
	r.Findings = append(r.Findings, f)
	r.Score += f.Score
}

// cap clamps the accumulated score to [0,1].
func (r *Result) cap() {
	if r.Score > 1 {
		r.Score = 1
	}
	if r.Score < 0 {
		r.Score = 0
	}
}

// Detector analyzes one dimension of an attendance event.
type Detector interface {
	Type() DetectorType
	Detect(ctx context.Context, in *Input) (*Result, error)
}

// DeviceActivity is the caller-supplied read view over recent device usage
// across subjects. The engine holds no event history of its own.
type DeviceActivity interface {
	// SubjectsUsingDevice returns the distinct subject IDs other than
	// excludeSubjectID that checked in with deviceID inside [from, to].
	SubjectsUsingDevice(ctx context.Context, deviceID, excludeSubjectID string, from, to time.Time) ([]string, error)

	// RecentDeviceIDs returns the device IDs of subjectID's most recent
	// events strictly before t, newest first, at most limit entries.
	RecentDeviceIDs(ctx context.Context, subjectID string, before time.Time, limit int) ([]string, error)

	// DistinctDeviceCount returns how many distinct devices subjectID used
	// inside [from, to].
	DistinctDeviceCount(ctx context.Context, subjectID string, from, to time.Time) (int, error)
}
