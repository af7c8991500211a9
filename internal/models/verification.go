// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package models

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// The attendance platform historically attached ad hoc verification
// metadata to events as a free-form map. The engine boundary replaces that
// with one fixed-schema struct per concern, decoded strictly: unknown
// fields are rejected instead of silently carried along.

// GPSValidationResult is the platform-side record of a spoofing guard run,
// persisted next to the event it validated.
type GPSValidationResult struct {
	EventID     string    `json:"event_id"`
	IsValid     bool      `json:"is_valid"`
	RiskScore   float64   `json:"risk_score"`
	FindingType string    `json:"finding_type,omitempty"`
	DistanceKm  float64   `json:"distance_km,omitempty"`
	SpeedKmH    float64   `json:"speed_kmh,omitempty"`
	ValidatedAt time.Time `json:"validated_at"`
}

// FaceVerificationResult is the platform's photo verification outcome.
// The engine only transports this value; it performs no image analysis.
type FaceVerificationResult struct {
	EventID    string    `json:"event_id"`
	Matched    bool      `json:"matched"`
	Confidence float64   `json:"confidence"`
	Provider   string    `json:"provider,omitempty"`
	VerifiedAt time.Time `json:"verified_at"`
}

// DecodeStrict unmarshals JSON into v, failing on any field the target
// schema does not declare.
func DecodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("strict decode: %w", err)
	}
	return nil
}
