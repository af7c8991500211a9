// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package spoofing

import (
	"testing"
	"time"

	"github.com/clockguard/trustengine/internal/config"
	"github.com/clockguard/trustengine/internal/models"
)

var baseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newGuard() *Guard {
	return NewGuard(config.Default().Spoofing)
}

func event(lat, lon, accuracy float64, at time.Time) *models.AttendanceEvent {
	return &models.AttendanceEvent{
		ID:             "evt-1",
		SubjectID:      "subj-1",
		CheckInAt:      at,
		StartLatitude:  lat,
		StartLongitude: lon,
		AccuracyM:      accuracy,
	}
}

func closedEvent(lat, lon, accuracy float64, in, out time.Time) *models.AttendanceEvent {
	e := event(lat, lon, accuracy, in)
	e.CheckOutAt = &out
	return e
}

func hasFinding(findings []models.AnomalyFinding, t models.FindingType) *models.AnomalyFinding {
	for i := range findings {
		if findings[i].Type == t {
			return &findings[i]
		}
	}
	return nil
}

func TestValidateNullIsland(t *testing.T) {
	g := newGuard()

	tests := []struct {
		name     string
		lat, lon float64
	}{
		{name: "exact origin", lat: 0, lon: 0},
		{name: "near origin", lat: 0.0004, lon: -0.0006},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Validate(event(tt.lat, tt.lon, 10, baseTime), nil, models.TransportModeWalking)
			if res.IsValid {
				t.Error("null island event marked valid")
			}
			if res.RiskScore != 1.0 {
				t.Errorf("risk score = %v, want 1.0", res.RiskScore)
			}
			f := hasFinding(res.Findings, models.FindingNullIsland)
			if f == nil {
				t.Fatal("missing null_island finding")
			}
			if f.Severity != models.SeverityCritical {
				t.Errorf("severity = %v, want critical", f.Severity)
			}
		})
	}
}

func TestValidateOutOfBounds(t *testing.T) {
	g := newGuard()

	res := g.Validate(event(95, 13.4, 10, baseTime), nil, models.TransportModeWalking)
	if res.IsValid {
		t.Error("out-of-bounds event marked valid")
	}
	f := hasFinding(res.Findings, models.FindingInvalidCoordinates)
	if f == nil {
		t.Fatal("missing invalid_coordinates finding")
	}
	if f.Severity != models.SeverityCritical {
		t.Errorf("severity = %v, want critical", f.Severity)
	}
}

func TestValidateCleanEvent(t *testing.T) {
	g := newGuard()

	res := g.Validate(event(52.52, 13.405, 15, baseTime), nil, models.TransportModeWalking)
	if !res.IsValid {
		t.Errorf("clean event marked invalid: %+v", res.Findings)
	}
	if res.RiskScore != 0 {
		t.Errorf("risk score = %v, want 0", res.RiskScore)
	}
	if len(res.Findings) != 0 {
		t.Errorf("findings = %v, want none", res.Findings)
	}
}

func TestValidateImpossibleTravel(t *testing.T) {
	g := newGuard()

	newYork := closedEvent(40.7128, -74.0060, 10, baseTime.Add(-3*time.Hour), baseTime.Add(-2*time.Hour))

	tests := []struct {
		name         string
		eventTime    time.Time
		mode         models.TransportMode
		wantFinding  bool
		wantSeverity models.Severity
		wantValid    bool
	}{
		{
			// ~3944 km in 2h is ~1972 km/h, over twice the aircraft ceiling.
			name:         "faster than aircraft",
			eventTime:    baseTime,
			mode:         models.TransportModeAircraft,
			wantFinding:  true,
			wantSeverity: models.SeverityCritical,
			wantValid:    false,
		},
		{
			// ~3944 km in 5h is ~789 km/h, plausible by air.
			name:      "plausible flight",
			eventTime: baseTime.Add(3 * time.Hour),
			mode:      models.TransportModeAircraft,
			wantValid: true,
		},
		{
			// Same trip declared by vehicle: over twice the 130 km/h ceiling.
			name:         "vehicle cannot cross the continent",
			eventTime:    baseTime.Add(3 * time.Hour),
			mode:         models.TransportModeVehicle,
			wantFinding:  true,
			wantSeverity: models.SeverityCritical,
			wantValid:    false,
		},
		{
			// Unknown mode falls back to the walking ceiling.
			name:         "unknown mode uses walking ceiling",
			eventTime:    baseTime.Add(3 * time.Hour),
			mode:         models.TransportModeUnknown,
			wantFinding:  true,
			wantSeverity: models.SeverityCritical,
			wantValid:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			losAngeles := event(34.0522, -118.2437, 10, tt.eventTime)
			res := g.Validate(losAngeles, newYork, tt.mode)

			f := hasFinding(res.Findings, models.FindingImpossibleTravel)
			if tt.wantFinding {
				if f == nil {
					t.Fatal("missing impossible_travel finding")
				}
				if f.Severity != tt.wantSeverity {
					t.Errorf("severity = %v, want %v", f.Severity, tt.wantSeverity)
				}
				if len(f.Metadata) == 0 {
					t.Error("impossible_travel finding has no metadata")
				}
			} else if f != nil {
				t.Errorf("unexpected impossible_travel finding: %+v", f)
			}

			if res.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v", res.IsValid, tt.wantValid)
			}
		})
	}
}

func TestValidateVelocityEdgeCases(t *testing.T) {
	g := newGuard()

	t.Run("previous at null island is ignored", func(t *testing.T) {
		prev := event(0, 0, 10, baseTime.Add(-time.Hour))
		res := g.Validate(event(52.52, 13.405, 10, baseTime), prev, models.TransportModeWalking)
		if hasFinding(res.Findings, models.FindingImpossibleTravel) != nil {
			t.Error("velocity check ran against an untrustworthy origin")
		}
	})

	t.Run("out of order events are ignored", func(t *testing.T) {
		prev := event(40.7128, -74.0060, 10, baseTime.Add(time.Hour))
		res := g.Validate(event(34.0522, -118.2437, 10, baseTime), prev, models.TransportModeWalking)
		if hasFinding(res.Findings, models.FindingImpossibleTravel) != nil {
			t.Error("velocity check ran on out-of-order events")
		}
	})

	t.Run("simultaneous distant events are impossible", func(t *testing.T) {
		prev := event(40.7128, -74.0060, 10, baseTime)
		res := g.Validate(event(34.0522, -118.2437, 10, baseTime), prev, models.TransportModeAircraft)
		f := hasFinding(res.Findings, models.FindingImpossibleTravel)
		if f == nil {
			t.Fatal("missing impossible_travel finding for zero elapsed time")
		}
		if f.Severity != models.SeverityCritical {
			t.Errorf("severity = %v, want critical", f.Severity)
		}
	})
}

func TestValidateAccuracyChecks(t *testing.T) {
	g := newGuard()

	t.Run("low accuracy accumulates risk but stays valid", func(t *testing.T) {
		res := g.Validate(event(52.52, 13.405, 150, baseTime), nil, models.TransportModeWalking)
		f := hasFinding(res.Findings, models.FindingLowAccuracy)
		if f == nil {
			t.Fatal("missing low_gps_accuracy finding")
		}
		if f.Severity != models.SeverityMedium {
			t.Errorf("severity = %v, want medium", f.Severity)
		}
		if !res.IsValid {
			t.Error("low accuracy alone should not invalidate the event")
		}
		if res.RiskScore != 0.3 {
			t.Errorf("risk score = %v, want 0.3", res.RiskScore)
		}
	})

	t.Run("accuracy jump between events", func(t *testing.T) {
		prev := closedEvent(52.52, 13.405, 8, baseTime.Add(-9*time.Hour), baseTime.Add(-time.Hour))
		res := g.Validate(event(52.5201, 13.4051, 90, baseTime), prev, models.TransportModeWalking)
		f := hasFinding(res.Findings, models.FindingAccuracyJump)
		if f == nil {
			t.Fatal("missing accuracy_jump finding")
		}
		if f.Severity != models.SeverityHigh {
			t.Errorf("severity = %v, want high", f.Severity)
		}
	})

	t.Run("accumulated risk reaches the invalid threshold", func(t *testing.T) {
		// Low accuracy (0.3) plus accuracy jump (0.5) meets the 0.8
		// threshold without any critical finding.
		prev := closedEvent(52.52, 13.405, 8, baseTime.Add(-9*time.Hour), baseTime.Add(-time.Hour))
		res := g.Validate(event(52.5201, 13.4051, 150, baseTime), prev, models.TransportModeWalking)
		if res.IsValid {
			t.Errorf("risk %v should invalidate the event", res.RiskScore)
		}
		if res.RiskScore < 0.8 {
			t.Errorf("risk score = %v, want >= 0.8", res.RiskScore)
		}
	})
}

func TestConfigureRejectsInvalid(t *testing.T) {
	g := newGuard()

	bad := config.Default().Spoofing
	bad.SpeedCeilingsKmH = nil
	if err := g.Configure(bad); err == nil {
		t.Error("Configure() accepted an empty ceiling table")
	}

	good := config.Default().Spoofing
	good.MaxAccuracyM = 50
	if err := g.Configure(good); err != nil {
		t.Errorf("Configure() rejected a valid configuration: %v", err)
	}
	res := g.Validate(event(52.52, 13.405, 60, baseTime), nil, models.TransportModeWalking)
	if hasFinding(res.Findings, models.FindingLowAccuracy) == nil {
		t.Error("reconfigured accuracy limit not applied")
	}
}
