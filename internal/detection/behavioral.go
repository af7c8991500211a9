// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package detection

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/clockguard/trustengine/internal/config"
	"github.com/clockguard/trustengine/internal/geo"
	"github.com/clockguard/trustengine/internal/models"
)

// BehavioralDetector scores how far an event deviates from the subject's
// learned baseline: check-in time, location, device, weekday, and transport
// mode. Without a sufficient baseline it scores neutral; a new hire is not
// an anomaly.
type BehavioralDetector struct {
	mu     sync.RWMutex
	config config.BehavioralConfig
}

// NewBehavioralDetector creates a BehavioralDetector with the given
// configuration.
func NewBehavioralDetector(cfg config.BehavioralConfig) *BehavioralDetector {
	return &BehavioralDetector{config: cfg}
}

// Type returns DetectorBehavioral.
func (d *BehavioralDetector) Type() DetectorType {
	return DetectorBehavioral
}

// Configure replaces the detector configuration.
func (d *BehavioralDetector) Configure(cfg config.BehavioralConfig) {
	d.mu.Lock()
	d.config = cfg
	d.mu.Unlock()
}

// Detect compares the event against the baseline. Each deviation
// contributes its configured weight; the sub-score is the capped sum.
// Signals the baseline never learned (no clusters, no workdays) are
// skipped rather than treated as deviations.
func (d *BehavioralDetector) Detect(_ context.Context, in *Input) (*Result, error) {
	d.mu.RLock()
	cfg := d.config
	d.mu.RUnlock()

	result := &Result{}
	profile := in.Profile

	if profile == nil || !profile.IsSufficient {
		result.Findings = append(result.Findings, models.AnomalyFinding{
			Type:        models.FindingNoBaseline,
			Severity:    models.SeverityLow,
			Description: "no sufficient baseline profile; behavioral checks skipped",
			Score:       0,
		})
		return result, nil
	}

	event := in.Event

	// Check-in time, as circular distance on the 24-hour clock so a 23:30
	// check-in is half an hour from a 00:00 baseline, not 23.5 hours.
	eventTime := float64(event.CheckInAt.Hour()) + float64(event.CheckInAt.Minute())/60
	typical := float64(profile.TypicalCheckInHour) + float64(profile.TypicalCheckInMinute)/60
	deviation := math.Abs(eventTime - typical)
	if deviation > 12 {
		deviation = 24 - deviation
	}
	if deviation > cfg.HourDeviationHours {
		result.add(models.AnomalyFinding{
			Type:     models.FindingAtypicalHour,
			Severity: models.SeverityMedium,
			Description: fmt.Sprintf("check-in %.1f hours from the typical %02d:%02d",
				deviation, profile.TypicalCheckInHour, profile.TypicalCheckInMinute),
			Score: cfg.HourWeight,
		})
	}

	// Location against the learned clusters.
	if len(profile.TypicalLocations) > 0 {
		point := geo.Coordinate{Lat: event.StartLatitude, Lon: event.StartLongitude}
		nearest := math.Inf(1)
		for _, c := range profile.TypicalLocations {
			dist := geo.DistanceKm(geo.Coordinate{Lat: c.Latitude, Lon: c.Longitude}, point)
			if dist < nearest {
				nearest = dist
			}
		}
		if nearest > cfg.LocationRadiusKm {
			result.add(models.AnomalyFinding{
				Type:     models.FindingAtypicalLocation,
				Severity: models.SeverityMedium,
				Description: fmt.Sprintf("check-in %.1f km from the nearest typical location",
					nearest),
				Score: cfg.LocationWeight,
			})
		}
	}

	// Device recognition.
	if event.DeviceID != "" && !profile.RecognizesDevice(event.DeviceID) {
		result.add(models.AnomalyFinding{
			Type:        models.FindingUnknownDevice,
			Severity:    models.SeverityMedium,
			Description: "check-in from a device not in the subject's baseline",
			Score:       cfg.DeviceWeight,
		})
	}

	// Weekday coverage.
	if len(profile.TypicalWorkdays) > 0 && !profile.IsTypicalWorkday(event.ISOWeekday()) {
		result.add(models.AnomalyFinding{
			Type:     models.FindingAtypicalWeekday,
			Severity: models.SeverityLow,
			Description: fmt.Sprintf("check-in on %s, outside the subject's usual workdays",
				event.CheckInAt.Weekday()),
			Score: cfg.WeekdayWeight,
		})
	}

	// Transport mode.
	if mode := event.TransportMode(); len(profile.TypicalTransportModes) > 0 &&
		mode != models.TransportModeUnknown && mode != models.TransportModeNone &&
		!profile.IsTypicalTransportMode(mode) {
		result.add(models.AnomalyFinding{
			Type:        models.FindingAtypicalTransport,
			Severity:    models.SeverityLow,
			Description: fmt.Sprintf("declared transport mode %q is not typical for this subject", mode),
			Score:       cfg.TransportWeight,
		})
	}

	result.cap()
	return result, nil
}
