// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package detection

import (
	"context"
	"fmt"
	"sync"

	"github.com/clockguard/trustengine/internal/config"
	"github.com/clockguard/trustengine/internal/models"
	"github.com/clockguard/trustengine/internal/spoofing"
)

// LocationDetector scores the spatial trustworthiness of an event: GPS
// physics through the spoofing guard, plus the platform's geofence
// containment verdict.
type LocationDetector struct {
	mu     sync.RWMutex
	config config.LocationConfig
	guard  *spoofing.Guard
}

// NewLocationDetector creates a LocationDetector around a spoofing guard.
func NewLocationDetector(cfg config.LocationConfig, guard *spoofing.Guard) *LocationDetector {
	return &LocationDetector{config: cfg, guard: guard}
}

// Type returns DetectorLocation.
func (d *LocationDetector) Type() DetectorType {
	return DetectorLocation
}

// Configure replaces the detector configuration. The spoofing guard is
// configured separately.
func (d *LocationDetector) Configure(cfg config.LocationConfig) {
	d.mu.Lock()
	d.config = cfg
	d.mu.Unlock()
}

// Detect validates GPS physics first, then layers the geofence verdict on
// top. A geofence that could not be resolved scores as low-severity
// information, never as a violation.
func (d *LocationDetector) Detect(_ context.Context, in *Input) (*Result, error) {
	d.mu.RLock()
	cfg := d.config
	d.mu.RUnlock()

	event := in.Event

	guardResult := d.guard.Validate(event, in.Previous, event.TransportMode())
	result := &Result{
		Score:    guardResult.RiskScore,
		Findings: guardResult.Findings,
	}

	switch event.GeofenceStatus {
	case models.GeofenceStatusOutside:
		result.add(models.AnomalyFinding{
			Type:     models.FindingOutsideGeofence,
			Severity: models.SeverityHigh,
			Description: fmt.Sprintf("check-in outside the authorized geofence %q",
				event.GeofenceID),
			Score: cfg.OutsideGeofenceScore,
		})
	case models.GeofenceStatusUnknown:
		result.add(models.AnomalyFinding{
			Type:        models.FindingGeofenceUnknown,
			Severity:    models.SeverityLow,
			Description: "geofence containment could not be determined for this event",
			Score:       cfg.UnknownGeofenceScore,
		})
	}

	result.cap()
	return result, nil
}
