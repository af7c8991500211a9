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
)

// TemporalDetector checks the work-schedule plausibility of an event:
// night-window check-ins, rest between shifts, shift length, and weekend
// work for subjects who never work weekends.
type TemporalDetector struct {
	mu     sync.RWMutex
	config config.TemporalConfig
}

// NewTemporalDetector creates a TemporalDetector with the given configuration.
func NewTemporalDetector(cfg config.TemporalConfig) *TemporalDetector {
	return &TemporalDetector{config: cfg}
}

// Type returns DetectorTemporal.
func (d *TemporalDetector) Type() DetectorType {
	return DetectorTemporal
}

// Configure replaces the detector configuration.
func (d *TemporalDetector) Configure(cfg config.TemporalConfig) {
	d.mu.Lock()
	d.config = cfg
	d.mu.Unlock()
}

// Detect runs the temporal checks. All checks are independent; findings
// accumulate and the sub-score is their capped sum.
func (d *TemporalDetector) Detect(_ context.Context, in *Input) (*Result, error) {
	d.mu.RLock()
	cfg := d.config
	d.mu.RUnlock()

	event := in.Event
	result := &Result{}

	// Check-in inside the night window. The window wraps midnight: at or
	// after the start hour, or before the end hour.
	hour := event.CheckInAt.Hour()
	if hour >= cfg.NightStartHour || hour < cfg.NightEndHour {
		result.add(models.AnomalyFinding{
			Type:     models.FindingUnusualHour,
			Severity: models.SeverityMedium,
			Description: fmt.Sprintf("check-in at %02d:%02d falls inside the %02d:00-%02d:00 night window",
				hour, event.CheckInAt.Minute(), cfg.NightStartHour, cfg.NightEndHour),
			Score: cfg.UnusualHourScore,
		})
	}

	// Rest since the previous closed shift.
	if in.Previous != nil && in.Previous.HasCheckOut() {
		rest := event.CheckInAt.Sub(*in.Previous.CheckOutAt).Hours()
		if rest >= 0 && rest < cfg.MinRestHours {
			result.add(models.AnomalyFinding{
				Type:     models.FindingInsufficientRest,
				Severity: models.SeverityHigh,
				Description: fmt.Sprintf("only %.1f hours of rest since the previous shift, %.0f required",
					rest, cfg.MinRestHours),
				Score: cfg.InsufficientRestScore,
			})
		}
	}

	// Shift length, from the event's own timestamps when closed, else from
	// the platform-computed duration.
	duration := event.DurationHours
	if event.HasCheckOut() {
		duration = event.CheckOutAt.Sub(event.CheckInAt).Hours()
	}
	if duration > cfg.MaxShiftHours {
		result.add(models.AnomalyFinding{
			Type:     models.FindingExcessiveShift,
			Severity: models.SeverityHigh,
			Description: fmt.Sprintf("shift of %.1f hours exceeds the %.0f hour maximum",
				duration, cfg.MaxShiftHours),
			Score: cfg.ExcessiveShiftScore,
		})
	}

	// Weekend work is only anomalous for subjects whose baseline has no
	// weekend day at all. A Saturday regular checking in on a Sunday is a
	// weekend worker, not an anomaly.
	if event.IsWeekend() && in.Profile != nil && in.Profile.IsSufficient &&
		!in.Profile.IsTypicalWorkday(6) && !in.Profile.IsTypicalWorkday(7) {
		result.add(models.AnomalyFinding{
			Type:        models.FindingAtypicalWeekend,
			Severity:    models.SeverityLow,
			Description: "weekend check-in for a subject who does not normally work weekends",
			Score:       cfg.AtypicalWeekendScore,
		})
	}

	result.cap()
	return result, nil
}
