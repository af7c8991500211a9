// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package detection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/clockguard/trustengine/internal/config"
	"github.com/clockguard/trustengine/internal/models"
)

// DeviceDetector correlates device fingerprints across events and subjects:
// buddy punching (one device, several subjects, minutes apart), rapid
// device switching, and an implausible device count over a trailing window.
type DeviceDetector struct {
	mu     sync.RWMutex
	config config.DeviceConfig
}

// sharingMetadata is attached to device-sharing findings.
type sharingMetadata struct {
	DeviceID      string   `json:"device_id"`
	OtherSubjects []string `json:"other_subjects"`
	WindowMinutes float64  `json:"window_minutes"`
}

// NewDeviceDetector creates a DeviceDetector with the given configuration.
func NewDeviceDetector(cfg config.DeviceConfig) *DeviceDetector {
	return &DeviceDetector{config: cfg}
}

// Type returns DetectorDevice.
func (d *DeviceDetector) Type() DetectorType {
	return DetectorDevice
}

// Configure replaces the detector configuration.
func (d *DeviceDetector) Configure(cfg config.DeviceConfig) {
	d.mu.Lock()
	d.config = cfg
	d.mu.Unlock()
}

// Detect runs the device correlation checks. Without a DeviceActivity view
// or a device fingerprint on the event there is nothing to correlate and
// the detector scores neutral.
//
// A failing lookup never discards what the other checks already found: all
// checks run, and the partial result is returned alongside the joined
// error so a confirmed sharing hit survives a flaky history store.
func (d *DeviceDetector) Detect(ctx context.Context, in *Input) (*Result, error) {
	d.mu.RLock()
	cfg := d.config
	d.mu.RUnlock()

	event := in.Event
	result := &Result{}

	if in.Devices == nil || event.DeviceID == "" {
		return result, nil
	}

	var errs []error
	if err := d.checkSharing(ctx, cfg, in, result); err != nil {
		errs = append(errs, err)
	}
	if err := d.checkRapidSwitching(ctx, cfg, in, result); err != nil {
		errs = append(errs, err)
	}
	if err := d.checkExcessiveDevices(ctx, cfg, in, result); err != nil {
		errs = append(errs, err)
	}

	result.cap()
	return result, errors.Join(errs...)
}

// checkSharing flags the same device checking in for different subjects
// within the sharing window. That is the signature of buddy punching: one
// phone passed around to clock colleagues in.
func (d *DeviceDetector) checkSharing(ctx context.Context, cfg config.DeviceConfig, in *Input, result *Result) error {
	event := in.Event
	from := event.CheckInAt.Add(-cfg.SharingWindow)
	to := event.CheckInAt.Add(cfg.SharingWindow)

	others, err := in.Devices.SubjectsUsingDevice(ctx, event.DeviceID, event.SubjectID, from, to)
	if err != nil {
		return fmt.Errorf("device sharing lookup: %w", err)
	}
	if len(others) == 0 {
		return nil
	}

	metadata, _ := json.Marshal(sharingMetadata{
		DeviceID:      event.DeviceID,
		OtherSubjects: others,
		WindowMinutes: cfg.SharingWindow.Minutes(),
	})

	result.add(models.AnomalyFinding{
		Type:     models.FindingDeviceSharing,
		Severity: models.SeverityCritical,
		Description: fmt.Sprintf("device used by %d other subject(s) within %.0f minutes of this check-in",
			len(others), cfg.SharingWindow.Minutes()),
		Score:    cfg.SharingScore,
		Metadata: metadata,
	})
	return nil
}

// checkRapidSwitching flags a subject cycling through devices: at least the
// configured number of distinct devices among their last few events.
func (d *DeviceDetector) checkRapidSwitching(ctx context.Context, cfg config.DeviceConfig, in *Input, result *Result) error {
	event := in.Event

	recent, err := in.Devices.RecentDeviceIDs(ctx, event.SubjectID, event.CheckInAt, cfg.RapidSwitchEvents-1)
	if err != nil {
		return fmt.Errorf("recent device lookup: %w", err)
	}

	distinct := map[string]struct{}{event.DeviceID: {}}
	for _, id := range recent {
		if id != "" {
			distinct[id] = struct{}{}
		}
	}

	if len(distinct) >= cfg.RapidSwitchDistinct {
		result.add(models.AnomalyFinding{
			Type:     models.FindingRapidSwitching,
			Severity: models.SeverityMedium,
			Description: fmt.Sprintf("%d distinct devices across the last %d events",
				len(distinct), cfg.RapidSwitchEvents),
			Score: cfg.RapidSwitchScore,
		})
	}
	return nil
}

// checkExcessiveDevices flags more distinct devices over the trailing
// window than a single person plausibly carries.
func (d *DeviceDetector) checkExcessiveDevices(ctx context.Context, cfg config.DeviceConfig, in *Input, result *Result) error {
	event := in.Event
	from := event.CheckInAt.Add(-cfg.TrailingWindow)

	count, err := in.Devices.DistinctDeviceCount(ctx, event.SubjectID, from, event.CheckInAt)
	if err != nil {
		return fmt.Errorf("distinct device count: %w", err)
	}

	if count > cfg.MaxTrailingDevices {
		result.add(models.AnomalyFinding{
			Type:     models.FindingExcessiveDevice,
			Severity: models.SeverityLow,
			Description: fmt.Sprintf("%d distinct devices in the last %s, %d allowed",
				count, formatWindow(cfg.TrailingWindow), cfg.MaxTrailingDevices),
			Score: cfg.ExcessiveDeviceScore,
		})
	}
	return nil
}

func formatWindow(d time.Duration) string {
	if days := int(d.Hours() / 24); days >= 1 {
		return fmt.Sprintf("%d days", days)
	}
	return d.String()
}
