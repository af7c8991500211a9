// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package config

import (
	"fmt"
	"math"
)

// weightSumTolerance allows for float rounding in user-supplied weights.
const weightSumTolerance = 1e-6

// Validate checks cross-field consistency of the configuration. It returns
// the first problem found.
func (c *Config) Validate() error {
	if err := c.Weights.validate(); err != nil {
		return err
	}
	if err := c.Risk.validate(); err != nil {
		return err
	}
	if err := c.Spoofing.validate(); err != nil {
		return err
	}
	if err := c.Baseline.validate(); err != nil {
		return err
	}
	if c.Temporal.NightStartHour < 0 || c.Temporal.NightStartHour > 23 {
		return fmt.Errorf("temporal.night_start_hour must be in [0,23], got %d", c.Temporal.NightStartHour)
	}
	if c.Temporal.NightEndHour < 0 || c.Temporal.NightEndHour > 23 {
		return fmt.Errorf("temporal.night_end_hour must be in [0,23], got %d", c.Temporal.NightEndHour)
	}
	if c.Device.RapidSwitchEvents < c.Device.RapidSwitchDistinct {
		return fmt.Errorf("device.rapid_switch_events (%d) must be >= device.rapid_switch_distinct (%d)",
			c.Device.RapidSwitchEvents, c.Device.RapidSwitchDistinct)
	}
	if c.Geo.GeometryCacheSize < 0 {
		return fmt.Errorf("geo.geometry_cache_size must not be negative, got %d", c.Geo.GeometryCacheSize)
	}
	return nil
}

func (w *WeightsConfig) validate() error {
	for name, v := range map[string]float64{
		"weights.behavioral": w.Behavioral,
		"weights.temporal":   w.Temporal,
		"weights.location":   w.Location,
		"weights.device":     w.Device,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, v)
		}
	}
	sum := w.Behavioral + w.Temporal + w.Location + w.Device
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("detector weights must sum to 1.0, got %v", sum)
	}
	return nil
}

func (r *RiskConfig) validate() error {
	thresholds := []struct {
		name  string
		value float64
	}{
		{"risk.low_threshold", r.LowThreshold},
		{"risk.medium_threshold", r.MediumThreshold},
		{"risk.high_threshold", r.HighThreshold},
		{"risk.critical_threshold", r.CriticalThreshold},
	}
	prev := 0.0
	for _, t := range thresholds {
		if t.value <= 0 || t.value > 1 {
			return fmt.Errorf("%s must be in (0,1], got %v", t.name, t.value)
		}
		if t.value <= prev {
			return fmt.Errorf("risk thresholds must be strictly increasing, %s=%v breaks the order", t.name, t.value)
		}
		prev = t.value
	}
	if r.AutoBlockThreshold <= 0 || r.AutoBlockThreshold > 1 {
		return fmt.Errorf("risk.auto_block_threshold must be in (0,1], got %v", r.AutoBlockThreshold)
	}
	return nil
}

func (s *SpoofingConfig) validate() error {
	if s.MaxAccuracyM <= 0 {
		return fmt.Errorf("spoofing.max_accuracy_m must be positive, got %v", s.MaxAccuracyM)
	}
	if s.SpeedToleranceFactor < 1 {
		return fmt.Errorf("spoofing.speed_tolerance_factor must be >= 1, got %v", s.SpeedToleranceFactor)
	}
	if s.CriticalSpeedFactor < 1 {
		return fmt.Errorf("spoofing.critical_speed_factor must be >= 1, got %v", s.CriticalSpeedFactor)
	}
	if len(s.SpeedCeilingsKmH) == 0 {
		return fmt.Errorf("spoofing.speed_ceilings_kmh must not be empty")
	}
	for mode, ceiling := range s.SpeedCeilingsKmH {
		if ceiling <= 0 {
			return fmt.Errorf("spoofing.speed_ceilings_kmh[%s] must be positive, got %v", mode, ceiling)
		}
	}
	if s.InvalidRiskThreshold <= 0 || s.InvalidRiskThreshold > 1 {
		return fmt.Errorf("spoofing.invalid_risk_threshold must be in (0,1], got %v", s.InvalidRiskThreshold)
	}
	return nil
}

func (b *BaselineConfig) validate() error {
	if b.MinTrainingRecords < 1 {
		return fmt.Errorf("baseline.min_training_records must be >= 1, got %d", b.MinTrainingRecords)
	}
	if b.LookbackDays < 1 {
		return fmt.Errorf("baseline.lookback_days must be >= 1, got %d", b.LookbackDays)
	}
	if b.EMAAlpha <= 0 || b.EMAAlpha >= 1 {
		return fmt.Errorf("baseline.ema_alpha must be in (0,1), got %v", b.EMAAlpha)
	}
	if b.ClusterRadiusKm <= 0 {
		return fmt.Errorf("baseline.cluster_radius_km must be positive, got %v", b.ClusterRadiusKm)
	}
	if b.WeekdayCoverage < 0 || b.WeekdayCoverage > 1 {
		return fmt.Errorf("baseline.weekday_coverage must be in [0,1], got %v", b.WeekdayCoverage)
	}
	if b.TransportCoverage < 0 || b.TransportCoverage > 1 {
		return fmt.Errorf("baseline.transport_coverage must be in [0,1], got %v", b.TransportCoverage)
	}
	return nil
}
