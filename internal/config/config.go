// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

// Package config defines the engine configuration and loads it with Koanf
// v2 from layered sources: built-in defaults, an optional YAML file, and
// environment variables (highest priority).
//
// Every threshold, weight, radius, speed ceiling, and time window the
// detectors use lives here. The values shipped as defaults are the
// engine's documented behavior; deployments and tenants override them, the
// engine never hard-codes them.
package config

import "time"

// Config is the root engine configuration.
type Config struct {
	Engine     EngineConfig     `koanf:"engine"`
	Weights    WeightsConfig    `koanf:"weights"`
	Risk       RiskConfig       `koanf:"risk"`
	Spoofing   SpoofingConfig   `koanf:"spoofing"`
	Temporal   TemporalConfig   `koanf:"temporal"`
	Location   LocationConfig   `koanf:"location"`
	Device     DeviceConfig     `koanf:"device"`
	Behavioral BehavioralConfig `koanf:"behavioral"`
	Baseline   BaselineConfig   `koanf:"baseline"`
	Geo        GeoConfig        `koanf:"geo"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// EngineConfig configures the orchestrator.
type EngineConfig struct {
	// Concurrent runs the four detectors in parallel. Results are
	// identical either way; sequential is useful when debugging.
	Concurrent bool `koanf:"concurrent"`

	// Breaker settings isolate a detector that keeps failing internally.
	BreakerEnabled     bool          `koanf:"breaker_enabled"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
}

// WeightsConfig holds the composite score weights. They must sum to 1.0.
type WeightsConfig struct {
	Behavioral float64 `koanf:"behavioral"`
	Temporal   float64 `koanf:"temporal"`
	Location   float64 `koanf:"location"`
	Device     float64 `koanf:"device"`
}

// RiskConfig maps composite scores to risk levels and the block decision.
type RiskConfig struct {
	CriticalThreshold float64 `koanf:"critical_threshold"`
	HighThreshold     float64 `koanf:"high_threshold"`
	MediumThreshold   float64 `koanf:"medium_threshold"`
	LowThreshold      float64 `koanf:"low_threshold"`

	// AutoBlockThreshold is the composite score at which ShouldBlock
	// flips, unless the subject's profile carries its own override.
	AutoBlockThreshold float64 `koanf:"auto_block_threshold"`

	// CriticalEscalation forces the risk level to critical and blocks the
	// event whenever any single finding is critical, regardless of the
	// weighted composite. Disable it to let the composite arithmetic alone
	// decide both.
	CriticalEscalation bool `koanf:"critical_escalation"`
}

// SpoofingConfig configures physics-based GPS validation.
type SpoofingConfig struct {
	// MaxAccuracyM is the worst acceptable reported GPS accuracy radius.
	MaxAccuracyM       float64 `koanf:"max_accuracy_m"`
	AccuracyRiskScore  float64 `koanf:"accuracy_risk_score"`
	AccuracyJumpM      float64 `koanf:"accuracy_jump_m"`
	AccuracyJumpScore  float64 `koanf:"accuracy_jump_score"`
	VelocityRiskScore  float64 `koanf:"velocity_risk_score"`

	// SpeedToleranceFactor stretches each ceiling before flagging (1.2 =
	// 20% margin for GPS noise and ceiling optimism).
	SpeedToleranceFactor float64 `koanf:"speed_tolerance_factor"`

	// CriticalSpeedFactor escalates severity to critical when required
	// speed reaches this multiple of the ceiling.
	CriticalSpeedFactor float64 `koanf:"critical_speed_factor"`

	// SpeedCeilingsKmH maps transport mode to a plausible top speed.
	SpeedCeilingsKmH map[string]float64 `koanf:"speed_ceilings_kmh"`

	// InvalidRiskThreshold: aggregated risk at or above this marks the
	// event invalid even without a critical finding.
	InvalidRiskThreshold float64 `koanf:"invalid_risk_threshold"`
}

// TemporalConfig configures work-schedule checks.
type TemporalConfig struct {
	// Night window: check-ins at or after NightStartHour or before
	// NightEndHour are unusual.
	NightStartHour int `koanf:"night_start_hour"`
	NightEndHour   int `koanf:"night_end_hour"`

	MinRestHours  float64 `koanf:"min_rest_hours"`
	MaxShiftHours float64 `koanf:"max_shift_hours"`

	UnusualHourScore      float64 `koanf:"unusual_hour_score"`
	InsufficientRestScore float64 `koanf:"insufficient_rest_score"`
	ExcessiveShiftScore   float64 `koanf:"excessive_shift_score"`
	AtypicalWeekendScore  float64 `koanf:"atypical_weekend_score"`
}

// LocationConfig configures geofence scoring on top of the spoofing guard.
type LocationConfig struct {
	OutsideGeofenceScore float64 `koanf:"outside_geofence_score"`

	// UnknownGeofenceScore is the informational score when containment
	// could not be determined (no fence resolved, malformed geometry).
	UnknownGeofenceScore float64 `koanf:"unknown_geofence_score"`
}

// DeviceConfig configures device fingerprint correlation.
type DeviceConfig struct {
	// SharingWindow: the same device used by a different subject within
	// this window of the event is buddy punching.
	SharingWindow time.Duration `koanf:"sharing_window"`
	SharingScore  float64       `koanf:"sharing_score"`

	// Rapid switching: at least RapidSwitchDistinct distinct devices among
	// the subject's last RapidSwitchEvents events.
	RapidSwitchEvents   int     `koanf:"rapid_switch_events"`
	RapidSwitchDistinct int     `koanf:"rapid_switch_distinct"`
	RapidSwitchScore    float64 `koanf:"rapid_switch_score"`

	// Excessive device count over a trailing window.
	TrailingWindow       time.Duration `koanf:"trailing_window"`
	MaxTrailingDevices   int           `koanf:"max_trailing_devices"`
	ExcessiveDeviceScore float64       `koanf:"excessive_device_score"`
}

// BehavioralConfig configures baseline deviation scoring. The weights are
// the per-signal contributions summed into the behavioral sub-score.
type BehavioralConfig struct {
	HourDeviationHours float64 `koanf:"hour_deviation_hours"`
	LocationRadiusKm   float64 `koanf:"location_radius_km"`

	HourWeight      float64 `koanf:"hour_weight"`
	LocationWeight  float64 `koanf:"location_weight"`
	DeviceWeight    float64 `koanf:"device_weight"`
	WeekdayWeight   float64 `koanf:"weekday_weight"`
	TransportWeight float64 `koanf:"transport_weight"`
}

// BaselineConfig configures profile training.
type BaselineConfig struct {
	MinTrainingRecords int           `koanf:"min_training_records"`
	LookbackDays       int           `koanf:"lookback_days"`
	StaleAfter         time.Duration `koanf:"stale_after"`

	// EMAAlpha is the exponential-moving-average weight applied to the
	// newest observation during incremental updates.
	EMAAlpha float64 `koanf:"ema_alpha"`

	ClusterRadiusKm     float64 `koanf:"cluster_radius_km"`
	MaxLocationClusters int     `koanf:"max_location_clusters"`
	MaxGeofences        int     `koanf:"max_geofences"`
	MaxDevices          int     `koanf:"max_devices"`

	// MinDeviceOccurrences: a device becomes typical after this many
	// sightings in the training window.
	MinDeviceOccurrences int `koanf:"min_device_occurrences"`

	// WeekdayCoverage / TransportCoverage: the share of training events a
	// weekday or transport mode must cover to become typical.
	WeekdayCoverage   float64 `koanf:"weekday_coverage"`
	TransportCoverage float64 `koanf:"transport_coverage"`

	DefaultAnomalyScoreThreshold float64 `koanf:"default_anomaly_score_threshold"`
	DefaultAutoBlockThreshold    float64 `koanf:"default_auto_block_threshold"`
}

// GeoConfig configures the geospatial kernel.
type GeoConfig struct {
	GeometryCacheSize  int     `koanf:"geometry_cache_size"`
	HysteresisBufferKm float64 `koanf:"hysteresis_buffer_km"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns a Config with the engine's documented defaults.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Concurrent:         true,
			BreakerEnabled:     true,
			BreakerMaxFailures: 5,
			BreakerOpenTimeout: 30 * time.Second,
		},
		Weights: WeightsConfig{
			Behavioral: 0.30,
			Temporal:   0.20,
			Location:   0.30,
			Device:     0.20,
		},
		Risk: RiskConfig{
			CriticalThreshold:  0.8,
			HighThreshold:      0.6,
			MediumThreshold:    0.4,
			LowThreshold:       0.2,
			AutoBlockThreshold: 0.8,
			CriticalEscalation: true,
		},
		Spoofing: SpoofingConfig{
			MaxAccuracyM:         100,
			AccuracyRiskScore:    0.3,
			AccuracyJumpM:        50,
			AccuracyJumpScore:    0.5,
			VelocityRiskScore:    0.7,
			SpeedToleranceFactor: 1.2,
			CriticalSpeedFactor:  2.0,
			SpeedCeilingsKmH: map[string]float64{
				"walking":  6,
				"bicycle":  30,
				"vehicle":  130,
				"train":    300,
				"aircraft": 900,
			},
			InvalidRiskThreshold: 0.8,
		},
		Temporal: TemporalConfig{
			NightStartHour:        22,
			NightEndHour:          6,
			MinRestHours:          8,
			MaxShiftHours:         12,
			UnusualHourScore:      0.5,
			InsufficientRestScore: 0.8,
			ExcessiveShiftScore:   0.7,
			AtypicalWeekendScore:  0.3,
		},
		Location: LocationConfig{
			OutsideGeofenceScore: 0.8,
			UnknownGeofenceScore: 0.1,
		},
		Device: DeviceConfig{
			SharingWindow:        30 * time.Minute,
			SharingScore:         0.9,
			RapidSwitchEvents:    5,
			RapidSwitchDistinct:  4,
			RapidSwitchScore:     0.6,
			TrailingWindow:       30 * 24 * time.Hour,
			MaxTrailingDevices:   3,
			ExcessiveDeviceScore: 0.4,
		},
		Behavioral: BehavioralConfig{
			HourDeviationHours: 2,
			LocationRadiusKm:   0.5,
			HourWeight:         0.30,
			LocationWeight:     0.30,
			DeviceWeight:       0.20,
			WeekdayWeight:      0.10,
			TransportWeight:    0.10,
		},
		Baseline: BaselineConfig{
			MinTrainingRecords:           30,
			LookbackDays:                 90,
			StaleAfter:                   30 * 24 * time.Hour,
			EMAAlpha:                     0.1,
			ClusterRadiusKm:              0.1,
			MaxLocationClusters:          10,
			MaxGeofences:                 5,
			MaxDevices:                   5,
			MinDeviceOccurrences:         3,
			WeekdayCoverage:              0.2,
			TransportCoverage:            0.1,
			DefaultAnomalyScoreThreshold: 0.7,
			DefaultAutoBlockThreshold:    0.9,
		},
		Geo: GeoConfig{
			GeometryCacheSize:  1000,
			HysteresisBufferKm: 0.05,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
