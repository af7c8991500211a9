// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

// Package trustengine scores workforce attendance events for fraud. It
// combines four detectors into one weighted composite assessment:
//
//   - temporal: night-window check-ins, rest between shifts, shift length
//   - location: GPS-physics validation and geofence containment
//   - device: fingerprint correlation across subjects (buddy punching)
//   - behavioral: deviation from the subject's learned baseline
//
// The engine is a pure decision library. It holds no event history and
// persists nothing; the caller resolves the previous event, the baseline
// profile, and the device activity view, and saves retrained profiles
// through a ProfileStore.
//
//	cfg, err := trustengine.LoadConfig()
//	if err != nil {
//		return err
//	}
//	engine := trustengine.New(cfg)
//
//	assessment, err := engine.Assess(ctx, &trustengine.Input{
//		Event:    event,
//		Previous: previous,
//		Profile:  profile,
//		Devices:  deviceStore,
//	})
//	if err != nil {
//		return err
//	}
//	if assessment.ShouldBlock {
//		// hold the event for review
//	}
package trustengine

import (
	"github.com/clockguard/trustengine/internal/baseline"
	"github.com/clockguard/trustengine/internal/config"
	"github.com/clockguard/trustengine/internal/detection"
	"github.com/clockguard/trustengine/internal/geo"
	"github.com/clockguard/trustengine/internal/logging"
	"github.com/clockguard/trustengine/internal/models"
	"github.com/clockguard/trustengine/internal/spoofing"
	"github.com/clockguard/trustengine/internal/validation"
)

// Core data model.
type (
	AttendanceEvent = models.AttendanceEvent
	BehaviorProfile = models.BehaviorProfile
	LocationCluster = models.LocationCluster
	FraudAssessment = models.FraudAssessment
	AnomalyFinding  = models.AnomalyFinding
	FindingType     = models.FindingType
	Severity        = models.Severity
	RiskLevel       = models.RiskLevel
	TransportMode   = models.TransportMode
	GeofenceStatus  = models.GeofenceStatus
)

// Platform-side verification records carried alongside events.
type (
	GPSValidationResult    = models.GPSValidationResult
	FaceVerificationResult = models.FaceVerificationResult
)

// Orchestration.
type (
	Engine         = detection.Engine
	Input          = detection.Input
	Detector       = detection.Detector
	DetectorType   = detection.DetectorType
	DeviceActivity = detection.DeviceActivity
)

// Baseline learning.
type (
	Learner               = baseline.Learner
	ProfileStore          = baseline.ProfileStore
	KeyedMutex            = baseline.KeyedMutex
	InsufficientDataError = baseline.InsufficientDataError
)

// Geospatial primitives, for callers that run their own containment checks.
type (
	Coordinate   = geo.Coordinate
	Geofence     = geo.Geofence
	GeofenceKind = geo.GeofenceKind
	GeoKernel    = geo.Kernel
)

// Configuration.
type Config = config.Config

// SpoofingGuard validates GPS physics standalone, outside a full assessment.
type SpoofingGuard = spoofing.Guard

// Risk levels, ordered by severity.
const (
	RiskMinimal  = models.RiskMinimal
	RiskLow      = models.RiskLow
	RiskMedium   = models.RiskMedium
	RiskHigh     = models.RiskHigh
	RiskCritical = models.RiskCritical
)

// Finding severities.
const (
	SeverityLow      = models.SeverityLow
	SeverityMedium   = models.SeverityMedium
	SeverityHigh     = models.SeverityHigh
	SeverityCritical = models.SeverityCritical
)

// Transport modes.
const (
	TransportModeNone     = models.TransportModeNone
	TransportModeWalking  = models.TransportModeWalking
	TransportModeBicycle  = models.TransportModeBicycle
	TransportModeVehicle  = models.TransportModeVehicle
	TransportModeTrain    = models.TransportModeTrain
	TransportModeAircraft = models.TransportModeAircraft
	TransportModeUnknown  = models.TransportModeUnknown
)

// Geofence containment verdicts.
const (
	GeofenceStatusUnknown = models.GeofenceStatusUnknown
	GeofenceStatusInside  = models.GeofenceStatusInside
	GeofenceStatusOutside = models.GeofenceStatusOutside
)

// New creates an Engine with the four standard detectors wired from cfg.
func New(cfg *Config) *Engine {
	return detection.NewDefaultEngine(cfg)
}

// NewEngine creates an Engine over a custom detector set.
func NewEngine(cfg *Config, detectors ...Detector) *Engine {
	return detection.NewEngine(cfg, detectors...)
}

// NewLearner creates a baseline Learner from cfg.
func NewLearner(cfg *Config) *Learner {
	return baseline.NewLearner(cfg.Baseline)
}

// NewGeoKernel creates a geospatial kernel with the configured geometry
// cache.
func NewGeoKernel(cfg *Config) *GeoKernel {
	return geo.NewKernel(cfg.Geo.GeometryCacheSize)
}

// NewSpoofingGuard creates a standalone spoofing guard from cfg.
func NewSpoofingGuard(cfg *Config) *SpoofingGuard {
	return spoofing.NewGuard(cfg.Spoofing)
}

// LoadConfig loads the layered configuration: defaults, optional YAML file,
// environment variables.
func LoadConfig() (*Config, error) {
	return config.Load()
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// InitLogging reconfigures the engine's global logger from cfg.
func InitLogging(cfg *Config) {
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

// ValidateEvent runs admission validation on an event without assessing it.
func ValidateEvent(e *AttendanceEvent) error {
	return validation.ValidateEvent(e)
}

// ParseTransportMode normalizes a raw string to a TransportMode.
func ParseTransportMode(raw string) TransportMode {
	return models.ParseTransportMode(raw)
}

// DecodeStrict unmarshals JSON into v, rejecting fields the target schema
// does not declare.
func DecodeStrict(data []byte, v any) error {
	return models.DecodeStrict(data, v)
}
