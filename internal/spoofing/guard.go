// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

// Package spoofing implements physics-based GPS validation: null-island
// detection, coordinate bounds, accuracy manipulation, and transport-mode
// aware impossible-travel checks.
package spoofing

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/clockguard/trustengine/internal/config"
	"github.com/clockguard/trustengine/internal/geo"
	"github.com/clockguard/trustengine/internal/models"
)

// Guard validates the GPS physics of an attendance event. Thread-safe;
// one Guard serves all subjects.
type Guard struct {
	mu     sync.RWMutex
	config config.SpoofingConfig
}

// Result is the outcome of a spoofing validation run.
type Result struct {
	// IsValid is false when the event's GPS story is physically
	// implausible: a critical finding, a velocity violation, or an
	// aggregated risk at or above the invalid threshold.
	IsValid   bool
	RiskScore float64
	Findings  []models.AnomalyFinding
}

// TravelMetadata is attached to impossible-travel findings.
type TravelMetadata struct {
	FromLatitude  float64   `json:"from_latitude"`
	FromLongitude float64   `json:"from_longitude"`
	FromTimestamp time.Time `json:"from_timestamp"`
	ToLatitude    float64   `json:"to_latitude"`
	ToLongitude   float64   `json:"to_longitude"`
	ToTimestamp   time.Time `json:"to_timestamp"`
	DistanceKm    float64   `json:"distance_km"`
	ElapsedHours  float64   `json:"elapsed_hours"`
	SpeedKmH      float64   `json:"required_speed_kmh"`
	CeilingKmH    float64   `json:"ceiling_kmh"`
	TransportMode string    `json:"transport_mode"`
}

// NewGuard creates a Guard with the given configuration.
func NewGuard(cfg config.SpoofingConfig) *Guard {
	return &Guard{config: cfg}
}

// Configure replaces the guard configuration after validating it.
func (g *Guard) Configure(cfg config.SpoofingConfig) error {
	full := config.Default()
	full.Spoofing = cfg
	if err := full.Validate(); err != nil {
		return fmt.Errorf("invalid spoofing configuration: %w", err)
	}
	g.mu.Lock()
	g.config = cfg
	g.mu.Unlock()
	return nil
}

// Validate runs the spoofing checks against an event, in order of
// severity. Fatal coordinate problems (null island, out-of-range)
// short-circuit immediately; the remaining checks accumulate risk.
// previous may be nil when the subject has no completed event; mode is
// the declared transport mode for the leg since previous.
func (g *Guard) Validate(event, previous *models.AttendanceEvent, mode models.TransportMode) Result {
	g.mu.RLock()
	cfg := g.config
	g.mu.RUnlock()

	lat, lon := event.StartLatitude, event.StartLongitude

	// Null island: a defaulted or spoofed GPS stack reporting (0,0).
	if geo.IsNullIsland(lat, lon) {
		return Result{
			IsValid:   false,
			RiskScore: 1.0,
			Findings: []models.AnomalyFinding{{
				Type:        models.FindingNullIsland,
				Severity:    models.SeverityCritical,
				Description: "coordinates at null island (0,0) indicate spoofed or missing GPS data",
				Score:       1.0,
			}},
		}
	}

	// Coordinate bounds.
	if !geo.InBounds(lat, lon) {
		return Result{
			IsValid:   false,
			RiskScore: 1.0,
			Findings: []models.AnomalyFinding{{
				Type:        models.FindingInvalidCoordinates,
				Severity:    models.SeverityCritical,
				Description: fmt.Sprintf("coordinates out of range: lat=%v lon=%v", lat, lon),
				Score:       1.0,
			}},
		}
	}

	var (
		findings          []models.AnomalyFinding
		risk              float64
		velocityViolation bool
	)

	// Reported accuracy worse than the acceptable radius. Non-fatal: a
	// poor fix is suspicious, not impossible.
	if event.AccuracyM > cfg.MaxAccuracyM {
		findings = append(findings, models.AnomalyFinding{
			Type:        models.FindingLowAccuracy,
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("GPS accuracy %.0f m exceeds the %.0f m limit", event.AccuracyM, cfg.MaxAccuracyM),
			Score:       cfg.AccuracyRiskScore,
		})
		risk += cfg.AccuracyRiskScore
	}

	// Impossible travel relative to the previous completed event.
	if previous != nil {
		if finding, violated := g.checkVelocity(cfg, event, previous, mode); violated {
			findings = append(findings, *finding)
			risk += cfg.VelocityRiskScore
			velocityViolation = true
		}

		// A large jump in reported accuracy between consecutive events
		// often accompanies accuracy manipulation.
		if math.Abs(event.AccuracyM-previous.AccuracyM) > cfg.AccuracyJumpM {
			findings = append(findings, models.AnomalyFinding{
				Type:     models.FindingAccuracyJump,
				Severity: models.SeverityHigh,
				Description: fmt.Sprintf("GPS accuracy jumped from %.0f m to %.0f m between events",
					previous.AccuracyM, event.AccuracyM),
				Score: cfg.AccuracyJumpScore,
			})
			risk += cfg.AccuracyJumpScore
		}
	}

	if risk > 1.0 {
		risk = 1.0
	}

	hasCritical := false
	for _, f := range findings {
		if f.Severity == models.SeverityCritical {
			hasCritical = true
			break
		}
	}

	return Result{
		IsValid:   !hasCritical && !velocityViolation && risk < cfg.InvalidRiskThreshold,
		RiskScore: risk,
		Findings:  findings,
	}
}

// checkVelocity compares the required travel speed since the previous
// event against the ceiling for the declared transport mode.
func (g *Guard) checkVelocity(cfg config.SpoofingConfig, event, previous *models.AttendanceEvent, mode models.TransportMode) (*models.AnomalyFinding, bool) {
	prevLat, prevLon, _ := previous.EndLocation()
	if geo.IsNullIsland(prevLat, prevLon) || !geo.InBounds(prevLat, prevLon) {
		// No trustworthy origin to measure from.
		return nil, false
	}

	prevTime := previous.CheckInAt
	if previous.CheckOutAt != nil {
		prevTime = *previous.CheckOutAt
	}

	elapsed := event.CheckInAt.Sub(prevTime)
	if elapsed < 0 {
		// Out-of-order events; velocity is meaningless.
		return nil, false
	}

	distanceKm := geo.DistanceKm(
		geo.Coordinate{Lat: prevLat, Lon: prevLon},
		geo.Coordinate{Lat: event.StartLatitude, Lon: event.StartLongitude},
	)

	elapsedHours := elapsed.Hours()
	if elapsedHours < 1e-9 {
		elapsedHours = 0.001 // Prevent division by zero
	}
	speedKmH := distanceKm / elapsedHours

	ceiling := g.speedCeiling(cfg, mode)
	if speedKmH <= ceiling*cfg.SpeedToleranceFactor {
		return nil, false
	}

	severity := models.SeverityHigh
	if speedKmH >= ceiling*cfg.CriticalSpeedFactor {
		severity = models.SeverityCritical
	}

	metadata, _ := json.Marshal(TravelMetadata{
		FromLatitude:  prevLat,
		FromLongitude: prevLon,
		FromTimestamp: prevTime,
		ToLatitude:    event.StartLatitude,
		ToLongitude:   event.StartLongitude,
		ToTimestamp:   event.CheckInAt,
		DistanceKm:    round2(distanceKm),
		ElapsedHours:  round2(elapsedHours),
		SpeedKmH:      round2(speedKmH),
		CeilingKmH:    ceiling,
		TransportMode: mode.String(),
	})

	return &models.AnomalyFinding{
		Type:     models.FindingImpossibleTravel,
		Severity: severity,
		Description: fmt.Sprintf("traveled %.1f km in %.0f minutes (%.0f km/h) against a %.0f km/h ceiling for %s",
			distanceKm, elapsed.Minutes(), speedKmH, ceiling, mode),
		Score:    cfg.VelocityRiskScore,
		Metadata: metadata,
	}, true
}

// speedCeiling resolves the ceiling for a transport mode, falling back to
// walking for unknown or undeclared modes: the most conservative
// assumption catches the most spoofing.
func (g *Guard) speedCeiling(cfg config.SpoofingConfig, mode models.TransportMode) float64 {
	if ceiling, ok := cfg.SpeedCeilingsKmH[mode.String()]; ok {
		return ceiling
	}
	if ceiling, ok := cfg.SpeedCeilingsKmH[models.TransportModeWalking.String()]; ok {
		return ceiling
	}
	return 6 // Walking pace; reached only with a misconfigured ceiling table.
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
