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

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/clockguard/trustengine/internal/config"
	"github.com/clockguard/trustengine/internal/logging"
	"github.com/clockguard/trustengine/internal/metrics"
	"github.com/clockguard/trustengine/internal/models"
	"github.com/clockguard/trustengine/internal/spoofing"
	"github.com/clockguard/trustengine/internal/validation"
)

// errDetectorPanic marks a recovered detector panic for error classification.
var errDetectorPanic = errors.New("detector panic")

// Engine orchestrates the fraud detectors: it fans an event out to all of
// them, isolates failures behind per-detector circuit breakers, and folds
// the sub-scores into one weighted composite assessment.
//
// A failing detector never fails the assessment. Whatever partial result
// it returned still counts, the rest of its signal scores zero, and the
// assessment carries a detector_unavailable finding, so the remaining
// detectors still protect the event stream.
type Engine struct {
	mu        sync.RWMutex
	config    *config.Config
	detectors []Detector
	breakers  map[DetectorType]*gobreaker.CircuitBreaker[*Result]
}

// NewEngine creates an Engine over the given detectors.
func NewEngine(cfg *config.Config, detectors ...Detector) *Engine {
	e := &Engine{
		config:    cfg,
		detectors: detectors,
		breakers:  make(map[DetectorType]*gobreaker.CircuitBreaker[*Result]),
	}
	if cfg.Engine.BreakerEnabled {
		for _, det := range detectors {
			e.breakers[det.Type()] = gobreaker.NewCircuitBreaker[*Result](gobreaker.Settings{
				Name:    string(det.Type()),
				Timeout: cfg.Engine.BreakerOpenTimeout,
				ReadyToTrip: func(counts gobreaker.Counts) bool {
					return counts.ConsecutiveFailures >= cfg.Engine.BreakerMaxFailures
				},
			})
		}
	}
	return e
}

// NewDefaultEngine wires the four standard detectors from one configuration.
func NewDefaultEngine(cfg *config.Config) *Engine {
	guard := spoofing.NewGuard(cfg.Spoofing)
	return NewEngine(cfg,
		NewTemporalDetector(cfg.Temporal),
		NewLocationDetector(cfg.Location, guard),
		NewDeviceDetector(cfg.Device),
		NewBehavioralDetector(cfg.Behavioral),
	)
}

// Configure replaces the engine-level configuration (weights, risk
// thresholds, orchestration) after validating it. Detector configurations
// are swapped on the detectors themselves.
func (e *Engine) Configure(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid engine configuration: %w", err)
	}
	e.mu.Lock()
	e.config = cfg
	e.mu.Unlock()
	return nil
}

// Assess runs all detectors against the event and returns the composite
// fraud assessment. The event must pass admission validation; malformed
// input is an error, not a fraud signal.
func (e *Engine) Assess(ctx context.Context, in *Input) (*models.FraudAssessment, error) {
	if in == nil || in.Event == nil {
		return nil, errors.New("assessment input requires an event")
	}
	if err := validation.ValidateEvent(in.Event); err != nil {
		return nil, fmt.Errorf("event failed admission validation: %w", err)
	}

	e.mu.RLock()
	cfg := e.config
	detectors := e.detectors
	e.mu.RUnlock()

	start := time.Now()

	results := make([]*Result, len(detectors))
	errs := make([]error, len(detectors))

	if cfg.Engine.Concurrent {
		var wg sync.WaitGroup
		for i, det := range detectors {
			wg.Add(1)
			go func(i int, det Detector) {
				defer wg.Done()
				results[i], errs[i] = e.runDetector(ctx, det, in)
			}(i, det)
		}
		wg.Wait()
	} else {
		for i, det := range detectors {
			results[i], errs[i] = e.runDetector(ctx, det, in)
		}
	}

	assessment := &models.FraudAssessment{
		ID:             uuid.NewString(),
		SubjectID:      in.Event.SubjectID,
		EventID:        in.Event.ID,
		DetectorScores: make(map[string]float64, len(detectors)),
		AssessedAt:     time.Now().UTC(),
	}

	composite := 0.0
	for i, det := range detectors {
		dtype := det.Type()

		res := results[i]

		if errs[i] != nil {
			errType := classifyDetectorError(errs[i])
			metrics.RecordDetectorError(string(dtype), errType)
			logging.Warn().
				Err(errs[i]).
				Str("detector", string(dtype)).
				Str("error_type", errType).
				Str("event_id", in.Event.ID).
				Bool("partial_result", res != nil).
				Msg("Detector failed; assessment continues on whatever it returned")

			// A detector that fails after finding something still
			// contributes what it found. Dropping a confirmed sharing hit
			// because a later lookup timed out would let the failure hide
			// the fraud.
			desc := fmt.Sprintf("%s detector unavailable; its signal is missing from this assessment", dtype)
			if res != nil && len(res.Findings) > 0 {
				desc = fmt.Sprintf("%s detector failed partway; this assessment carries only its partial signal", dtype)
			}
			assessment.Findings = append(assessment.Findings, models.AnomalyFinding{
				Type:        models.FindingDetectorUnavailable,
				Severity:    models.SeverityLow,
				Description: desc,
				Score:       0,
			})
			if res == nil {
				assessment.DetectorScores[string(dtype)] = 0
				continue
			}
		}

		assessment.DetectorScores[string(dtype)] = res.Score
		assessment.Findings = append(assessment.Findings, res.Findings...)
		composite += e.weightFor(cfg, dtype) * res.Score

		for _, f := range res.Findings {
			metrics.RecordFinding(string(dtype), string(f.Severity))
		}
	}

	if composite > 1 {
		composite = 1
	}
	if composite < 0 {
		composite = 0
	}
	assessment.CompositeScore = composite

	escalate := cfg.Risk.CriticalEscalation && len(assessment.CriticalFindings()) > 0

	assessment.RiskLevel = riskLevelFor(cfg.Risk, composite)
	if escalate {
		// A single physically impossible signal outranks any amount of
		// normal-looking behavior in the other dimensions.
		assessment.RiskLevel = models.RiskCritical
	}

	blockThreshold := cfg.Risk.AutoBlockThreshold
	if in.Profile != nil && in.Profile.AutoBlockThreshold > 0 {
		blockThreshold = in.Profile.AutoBlockThreshold
	}
	assessment.ShouldBlock = escalate || composite >= blockThreshold

	assessment.Recommendations = buildRecommendations(assessment, in)

	metrics.RecordAssessment(string(assessment.RiskLevel), assessment.ShouldBlock, time.Since(start))
	logging.Debug().
		Str("assessment_id", assessment.ID).
		Str("subject_id", assessment.SubjectID).
		Str("event_id", assessment.EventID).
		Float64("composite_score", assessment.CompositeScore).
		Str("risk_level", string(assessment.RiskLevel)).
		Bool("should_block", assessment.ShouldBlock).
		Int("findings", len(assessment.Findings)).
		Msg("Assessment completed")

	return assessment, nil
}

// runDetector executes one detector with panic recovery, latency metrics,
// and the circuit breaker when enabled.
func (e *Engine) runDetector(ctx context.Context, det Detector, in *Input) (*Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDetectorRun(string(det.Type()), time.Since(start))
	}()

	run := func() (res *Result, err error) {
		defer func() {
			if r := recover(); r != nil {
				res = nil
				err = fmt.Errorf("%w: %v", errDetectorPanic, r)
			}
		}()
		return det.Detect(ctx, in)
	}

	if breaker, ok := e.breakers[det.Type()]; ok {
		return breaker.Execute(run)
	}
	return run()
}

// weightFor resolves the composite weight for a detector type.
func (e *Engine) weightFor(cfg *config.Config, t DetectorType) float64 {
	switch t {
	case DetectorBehavioral:
		return cfg.Weights.Behavioral
	case DetectorTemporal:
		return cfg.Weights.Temporal
	case DetectorLocation:
		return cfg.Weights.Location
	case DetectorDevice:
		return cfg.Weights.Device
	}
	return 0
}

// classifyDetectorError buckets a detector failure for metrics.
func classifyDetectorError(err error) string {
	switch {
	case errors.Is(err, errDetectorPanic):
		return "panic"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	default:
		return "error"
	}
}

// riskLevelFor maps a composite score onto the configured risk bands.
func riskLevelFor(cfg config.RiskConfig, score float64) models.RiskLevel {
	switch {
	case score >= cfg.CriticalThreshold:
		return models.RiskCritical
	case score >= cfg.HighThreshold:
		return models.RiskHigh
	case score >= cfg.MediumThreshold:
		return models.RiskMedium
	case score >= cfg.LowThreshold:
		return models.RiskLow
	default:
		return models.RiskMinimal
	}
}

// buildRecommendations derives reviewer guidance from the risk level and
// the specific findings on the assessment.
func buildRecommendations(a *models.FraudAssessment, in *Input) []string {
	var recs []string

	switch a.RiskLevel {
	case models.RiskCritical:
		recs = append(recs, "Block the event and open a fraud investigation before approving attendance")
	case models.RiskHigh:
		recs = append(recs, "Hold the event for manual review before approval")
	case models.RiskMedium:
		recs = append(recs, "Review the flagged anomalies during the next approval cycle")
	}

	if a.HasFinding(models.FindingDeviceSharing) {
		recs = append(recs, "Investigate possible buddy punching: verify who was carrying the device at check-in time")
	}
	if a.HasFinding(models.FindingNullIsland) || a.HasFinding(models.FindingInvalidCoordinates) {
		recs = append(recs, "Reject the GPS fix as spoofed or missing and require a fresh check-in")
	}
	if a.HasFinding(models.FindingImpossibleTravel) {
		recs = append(recs, "Verify the declared transport mode against the distance traveled since the previous event")
	}
	if a.HasFinding(models.FindingOutsideGeofence) {
		recs = append(recs, "Confirm the subject was authorized to work outside the assigned geofence")
	}
	if a.HasFinding(models.FindingNoBaseline) {
		recs = append(recs, "Behavioral baseline is still training; this assessment relies on physical checks only")
	}

	if in.Profile != nil && in.Profile.IsSufficient && in.Profile.AnomalyScoreThreshold > 0 &&
		a.CompositeScore >= in.Profile.AnomalyScoreThreshold && a.RiskLevel != models.RiskCritical {
		recs = append(recs, "Composite score exceeds this subject's anomaly threshold; count it toward their anomaly history")
	}

	return recs
}
