// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package models

import "time"

// RiskLevel classifies the composite fraud score of an assessment.
type RiskLevel string

const (
	RiskMinimal  RiskLevel = "minimal"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// riskRank orders risk levels for comparisons.
var riskRank = map[RiskLevel]int{
	RiskMinimal:  0,
	RiskLow:      1,
	RiskMedium:   2,
	RiskHigh:     3,
	RiskCritical: 4,
}

// AtLeast reports whether r is at least as severe as other.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return riskRank[r] >= riskRank[other]
}

// FraudAssessment is the engine's verdict for one attendance event. It is
// computed fresh per event and returned synchronously; persistence,
// alerting, and user notification are the caller's responsibility.
type FraudAssessment struct {
	ID        string `json:"id"`
	SubjectID string `json:"subject_id"`
	EventID   string `json:"event_id"`

	CompositeScore float64   `json:"composite_score"`
	RiskLevel      RiskLevel `json:"risk_level"`
	ShouldBlock    bool      `json:"should_block"`

	Findings []AnomalyFinding `json:"findings,omitempty"`

	// DetectorScores holds the raw sub-score per detector, keyed by
	// detector type name.
	DetectorScores map[string]float64 `json:"detector_scores"`

	Recommendations []string `json:"recommendations,omitempty"`

	AssessedAt time.Time `json:"assessed_at"`
}

// CriticalFindings returns the findings with critical severity.
func (a *FraudAssessment) CriticalFindings() []AnomalyFinding {
	var out []AnomalyFinding
	for _, f := range a.Findings {
		if f.Severity == SeverityCritical {
			out = append(out, f)
		}
	}
	return out
}

// HasFinding reports whether the assessment carries a finding of the
// given type.
func (a *FraudAssessment) HasFinding(t FindingType) bool {
	for _, f := range a.Findings {
		if f.Type == t {
			return true
		}
	}
	return false
}
