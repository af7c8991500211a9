// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

// Package detection implements the fraud detectors and the orchestrator
// that runs them: temporal schedule checks, geofence and GPS-physics
// scoring, device fingerprint correlation, and behavioral baseline
// deviation. The Engine fans an attendance event out to all detectors,
// isolates individual failures, and folds the sub-scores into one weighted
// composite with a risk level and a block decision.
package detection
