// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

// Package baseline learns per-subject behavior profiles from attendance
// history: typical check-in times, locations, geofences, devices, workdays,
// and transport modes. Profiles feed the behavioral detector and the
// per-subject threshold overrides.
//
// Training is the only stateful operation in the engine. The Learner is
// stateless itself; it computes profiles from the history the caller
// supplies, and the caller persists them through a ProfileStore and
// serializes writes per subject (KeyedMutex helps with that).
package baseline
