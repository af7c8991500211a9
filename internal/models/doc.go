// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

// Package models defines the data types shared across the trust engine:
// attendance events, learned behavior profiles, transport modes, and the
// fixed-schema verification result structs exchanged with the surrounding
// attendance platform.
//
// All types in this package are plain data. Events and profiles are owned
// by the caller; the engine treats them as immutable snapshots during an
// assessment. Anything that mutates a profile (training, incremental
// updates) goes through the baseline package.
package models
