// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

// Package geo is the geospatial kernel of the trust engine: coordinate
// validation, great-circle distance, geofence containment with boundary
// hysteresis, batch containment, and proximity clustering.
//
// All operations are pure functions over their inputs. The only state a
// Kernel carries is an injected, bounded LRU cache of prepared geofence
// geometries so repeated containment checks against the same fence skip
// re-preparation.
//
// Accuracy: distances use the haversine formula on a mean Earth radius of
// 6371.0 km, accurate to about 0.5%. That is sufficient for fraud
// thresholds; this package is not a surveying tool.
package geo
