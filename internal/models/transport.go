// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package models

import "strings"

// TransportMode identifies how a subject declared they traveled between
// attendance locations. The spoofing guard uses it to pick a plausible
// speed ceiling for velocity checks.
type TransportMode string

const (
	TransportModeNone     TransportMode = "none"
	TransportModeWalking  TransportMode = "walking"
	TransportModeBicycle  TransportMode = "bicycle"
	TransportModeVehicle  TransportMode = "vehicle"
	TransportModeTrain    TransportMode = "train"
	TransportModeAircraft TransportMode = "aircraft"
	TransportModeUnknown  TransportMode = "unknown"
)

// transportModes is the closed set of accepted values.
var transportModes = map[TransportMode]struct{}{
	TransportModeNone:     {},
	TransportModeWalking:  {},
	TransportModeBicycle:  {},
	TransportModeVehicle:  {},
	TransportModeTrain:    {},
	TransportModeAircraft: {},
	TransportModeUnknown:  {},
}

// ParseTransportMode normalizes a raw string to a TransportMode.
// Unrecognized values map to TransportModeUnknown so a bad client value
// degrades to the most conservative (slowest) speed ceiling rather than
// failing the event.
func ParseTransportMode(raw string) TransportMode {
	mode := TransportMode(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := transportModes[mode]; ok {
		return mode
	}
	return TransportModeUnknown
}

// Valid reports whether the mode is a member of the closed set.
func (m TransportMode) Valid() bool {
	_, ok := transportModes[m]
	return ok
}

// String returns the wire representation of the mode.
func (m TransportMode) String() string {
	return string(m)
}

// rank orders modes by plausible top speed, slowest first. Used to pick
// the fastest declared mode when an event carries several legs.
var transportModeRank = map[TransportMode]int{
	TransportModeNone:     0,
	TransportModeUnknown:  1,
	TransportModeWalking:  2,
	TransportModeBicycle:  3,
	TransportModeVehicle:  4,
	TransportModeTrain:    5,
	TransportModeAircraft: 6,
}

// FastestTransportMode returns the declared mode with the highest plausible
// speed, or TransportModeUnknown when the list is empty. Velocity checks use
// the fastest declared leg so a multi-leg commute is judged against its most
// permissive ceiling.
func FastestTransportMode(modes []TransportMode) TransportMode {
	fastest := TransportModeUnknown
	best := -1
	for _, m := range modes {
		if m == TransportModeNone {
			continue
		}
		if r, ok := transportModeRank[m]; ok && r > best {
			best = r
			fastest = m
		}
	}
	return fastest
}
