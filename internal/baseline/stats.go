// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package baseline

import "math"

// modeInt returns the statistical mode of values. Ties resolve to the
// smallest value so the result is deterministic.
func modeInt(values []int) int {
	if len(values) == 0 {
		return 0
	}
	counts := make(map[int]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	mode, best := 0, -1
	for v, n := range counts {
		if n > best || (n == best && v < mode) {
			mode, best = v, n
		}
	}
	return mode
}

// mean returns the arithmetic mean of values, 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev returns the population standard deviation of values.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
