// ClockGuard TrustEngine - Workforce Attendance Fraud Detection
// Copyright 2026 ClockGuard Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clockguard/trustengine

package geo

import "sync"

const (
	// parallelThreshold is the batch size below which BatchContains always
	// runs sequentially. Worker fan-out costs more than it saves on small
	// batches.
	parallelThreshold = 100

	// defaultBatchWorkers bounds the worker pool for large batches.
	defaultBatchWorkers = 4
)

// BatchContains evaluates containment for every point against one fence.
// Results are returned in input order. With parallel=true and at least
// parallelThreshold points, the batch is partitioned into contiguous
// slices across a bounded worker pool; each worker writes only its own
// slice, so results never interleave. Sequential and parallel execution
// produce identical output.
func (k *Kernel) BatchContains(fence *Geofence, points []Coordinate, parallel bool) ([]bool, error) {
	prepared, err := k.prepare(fence)
	if err != nil {
		return nil, err
	}

	results := make([]bool, len(points))
	if !parallel || len(points) < parallelThreshold {
		for i, p := range points {
			results[i] = prepared.contains(p, true)
		}
		return results, nil
	}

	workers := defaultBatchWorkers
	if workers > len(points) {
		workers = len(points)
	}
	chunk := (len(points) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(points) {
			break
		}
		end := start + chunk
		if end > len(points) {
			end = len(points)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				results[i] = prepared.contains(points[i], true)
			}
		}(start, end)
	}
	wg.Wait()

	return results, nil
}
